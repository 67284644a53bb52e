package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/service"
)

type VehicleHandler struct {
	Service *service.VehicleService
}

func NewVehicleHandler(svc *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{Service: svc}
}

// ListVehicles answers GET /vehicles?type=&available=true.
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.Service.ListVehicles(r.Context(), q.Get("type"), q.Get("available") == "true")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid vehicle id"))
		return
	}
	resp, err := h.Service.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req entities.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	resp, err := h.Service.CreateVehicle(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid vehicle id"))
		return
	}
	var req entities.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	resp, err := h.Service.UpdateVehicle(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid vehicle id"))
		return
	}
	if err := h.Service.DeleteVehicle(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "vehicle deleted"})
}
