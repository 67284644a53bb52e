package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/repository"
	"fleetrental/internal/service"
)

type RentalHandler struct {
	Service *service.RentalService
}

func NewRentalHandler(svc *service.RentalService) *RentalHandler {
	return &RentalHandler{Service: svc}
}

// ListRentals answers GET /admin/rentals?status=&customer_id=&vehicle_id=.
func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.RentalFilter{Status: q.Get("status")}
	if v := q.Get("customer_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, apperrors.Validation("invalid customer_id"))
			return
		}
		filter.CustomerID = id
	}
	if v := q.Get("vehicle_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, apperrors.Validation("invalid vehicle_id"))
			return
		}
		filter.VehicleID = id
	}

	resp, err := h.Service.ListRentals(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid rental id"))
		return
	}
	resp, err := h.Service.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RentalHandler) UpdateRental(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid rental id"))
		return
	}
	var req entities.UpdateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	resp, err := h.Service.UpdateRental(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RentalHandler) UpdateRentalStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid rental id"))
		return
	}
	var req entities.UpdateRentalStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if err := h.Service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "rental status updated"})
}

func (h *RentalHandler) DeleteRental(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid rental id"))
		return
	}
	if err := h.Service.DeleteRental(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "rental deleted"})
}
