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

type CustomerHandler struct {
	Service *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: svc}
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.ListCustomers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid customer id"))
		return
	}
	var req entities.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if err := h.Service.UpdateCustomer(r.Context(), id, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "customer updated"})
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid customer id"))
		return
	}
	if err := h.Service.DeleteCustomer(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "customer deleted"})
}
