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

type BookingHandler struct {
	Service       *service.BookingService
	RentalService *service.RentalService
}

func NewBookingHandler(svc *service.BookingService, rentalSvc *service.RentalService) *BookingHandler {
	return &BookingHandler{Service: svc, RentalService: rentalSvc}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	resp, err := h.Service.CreateBooking(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// CheckAvailability answers GET /vehicles/{id}/availability?start_date=&end_date=.
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid vehicle id"))
		return
	}
	q := r.URL.Query()
	resp, err := h.Service.CheckAvailability(r.Context(), vehicleID, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchVehicles answers GET /vehicles/search?start_date=&end_date=&type=.
func (h *BookingHandler) SearchVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.Service.SearchAvailableVehicles(r.Context(), q.Get("type"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// VehicleConflicts answers GET /vehicles/{id}/conflicts with the vehicle's
// upcoming booked windows.
func (h *BookingHandler) VehicleConflicts(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("invalid vehicle id"))
		return
	}
	resp, err := h.RentalService.UpcomingConflicts(r.Context(), vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
