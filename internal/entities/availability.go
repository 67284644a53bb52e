package entities

// RentalWindow is one booked span blocking a vehicle's calendar.
type RentalWindow struct {
	RentalID  int    `json:"rental_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

type AvailabilityResponse struct {
	Available bool            `json:"available"`
	Conflicts []RentalWindow  `json:"conflicts"`
	Vehicle   VehicleResponse `json:"vehicle"`
}

type VehicleSearchResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Type      string            `json:"type,omitempty"`
	Count     int               `json:"count"`
}

type ConflictsResponse struct {
	VehicleID int            `json:"vehicle_id"`
	Conflicts []RentalWindow `json:"conflicts"`
}
