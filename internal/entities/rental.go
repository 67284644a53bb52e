package entities

type RentalSummary struct {
	ID           int     `json:"id"`
	Code         string  `json:"code"`
	CustomerID   int     `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Email        string  `json:"email"`
	VehicleID    int     `json:"vehicle_id"`
	VehicleModel string  `json:"vehicle_model"`
	VehicleType  string  `json:"vehicle_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Total        float64 `json:"total_amount"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

type RentalsList struct {
	Rentals []RentalSummary `json:"rentals"`
	Count   int             `json:"count"`
}

// UpdateRentalRequest reschedules or reassigns a rental. Zero-valued fields
// keep the stored value. Totals are always recomputed server-side.
type UpdateRentalRequest struct {
	VehicleID int    `json:"vehicle_id,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type UpdateRentalStatusRequest struct {
	Status string `json:"status"`
}
