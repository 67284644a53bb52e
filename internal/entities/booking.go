package entities

type CustomerData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type BookingRequest struct {
	VehicleID       int          `json:"vehicle_id"`
	Customer        CustomerData `json:"customer"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	PaymentIntentID string       `json:"payment_intent_id,omitempty"`
	PaymentMethod   string       `json:"payment_method,omitempty"`
}

type Pricing struct {
	Days      int     `json:"days"`
	DailyRate float64 `json:"daily_rate"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}

type BookingResponse struct {
	RentalID      int     `json:"rental_id"`
	Code          string  `json:"code"`
	Status        string  `json:"status"`
	Pricing       Pricing `json:"pricing"`
	CustomerID    int     `json:"customer_id"`
	PaymentStatus string  `json:"payment_status"`
}

// BookingDetail is the joined read view of one booking.
type BookingDetail struct {
	RentalID  int             `json:"rental_id"`
	Code      string          `json:"code"`
	Customer  CustomerData    `json:"customer"`
	Vehicle   VehicleResponse `json:"vehicle"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Total     float64         `json:"total_amount"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
	Payment   *PaymentInfo    `json:"payment,omitempty"`
}

type PaymentInfo struct {
	Amount          float64 `json:"amount"`
	Method          string  `json:"method"`
	Status          string  `json:"status"`
	PaymentIntentID string  `json:"payment_intent_id,omitempty"`
	PaymentDate     string  `json:"payment_date,omitempty"`
}
