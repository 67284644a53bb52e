package entities

type PaymentIntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
	RentalID int     `json:"rental_id,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret    string  `json:"client_secret"`
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

type RefundRequest struct {
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount,omitempty"`
}

type RefundResponse struct {
	RefundID        string  `json:"refund_id"`
	Amount          float64 `json:"amount"`
	Status          string  `json:"status"`
	PaymentIntentID string  `json:"payment_intent_id"`
}
