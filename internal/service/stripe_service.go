package service

import (
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"

	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/utils"
)

// StripeService wraps the payment provider API. The rental id travels in the
// intent metadata so webhook events can be tied back to a booking.
type StripeService struct{}

func NewStripeService() *StripeService {
	return &StripeService{}
}

func (s *StripeService) CreatePaymentIntent(req *entities.PaymentIntentRequest) (*entities.PaymentIntentResponse, error) {
	if req.Amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(utils.AmountToCents(req.Amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.RentalID > 0 {
		params.AddMetadata("rental_id", strconv.Itoa(req.RentalID))
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, apperrors.Internal("create payment intent", err)
	}

	return &entities.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          utils.CentsToAmount(intent.Amount),
		Currency:        string(intent.Currency),
		Status:          string(intent.Status),
	}, nil
}

func (s *StripeService) GetPaymentIntent(intentID string) (*stripe.PaymentIntent, error) {
	intent, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return nil, apperrors.Internal("load payment intent", err)
	}
	return intent, nil
}

// RefundPayment refunds the given intent, either fully or for the partial
// amount the request names.
func (s *StripeService) RefundPayment(req *entities.RefundRequest) (*entities.RefundResponse, error) {
	if req.PaymentIntentID == "" {
		return nil, apperrors.Validation("payment_intent_id is required")
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentIntentID),
	}
	if req.Amount > 0 {
		params.Amount = stripe.Int64(utils.AmountToCents(req.Amount))
	}

	r, err := refund.New(params)
	if err != nil {
		return nil, apperrors.Internal("create refund", err)
	}
	return &entities.RefundResponse{
		RefundID:        r.ID,
		Amount:          utils.CentsToAmount(r.Amount),
		Status:          string(r.Status),
		PaymentIntentID: req.PaymentIntentID,
	}, nil
}
