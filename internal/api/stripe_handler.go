package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"fleetrental/internal/entities"
	apperrors "fleetrental/internal/errors"
	"fleetrental/internal/service"
	"fleetrental/internal/utils"
)

type StripeHandler struct {
	WebhookSecret    string
	StripeService    *service.StripeService
	ReconcileService *service.ReconcileService
}

func NewStripeHandler(webhookSecret string, stripeSvc *service.StripeService, reconcileSvc *service.ReconcileService) *StripeHandler {
	return &StripeHandler{
		WebhookSecret:    webhookSecret,
		StripeService:    stripeSvc,
		ReconcileService: reconcileSvc,
	}
}

func (h *StripeHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req entities.PaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	resp, err := h.StripeService.CreatePaymentIntent(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ConfirmPayment reports the provider-side status of an intent so clients
// can poll after a checkout without waiting for the webhook.
func (h *StripeHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req entities.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if req.PaymentIntentID == "" {
		writeError(w, apperrors.Validation("payment_intent_id is required"))
		return
	}
	intent, err := h.StripeService.GetPaymentIntent(req.PaymentIntentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.PaymentIntentResponse{
		PaymentIntentID: intent.ID,
		Amount:          utils.CentsToAmount(intent.Amount),
		Currency:        string(intent.Currency),
		Status:          string(intent.Status),
	})
}

func (h *StripeHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req entities.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	resp, err := h.StripeService.RefundPayment(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleWebhook receives provider payment events. The signature is verified
// against the webhook secret before anything is parsed. A non-2xx response
// makes the provider redeliver, so only persistence failures return one;
// malformed or unknown events are acknowledged and dropped.
func (h *StripeHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("webhook: error reading body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.WebhookSecret)
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case service.EventPaymentSucceeded, service.EventPaymentFailed, service.EventPaymentCanceled:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			log.Printf("webhook: error parsing payment intent from %s: %v", event.Type, err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		rentalID, _ := strconv.Atoi(intent.Metadata["rental_id"])
		ev := &service.ProviderEvent{
			Type:        string(event.Type),
			IntentID:    intent.ID,
			RentalID:    rentalID,
			AmountCents: intent.Amount,
		}
		if err := h.ReconcileService.Reconcile(r.Context(), ev); err != nil {
			log.Printf("webhook: reconcile %s for intent %s failed: %v", event.Type, intent.ID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		log.Printf("webhook: unhandled event type %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
