package service

import (
	"fmt"
	"log"

	"fleetrental/internal/entities"
)

// NotifyService sends booking notifications in the background. Delivery
// failures are logged and never surface to the request that triggered them.
type NotifyService struct{}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

func (n *NotifyService) BookingCreated(customer entities.CustomerData, booking *entities.BookingResponse, vehicleModel string) {
	subject := fmt.Sprintf("Your rental booking %s is %s", booking.Code, booking.Status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour rental booking is %s.\n\n"+
			"Booking code: %s\n"+
			"Vehicle: %s\n"+
			"Days: %d\n"+
			"Total: %.2f\n\n"+
			"Thank you for choosing FleetRental.",
		customer.Name, booking.Status, booking.Code, vehicleModel,
		booking.Pricing.Days, booking.Pricing.Total,
	)

	go func() {
		if err := SendEmailWithSendGrid(customer.Email, customer.Name, subject, body); err != nil {
			log.Printf("booking %s created, email to %s failed: %v", booking.Code, customer.Email, err)
		}
		if customer.Phone == "" {
			return
		}
		sms := fmt.Sprintf("FleetRental: booking %s is %s. Details in your email.", booking.Code, booking.Status)
		if err := SendSMS(customer.Phone, sms); err != nil {
			log.Printf("booking %s created, SMS to %s failed: %v", booking.Code, customer.Phone, err)
		}
	}()
}

func (n *NotifyService) PaymentConfirmed(email, name, code string) {
	subject := fmt.Sprintf("Payment received for booking %s", code)
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received your payment and booking %s is now confirmed.\n\n"+
			"Thank you for choosing FleetRental.",
		name, code,
	)

	go func() {
		if err := SendEmailWithSendGrid(email, name, subject, body); err != nil {
			log.Printf("payment confirmation email for booking %s failed: %v", code, err)
		}
	}()
}
