package service

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SendEmailWithSendGrid delivers one transactional email. Configuration
// comes from SENDGRID_API_KEY, SENDGRID_FROM_EMAIL and SENDGRID_FROM_NAME.
func SendEmailWithSendGrid(toEmail, toName, subject, plainBody string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL is not set")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "FleetRental"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainBody, "")

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	log.Printf("email sent to %s (subject %q)", toEmail, subject)
	return nil
}

// SendSMS delivers one text message through Twilio. Phone numbers should be
// in E.164 format.
func SendSMS(toNumber, body string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("Twilio credentials are not fully configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("phone number %q is not E.164, SMS delivery may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send SMS via Twilio: %w", err)
	}
	return nil
}
