package services

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/bookingbot/backend/internal/models"
)

// Notifier delivers the booking confirmation to the customer once payment
// has been captured.
type Notifier interface {
	SendBookingConfirmation(booking *models.Booking) error
}

// TwilioNotifier sends confirmations as SMS via Twilio.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioNotifier creates a notifier from the environment.
func NewTwilioNotifier() (*TwilioNotifier, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioNotifier{client: client, from: from}, nil
}

// SendBookingConfirmation texts the customer their booking reference and
// itinerary. A missing customer phone is not an error; there is simply
// nothing to send.
func (t *TwilioNotifier) SendBookingConfirmation(booking *models.Booking) error {
	if booking.CustomerPhone == "" {
		log.Printf("Booking %s has no customer phone, skipping confirmation SMS", booking.BookingReference)
		return nil
	}

	message := fmt.Sprintf(
		"✈️ Your flight booking is confirmed!\n\nReference: %s\nRoute: %s → %s\nDeparture: %s\nTotal paid: %s %.2f\n\nThank you for booking with us!",
		booking.BookingReference,
		booking.Origin,
		booking.Destination,
		booking.DepartureDate,
		booking.Currency,
		booking.TotalPrice,
	)

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(booking.CustomerPhone)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send confirmation SMS for %s: %v", booking.BookingReference, err)
		return err
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Printf("✅ Confirmation SMS sent for %s, SID: %s", booking.BookingReference, sid)
	return nil
}

// NoopNotifier is used when Twilio is not configured; confirmations are
// logged only.
type NoopNotifier struct{}

func (NoopNotifier) SendBookingConfirmation(booking *models.Booking) error {
	log.Printf("Notification disabled, booking %s confirmed silently", booking.BookingReference)
	return nil
}
