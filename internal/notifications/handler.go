package notifications

import (
	"context"
	"fmt"

	"detailbay/pkg/kafka"
	"detailbay/pkg/logger"
)

// NewBookingEventHandler returns the consumer handler that turns booking
// lifecycle events into customer emails. Unknown event types are committed
// without action so a schema addition never wedges the consumer group.
func NewBookingEventHandler(sender *EmailSender, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("failed to decode booking event: %w", err)
		}

		subject, body, ok := composeEmail(event)
		if !ok {
			log.Warn("Skipping unknown booking event type",
				"event_type", event.EventType,
				"booking_id", event.BookingID,
			)
			return nil
		}

		if event.CustomerEmail == "" {
			log.Warn("Booking event has no customer email, skipping",
				"booking_id", event.BookingID,
			)
			return nil
		}

		if err := sender.Send(event.CustomerEmail, subject, body); err != nil {
			return err
		}

		log.Info("Processed booking event",
			"event_type", event.EventType,
			"booking_id", event.BookingID,
		)
		return nil
	}
}

func composeEmail(event BookingEvent) (subject, body string, ok bool) {
	when := fmt.Sprintf("%s at %s", event.Date, event.Time)

	switch event.EventType {
	case "booking_created":
		subject = "We received your booking request"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour detailing appointment for %s is pending confirmation. Total: $%.2f.\n\nWe will confirm shortly.",
			event.CustomerName, when, float64(event.TotalPrice)/100,
		)
	case "booking_confirmed":
		subject = "Your booking is confirmed"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour detailing appointment is confirmed for %s. See you then!",
			event.CustomerName, when,
		)
	case "booking_cancelled":
		subject = "Your booking was cancelled"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour detailing appointment for %s has been cancelled. The slot has been released.",
			event.CustomerName, when,
		)
	case "booking_completed":
		subject = "Thanks for choosing us"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour detailing service on %s is complete. We hope to see you again!",
			event.CustomerName, when,
		)
	default:
		return "", "", false
	}

	return subject, body, true
}
