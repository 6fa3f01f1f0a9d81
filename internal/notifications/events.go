package notifications

import (
	"context"
	"time"

	"detailbay/pkg/kafka"
	"detailbay/pkg/logger"
	"detailbay/pkg/model"
)

const (
	BookingEventsTopic    = "booking-events"
	BookingEventsDLQTopic = "booking-events-dlq"
	eventSource           = "detailbay-server"
	schemaVersion         = "1"
)

// BookingEvent is the wire payload for every booking lifecycle event.
type BookingEvent struct {
	EventType     string    `json:"event_type"`
	BookingID     string    `json:"booking_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalPrice    int64     `json:"total_price_cents"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events to Kafka.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewPublisher(producer *kafka.Producer, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		log:      log,
	}
}

func (p *Publisher) PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) error {
	event := BookingEvent{
		EventType:     eventType,
		BookingID:     booking.ID,
		Date:          booking.Date,
		Time:          booking.Time,
		Status:        booking.Status,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		TotalPrice:    booking.TotalPrice,
		OccurredAt:    time.Now(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(eventSource).
		WithHeader(kafka.HeaderSchemaVersion, schemaVersion).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
