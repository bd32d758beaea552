// Package queue exchanges screening events with other services over RabbitMQ.
package queue

import (
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

const (
	// ExchangeName is the topic exchange screening events are published to.
	ExchangeName = "screenings"
	ExchangeKind = "topic"

	RoutingScreeningCreated = "screening.created"
	RoutingScreeningDeleted = "screening.deleted"

	// BookingQueueName is the durable queue the booking service fills with
	// confirmed reservations.
	BookingQueueName = "booking.confirmed"
)

// ScreeningEvent announces that a screening was created or deleted.
type ScreeningEvent struct {
	Type       string          `json:"type"`
	Screening  model.Screening `json:"screening"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// BookingConfirmedEvent is published by the booking service when a
// reservation is confirmed. Only the seat count matters here; individual
// seats are not tracked.
type BookingConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ScreeningID   uint64 `json:"screening_id"`
	UserID        uint64 `json:"user_id"`
	Seats         int    `json:"seats"`
	ConfirmedAt   string `json:"confirmed_at"` // RFC 3339
}

var errIncompleteEvent = errors.New("incomplete booking event")

// Reservation converts the event into a ledger entry.
func (ev BookingConfirmedEvent) Reservation() (model.Reservation, error) {
	if ev.ReservationID == 0 || ev.ScreeningID == 0 || ev.Seats <= 0 {
		return model.Reservation{}, errIncompleteEvent
	}
	at, err := time.Parse(time.RFC3339, ev.ConfirmedAt)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("confirmed_at: %w", err)
	}
	return model.Reservation{
		ID:          ev.ReservationID,
		ScreeningID: ev.ScreeningID,
		UserID:      ev.UserID,
		Seats:       ev.Seats,
		ConfirmedAt: at.UTC(),
	}, nil
}
