package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

// Seat accounting modes.
const (
	SeatAccountingCompat = "compat"
	SeatAccountingLedger = "ledger"
)

// SeatLedger reports how many seats of a screening are booked.
type SeatLedger interface {
	BookedSeats(ctx context.Context, s model.Screening) (int, error)
}

// FullyBookedLedger treats every screening as fully booked, so the
// free-seat rule never blocks a deletion. This keeps the behaviour of
// earlier releases, which had no reservation data.
type FullyBookedLedger struct{}

func (FullyBookedLedger) BookedSeats(_ context.Context, s model.Screening) (int, error) {
	return s.Capacity, nil
}

// ReservationCounter sums confirmed reservation seats per screening.
type ReservationCounter interface {
	BookedSeats(ctx context.Context, screeningID uint64) (int, error)
}

// ReservationLedger counts seats from recorded reservations.
type ReservationLedger struct {
	Reservations ReservationCounter
}

func (l ReservationLedger) BookedSeats(ctx context.Context, s model.Screening) (int, error) {
	return l.Reservations.BookedSeats(ctx, s.ID)
}

// NewSeatLedger picks the ledger for the configured accounting mode.
func NewSeatLedger(mode string, counter ReservationCounter) (SeatLedger, error) {
	switch mode {
	case "", SeatAccountingCompat:
		return FullyBookedLedger{}, nil
	case SeatAccountingLedger:
		if counter == nil {
			return nil, fmt.Errorf("seat accounting %q needs a reservation counter", mode)
		}
		return ReservationLedger{Reservations: counter}, nil
	default:
		return nil, fmt.Errorf("unknown seat accounting mode %q", mode)
	}
}
