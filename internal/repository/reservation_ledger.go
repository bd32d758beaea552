package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

// ReservationRepo stores seat counts of confirmed bookings per screening.
// It backs the reservation ledger used by the free-seat rule.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo constructs a ReservationRepo with the given DB handle.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// Record inserts a reservation. Redelivered messages carry the same
// reservation id, so an existing row is left untouched.
func (r *ReservationRepo) Record(ctx context.Context, res model.Reservation) error {
	const q = `INSERT IGNORE INTO reservations (id, screening_id, user_id, seats, confirmed_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, res.ID, res.ScreeningID, res.UserID, res.Seats, res.ConfirmedAt.UTC()); err != nil {
		return fmt.Errorf("record reservation %d: %w", res.ID, err)
	}
	return nil
}

// BookedSeats returns the number of seats booked for a screening.
func (r *ReservationRepo) BookedSeats(ctx context.Context, screeningID uint64) (int, error) {
	var n sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(seats), 0) FROM reservations WHERE screening_id = ?`, screeningID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("booked seats for screening %d: %w", screeningID, err)
	}
	return int(n.Int64), nil
}
