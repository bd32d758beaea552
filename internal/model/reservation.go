package model

import "time"

// Reservation records how many seats a confirmed booking took for a
// screening. It is a ledger entry, not a seat map: individual seats are
// not tracked.
//
// Fields:
//  ID          – primary key identifier.
//  ScreeningID – screening the seats were booked for.
//  UserID      – user who booked.
//  Seats       – number of seats taken.
//  ConfirmedAt – when the booking was confirmed upstream.
type Reservation struct {
	ID          uint64    // reservations.id
	ScreeningID uint64    // reservations.screening_id
	UserID      uint64    // reservations.user_id
	Seats       int       // reservations.seats
	ConfirmedAt time.Time // reservations.confirmed_at
}
