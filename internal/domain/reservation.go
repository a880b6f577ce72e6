package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

type SeatReservationStatus string

const (
	SeatHeld      SeatReservationStatus = "HELD"
	SeatConfirmed SeatReservationStatus = "CONFIRMED"
	SeatCancelled SeatReservationStatus = "CANCELLED"
	SeatCompleted SeatReservationStatus = "COMPLETED"
)

// CanTransitionTo encodes the reservation lifecycle:
// PENDING -> CONFIRMED or CANCELLED, CONFIRMED -> COMPLETED or CANCELLED.
// CANCELLED and COMPLETED are terminal.
func (s ReservationStatus) CanTransitionTo(to ReservationStatus) bool {
	switch s {
	case ReservationPending:
		return to == ReservationConfirmed || to == ReservationCancelled
	case ReservationConfirmed:
		return to == ReservationCompleted || to == ReservationCancelled
	default:
		return false
	}
}

// SeatStatusFor maps a reservation-level transition target onto the status its
// seat reservations take in the same transaction.
func SeatStatusFor(status ReservationStatus) SeatReservationStatus {
	switch status {
	case ReservationPending:
		return SeatHeld
	case ReservationConfirmed:
		return SeatConfirmed
	case ReservationCompleted:
		return SeatCompleted
	default:
		return SeatCancelled
	}
}

type Reservation struct {
	ID          int
	Reference   uuid.UUID
	UserID      int
	ShowtimeID  int
	Status      ReservationStatus
	TotalAmount decimal.Decimal
	HoldExpiry  *time.Time
	Seats       []SeatReservation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SeatReservation is the unit of exclusivity: at most one HELD or CONFIRMED
// row may exist per (seat, showtime) pair at any time.
type SeatReservation struct {
	ID            int
	ReservationID int
	ShowtimeID    int
	SeatID        int
	SeatLabel     string
	Status        SeatReservationStatus
}

// Active reports whether the seat reservation blocks the seat for its showtime.
func (sr SeatReservation) Active() bool {
	return sr.Status == SeatHeld || sr.Status == SeatConfirmed
}

type ReservationSummary struct {
	ID          int
	Reference   uuid.UUID
	ShowtimeID  int
	Status      ReservationStatus
	TotalAmount decimal.Decimal
	SeatCount   int
	CreatedAt   time.Time
}

type ReservationRepository interface {
	// Create inserts the reservation and one HELD seat reservation per seat
	// as a single atomic unit. If any seat already carries an active
	// reservation for the showtime, nothing is persisted and a
	// *SeatsUnavailableError names every conflicting seat.
	Create(ctx context.Context, reservation *Reservation) error

	GetById(ctx context.Context, id int) (*Reservation, error)

	// Transition moves the reservation from one status to another together
	// with its seat reservations, guarded on the current status so that two
	// concurrent transitions on the same reservation cannot both apply.
	// Returns ErrRecordNotFound if the reservation does not exist and
	// *InvalidTransitionError if its current status differs from `from`.
	Transition(ctx context.Context, id int, from, to ReservationStatus, clearHoldExpiry bool) (*Reservation, error)

	// ExpireBefore cancels every PENDING reservation whose hold expiry has
	// passed, releasing its held seats, and reports how many were swept.
	ExpireBefore(ctx context.Context, now time.Time) (int, error)

	// GetActiveSeatsByShowtimeId returns the HELD and CONFIRMED seat
	// reservations for a showtime.
	GetActiveSeatsByShowtimeId(ctx context.Context, showtimeID int) ([]SeatReservation, error)

	CountActiveBySeatAndShowtime(ctx context.Context, seatID, showtimeID int) (int, error)

	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]ReservationSummary, *Metadata, error)
	GetSummariesByShowtimeId(ctx context.Context, showtimeID int) ([]ReservationSummary, error)
}
