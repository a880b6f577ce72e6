package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrEditConflict   = errors.New("edit conflict")
)

// ShowtimeConflictError reports that a candidate showtime window overlaps an
// existing showtime on the same screen.
type ShowtimeConflictError struct {
	ScreenID              int
	ConflictingShowtimeID int
}

func (e *ShowtimeConflictError) Error() string {
	return fmt.Sprintf(
		"showtime overlaps with showtime %d on screen %d",
		e.ConflictingShowtimeID,
		e.ScreenID,
	)
}

// SeatsUnavailableError reports which of the requested seats already carry an
// active reservation for the showtime.
type SeatsUnavailableError struct {
	ShowtimeID int
	SeatIDs    []int
}

func (e *SeatsUnavailableError) Error() string {
	ids := make([]string, len(e.SeatIDs))
	for i, id := range e.SeatIDs {
		ids[i] = strconv.Itoa(id)
	}

	return fmt.Sprintf(
		"seat(s) %s are no longer available for showtime %d",
		strings.Join(ids, ", "),
		e.ShowtimeID,
	)
}

// InvalidTransitionError reports a reservation state transition that is not
// permitted from the reservation's current status.
type InvalidTransitionError struct {
	ReservationID int
	From          ReservationStatus
	To            ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("reservation %d cannot move from %s to %s", e.ReservationID, e.From, e.To)
}
