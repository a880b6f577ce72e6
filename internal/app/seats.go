package app

import (
	"errors"
	"net/http"

	"github.com/cinegopher/cine-booking/api"
	"github.com/cinegopher/cine-booking/internal/domain"
)

// GetSeatMapByShowtime renders the showtime's screen seat by seat, flagging
// each one available unless an active seat reservation blocks it.
func (app *Application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	screen, err := app.screenRepo.GetById(r.Context(), showtime.ScreenID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	seats, err := app.screenRepo.GetSeatsByScreen(r.Context(), screen.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(seats) == 0 {
		app.contextGetLogger(r).Warn("screen has no seats", "screen_id", screen.ID)
		app.notFoundResponse(w, r)
		return
	}

	reservedSeats, err := app.reservationRepo.GetActiveSeatsByShowtimeId(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	unavailable := make(map[int]bool, len(reservedSeats))
	for _, rs := range reservedSeats {
		unavailable[rs.SeatID] = true
	}

	resp := api.SeatMapResponse{
		ShowtimeId: showtimeID,
		ScreenId:   screen.ID,
		TheaterId:  screen.TheaterID,
		SeatRows:   toSeatRows(seats, unavailable),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSeatAvailability(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatID, err := app.readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	seats, err := app.screenRepo.GetSeatsByScreenAndSeatIds(r.Context(), showtime.ScreenID, []int{seatID})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(seats) == 0 {
		app.contextGetLogger(r).Warn(
			"seat does not belong to the showtime's screen",
			"seat_id", seatID,
			"screen_id", showtime.ScreenID,
		)
		app.notFoundResponse(w, r)
		return
	}

	count, err := app.reservationRepo.CountActiveBySeatAndShowtime(r.Context(), seatID, showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatAvailabilityResponse{
		ShowtimeId: showtimeID,
		SeatId:     seatID,
		Available:  count == 0,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatRows(seats []domain.Seat, unavailable map[int]bool) []api.SeatRow {
	// Seats are pre-sorted by row, column; build the rows in a single pass.

	var seatRows []api.SeatRow
	currentRow := api.SeatRow{Row: seats[0].Row}

	for _, v := range seats {
		if v.Row != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = api.SeatRow{Row: v.Row}
		}

		currentRow.Seats = append(currentRow.Seats, api.Seat{
			Id:        v.ID,
			Label:     v.Label,
			Row:       v.Row,
			Column:    v.Col,
			Available: !unavailable[v.ID],
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
