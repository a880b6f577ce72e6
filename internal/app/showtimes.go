package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinegopher/cine-booking/api"
	"github.com/cinegopher/cine-booking/internal/domain"
)

func (app *Application) CreateShowtimeHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateShowtimeRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), input.MovieId)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.unprocessableEntityResponse(w, r, fmt.Errorf("movie %d does not exist", input.MovieId))
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	_, err = app.screenRepo.GetById(r.Context(), input.ScreenId)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.unprocessableEntityResponse(w, r, fmt.Errorf("screen %d does not exist", input.ScreenId))
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	showtime := &domain.Showtime{
		MovieID:     input.MovieId,
		ScreenID:    input.ScreenId,
		StartTime:   input.StartTime,
		EndTime:     input.StartTime.Add(time.Duration(movie.Duration) * time.Minute),
		TicketPrice: input.TicketPrice,
	}

	err = app.showtimeRepo.Create(r.Context(), showtime)
	if err != nil {
		var conflictErr *domain.ShowtimeConflictError
		if errors.As(err, &conflictErr) {
			logger.Warn(
				"showtime scheduling conflict",
				"screen_id", conflictErr.ScreenID,
				"conflicting_showtime_id", conflictErr.ConflictingShowtimeID,
			)
			app.conflictResponse(w, r, conflictErr)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info("showtime scheduled", "showtime_id", showtime.ID, "screen_id", showtime.ScreenID)

	err = app.writeJSON(w, http.StatusCreated, toShowtimeResponse(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateShowtimeHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateShowtimeRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
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

	if input.StartTime != nil {
		// The movie's runtime was baked into the window at creation;
		// shifting the start keeps the window length.
		window := showtime.EndTime.Sub(showtime.StartTime)
		showtime.StartTime = *input.StartTime
		showtime.EndTime = input.StartTime.Add(window)
	}

	if input.TicketPrice != nil {
		showtime.TicketPrice = *input.TicketPrice
	}

	err = app.showtimeRepo.Update(r.Context(), showtime)
	if err != nil {
		var conflictErr *domain.ShowtimeConflictError

		switch {
		case errors.As(err, &conflictErr):
			app.conflictResponse(w, r, conflictErr)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toShowtimeResponse(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowtimeHandler(w http.ResponseWriter, r *http.Request) {
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

	err = app.writeJSON(w, http.StatusOK, toShowtimeResponse(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toShowtimeResponse(showtime *domain.Showtime) api.ShowtimeResponse {
	return api.ShowtimeResponse{
		Id:          showtime.ID,
		MovieId:     showtime.MovieID,
		ScreenId:    showtime.ScreenID,
		StartTime:   showtime.StartTime,
		EndTime:     showtime.EndTime,
		TicketPrice: showtime.TicketPrice,
	}
}
