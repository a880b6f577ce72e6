package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinegopher/cine-booking/api"
	"github.com/cinegopher/cine-booking/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func (app *Application) CreateReservationHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateReservationRequest

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

	seatIDs, err := dedupeSeatIds(input.SeatIdList)
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

	if !showtime.StartTime.After(time.Now()) {
		app.unprocessableEntityResponse(w, r, fmt.Errorf("showtime %d has already started", showtimeID))
		return
	}

	seats, err := app.screenRepo.GetSeatsByScreenAndSeatIds(r.Context(), showtime.ScreenID, seatIDs)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(seats) != len(seatIDs) {
		logger.Warn(
			"reservation request includes seats outside the showtime's screen",
			"showtime_id", showtimeID,
			"requested_seats", seatIDs,
		)
		app.unprocessableEntityResponse(
			w,
			r,
			fmt.Errorf("one or more seats do not belong to the showtime's screen"),
		)
		return
	}

	holdExpiry := time.Now().Add(app.config.HoldDuration)

	reservation := &domain.Reservation{
		Reference:   uuid.New(),
		UserID:      input.UserId,
		ShowtimeID:  showtimeID,
		Status:      domain.ReservationPending,
		TotalAmount: showtime.TicketPrice.Mul(decimal.NewFromInt(int64(len(seats)))),
		HoldExpiry:  &holdExpiry,
	}

	for _, seat := range seats {
		reservation.Seats = append(reservation.Seats, domain.SeatReservation{
			SeatID:    seat.ID,
			SeatLabel: seat.Label,
		})
	}

	err = app.reservationRepo.Create(r.Context(), reservation)
	if err != nil {
		var unavailableErr *domain.SeatsUnavailableError
		if errors.As(err, &unavailableErr) {
			logger.Warn(
				"seat hold lost to a concurrent reservation",
				"showtime_id", showtimeID,
				"conflicting_seats", unavailableErr.SeatIDs,
			)
			app.conflictResponse(w, r, unavailableErr)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info(
		"reservation created",
		"reservation_id", reservation.ID,
		"showtime_id", showtimeID,
		"seat_count", len(reservation.Seats),
	)

	err = app.writeJSON(w, http.StatusCreated, toReservationResponse(reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ConfirmReservationHandler(w http.ResponseWriter, r *http.Request) {
	app.transitionReservation(w, r, domain.ReservationConfirmed, transitionRules{
		from:            domain.ReservationPending,
		clearHoldExpiry: true,
		beforeStartOnly: true,
	})
}

func (app *Application) CancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	app.transitionReservation(w, r, domain.ReservationCancelled, transitionRules{
		clearHoldExpiry: true,
		beforeStartOnly: true,
	})
}

func (app *Application) CompleteReservationHandler(w http.ResponseWriter, r *http.Request) {
	app.transitionReservation(w, r, domain.ReservationCompleted, transitionRules{
		from:           domain.ReservationConfirmed,
		afterStartOnly: true,
	})
}

// transitionRules captures what a reservation transition demands of the
// current state and the showtime clock. An empty `from` admits any status the
// lifecycle allows for the target.
type transitionRules struct {
	from            domain.ReservationStatus
	clearHoldExpiry bool
	beforeStartOnly bool
	afterStartOnly  bool
}

func (app *Application) transitionReservation(
	w http.ResponseWriter,
	r *http.Request,
	to domain.ReservationStatus,
	rules transitionRules) {

	logger := app.contextGetLogger(r)

	reservationID, err := app.readIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reservation, err := app.reservationRepo.GetById(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	from := rules.from
	if from == "" {
		from = reservation.Status
	}

	if !from.CanTransitionTo(to) || reservation.Status != from {
		app.conflictResponse(w, r, &domain.InvalidTransitionError{
			ReservationID: reservationID,
			From:          reservation.Status,
			To:            to,
		})
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), reservation.ShowtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	now := time.Now()

	if rules.beforeStartOnly && !showtime.StartTime.After(now) {
		app.conflictResponse(
			w,
			r,
			fmt.Errorf("showtime %d has already started", showtime.ID),
		)
		return
	}

	if rules.afterStartOnly && showtime.StartTime.After(now) {
		app.conflictResponse(
			w,
			r,
			fmt.Errorf("showtime %d has not started yet", showtime.ID),
		)
		return
	}

	reservation, err = app.reservationRepo.Transition(r.Context(), reservationID, from, to, rules.clearHoldExpiry)
	if err != nil {
		var transitionErr *domain.InvalidTransitionError

		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.As(err, &transitionErr):
			// Status changed between the read and the guarded update.
			app.conflictResponse(w, r, transitionErr)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("reservation transitioned", "reservation_id", reservationID, "status", to)

	err = app.writeJSON(w, http.StatusOK, toReservationResponse(reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservationID, err := app.readIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reservation, err := app.reservationRepo.GetById(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toReservationResponse(reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservationsOfUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := app.readIDParam(r, "userId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination := domain.Pagination{
		Page:     app.readIntQuery(r, "page", DefaultPage),
		PageSize: app.readIntQuery(r, "pageSize", DefaultPageSize),
	}

	if pagination.PageSize > MaxPageSize {
		pagination.PageSize = MaxPageSize
	}

	summaries, metadata, err := app.reservationRepo.GetSummariesByUserId(r.Context(), userID, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserReservationsResponse{
		Reservations: toReservationSummaries(summaries),
		Metadata:     toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservationsOfShowtimeHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	_, err = app.showtimeRepo.GetById(r.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	summaries, err := app.reservationRepo.GetSummariesByShowtimeId(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowtimeReservationsResponse{
		ShowtimeId:   showtimeID,
		Reservations: toReservationSummaries(summaries),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func dedupeSeatIds(seatIDs []int) ([]int, error) {
	seen := make(map[int]bool, len(seatIDs))

	for _, id := range seatIDs {
		if seen[id] {
			return nil, fmt.Errorf("seat %d is requested more than once", id)
		}
		seen[id] = true
	}

	return seatIDs, nil
}

func toReservationResponse(reservation *domain.Reservation) api.ReservationResponse {
	seats := make([]api.ReservationSeat, len(reservation.Seats))
	for i, seat := range reservation.Seats {
		seats[i] = api.ReservationSeat{
			SeatId: seat.SeatID,
			Label:  seat.SeatLabel,
			Status: string(seat.Status),
		}
	}

	return api.ReservationResponse{
		Id:          reservation.ID,
		Reference:   reservation.Reference,
		UserId:      reservation.UserID,
		ShowtimeId:  reservation.ShowtimeID,
		Status:      string(reservation.Status),
		TotalAmount: reservation.TotalAmount,
		HoldExpiry:  reservation.HoldExpiry,
		Seats:       seats,
		CreatedAt:   reservation.CreatedAt,
	}
}

func toReservationSummaries(summaries []domain.ReservationSummary) []api.ReservationSummary {
	apiSummaries := make([]api.ReservationSummary, len(summaries))

	for i, v := range summaries {
		apiSummaries[i] = api.ReservationSummary{
			Id:          v.ID,
			Reference:   v.Reference,
			ShowtimeId:  v.ShowtimeID,
			Status:      string(v.Status),
			TotalAmount: v.TotalAmount,
			SeatCount:   v.SeatCount,
			CreatedAt:   v.CreatedAt,
		}
	}

	return apiSummaries
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
