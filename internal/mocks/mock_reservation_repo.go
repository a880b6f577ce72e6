package mocks

import (
	"context"
	"time"

	"github.com/cinegopher/cine-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReservationRepo struct {
	mock.Mock
	domain.ReservationRepository
}

func (m *MockReservationRepo) Create(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepo) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) Transition(
	ctx context.Context,
	id int,
	from, to domain.ReservationStatus,
	clearHoldExpiry bool) (*domain.Reservation, error) {

	args := m.Called(ctx, id, from, to, clearHoldExpiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ExpireBefore(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) GetActiveSeatsByShowtimeId(ctx context.Context, showtimeID int) ([]domain.SeatReservation, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatReservation), args.Error(1)
}

func (m *MockReservationRepo) CountActiveBySeatAndShowtime(ctx context.Context, seatID, showtimeID int) (int, error) {
	args := m.Called(ctx, seatID, showtimeID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.ReservationSummary, *domain.Metadata, error) {

	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.ReservationSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockReservationRepo) GetSummariesByShowtimeId(ctx context.Context, showtimeID int) ([]domain.ReservationSummary, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReservationSummary), args.Error(1)
}
