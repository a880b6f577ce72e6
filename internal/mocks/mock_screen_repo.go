package mocks

import (
	"context"

	"github.com/cinegopher/cine-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockScreenRepo struct {
	mock.Mock
	domain.ScreenRepository
}

func (m *MockScreenRepo) GetById(ctx context.Context, id int) (*domain.Screen, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Screen), args.Error(1)
}

func (m *MockScreenRepo) GetSeatsByScreen(ctx context.Context, screenID int) ([]domain.Seat, error) {
	args := m.Called(ctx, screenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockScreenRepo) GetSeatsByScreenAndSeatIds(ctx context.Context, screenID int, seatIDs []int) ([]domain.Seat, error) {
	args := m.Called(ctx, screenID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}
