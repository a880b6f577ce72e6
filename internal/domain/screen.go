package domain

import "context"

// Screen and Seat are catalog references owned by the inventory service.
// Seats are always returned ordered by row then column.
type Screen struct {
	ID        int
	TheaterID int
	Name      string
	Capacity  int
}

type Seat struct {
	ID       int
	ScreenID int
	Label    string
	Row      string
	Col      int
}

type ScreenRepository interface {
	GetById(ctx context.Context, id int) (*Screen, error)
	GetSeatsByScreen(ctx context.Context, screenID int) ([]Seat, error)
	GetSeatsByScreenAndSeatIds(ctx context.Context, screenID int, seatIDs []int) ([]Seat, error)
}
