package domain

import "context"

// Movie is a catalog reference. The booking engine only needs the duration to
// derive showtime end times; the catalog service owns everything else.
type Movie struct {
	ID       int
	Title    string
	Duration int // minutes
}

type MovieRepository interface {
	GetById(ctx context.Context, id int) (*Movie, error)
}
