package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Showtime struct {
	ID          int
	MovieID     int
	ScreenID    int
	StartTime   time.Time
	EndTime     time.Time
	TicketPrice decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps reports whether two half-open showtime windows collide:
// [s1, e1) and [s2, e2) overlap iff s1 < e2 and s2 < e1.
func (s *Showtime) Overlaps(other *Showtime) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

type ShowtimeRepository interface {
	// Create persists the showtime only if its window does not overlap any
	// existing showtime on the same screen. On overlap it returns a
	// *ShowtimeConflictError naming the colliding showtime.
	Create(ctx context.Context, showtime *Showtime) error

	// Update follows the same overlap rule, excluding the showtime itself
	// from the conflict set.
	Update(ctx context.Context, showtime *Showtime) error

	GetById(ctx context.Context, id int) (*Showtime, error)
}
