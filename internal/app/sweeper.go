package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/cinegopher/cine-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const sweepLockKey = "sweep_lock:expired_holds"

// ExpirySweeper periodically cancels pending reservations whose hold expiry
// has passed, releasing their seats. A Redis lock keeps multiple instances
// from sweeping the same tick; sweep failures are logged and retried on the
// next tick.
type ExpirySweeper struct {
	reservationRepo domain.ReservationRepository
	redis           redis.UniversalClient
	logger          *slog.Logger
	interval        time.Duration
}

func NewExpirySweeper(
	reservationRepo domain.ReservationRepository,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	interval time.Duration) *ExpirySweeper {

	return &ExpirySweeper{
		reservationRepo: reservationRepo,
		redis:           redisClient,
		logger:          logger,
		interval:        interval,
	}
}

// Start blocks until ctx is cancelled, sweeping once per interval.
func (s *ExpirySweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("expiry sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	acquired, err := s.redis.SetNX(ctx, sweepLockKey, "1", s.interval).Result()
	if err != nil {
		s.logger.Error("failed to acquire sweep lock", "error", err)
		return
	}

	if !acquired {
		// Another instance owns this tick.
		return
	}

	count, err := s.reservationRepo.ExpireBefore(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to sweep expired holds", "error", err)
		return
	}

	if count > 0 {
		s.logger.Info("expired holds swept", "count", count)
	}
}
