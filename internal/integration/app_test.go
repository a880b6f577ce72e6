package integration_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/cinegopher/cine-booking/internal/app"
	"github.com/cinegopher/cine-booking/internal/domain"
	"github.com/cinegopher/cine-booking/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestApp wraps the application together with a direct pool and repositories
// for seeding fixtures and asserting persisted state.
type TestApp struct {
	App             *app.Application
	DB              *pgxpool.Pool
	ShowtimeRepo    domain.ShowtimeRepository
	ReservationRepo domain.ReservationRepository
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := app.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		application.Close()
		return nil, err
	}

	return &TestApp{
		App:             application,
		DB:              db,
		ShowtimeRepo:    repository.NewPostgresShowtimeRepository(db),
		ReservationRepo: repository.NewPostgresReservationRepository(db),
	}, nil
}

func (a *TestApp) Close() {
	a.DB.Close()
	a.App.Close()
}
