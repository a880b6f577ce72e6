package repository

import (
	"context"
	"errors"

	"github.com/cinegopher/cine-booking/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lock class for pg_advisory_xact_lock calls that serialize showtime writes
// per screen.
const screenLockClass = 4001

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := lockScreen(ctx, tx, showtime.ScreenID)
		if err != nil {
			return err
		}

		err = checkOverlap(ctx, tx, showtime, 0)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO showtimes (movie_id, screen_id, start_time, end_time, ticket_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`

		return tx.QueryRow(
			ctx,
			query,
			showtime.MovieID,
			showtime.ScreenID,
			showtime.StartTime,
			showtime.EndTime,
			showtime.TicketPrice,
		).Scan(&showtime.ID, &showtime.CreatedAt, &showtime.UpdatedAt)
	})

	return mapExclusionViolation(err, showtime.ScreenID)
}

func (p *PostgresShowtimeRepository) Update(ctx context.Context, showtime *domain.Showtime) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		err := lockScreen(ctx, tx, showtime.ScreenID)
		if err != nil {
			return err
		}

		err = checkOverlap(ctx, tx, showtime, showtime.ID)
		if err != nil {
			return err
		}

		query := `
			UPDATE showtimes
			SET start_time = $1, end_time = $2, ticket_price = $3, updated_at = NOW()
			WHERE id = $4
			RETURNING updated_at
		`

		err = tx.QueryRow(
			ctx,
			query,
			showtime.StartTime,
			showtime.EndTime,
			showtime.TicketPrice,
			showtime.ID,
		).Scan(&showtime.UpdatedAt)

		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		return err
	})

	return mapExclusionViolation(err, showtime.ScreenID)
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `
		SELECT id, movie_id, screen_id, start_time, end_time, ticket_price, created_at, updated_at
		FROM showtimes
		WHERE id = $1
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.ScreenID,
		&showtime.StartTime,
		&showtime.EndTime,
		&showtime.TicketPrice,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

// lockScreen serializes showtime writes on the same screen for the duration of
// the transaction, so the overlap check and the insert act as one unit.
func lockScreen(ctx context.Context, tx pgx.Tx, screenID int) error {
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", screenLockClass, screenID)
	return err
}

// checkOverlap looks for an existing showtime on the same screen whose
// [start_time, end_time) window intersects the candidate's. excludeID skips
// the showtime being updated.
func checkOverlap(ctx context.Context, tx pgx.Tx, showtime *domain.Showtime, excludeID int) error {
	query := `
		SELECT id
		FROM showtimes
		WHERE screen_id = $1
			AND id != $2
			AND start_time < $4
			AND $3 < end_time
		ORDER BY start_time
		LIMIT 1
	`

	var conflictingID int

	err := tx.QueryRow(
		ctx,
		query,
		showtime.ScreenID,
		excludeID,
		showtime.StartTime,
		showtime.EndTime,
	).Scan(&conflictingID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}

		return err
	}

	return &domain.ShowtimeConflictError{
		ScreenID:              showtime.ScreenID,
		ConflictingShowtimeID: conflictingID,
	}
}

// mapExclusionViolation converts a hit on the showtimes_no_overlap exclusion
// constraint into a conflict error. Writers going through this repository are
// already serialized per screen, so this only fires for out-of-band writes.
func mapExclusionViolation(err error, screenID int) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
		return &domain.ShowtimeConflictError{ScreenID: screenID}
	}

	return err
}
