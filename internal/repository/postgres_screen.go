package repository

import (
	"context"
	"errors"

	"github.com/cinegopher/cine-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresScreenRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreenRepository(db *pgxpool.Pool) *PostgresScreenRepository {
	return &PostgresScreenRepository{
		db: db,
	}
}

func (p *PostgresScreenRepository) GetById(ctx context.Context, id int) (*domain.Screen, error) {
	query := `
		SELECT id, theater_id, name, capacity
		FROM screens
		WHERE id = $1
	`

	var screen domain.Screen

	err := p.db.QueryRow(ctx, query, id).Scan(
		&screen.ID,
		&screen.TheaterID,
		&screen.Name,
		&screen.Capacity,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &screen, nil
}

func (p *PostgresScreenRepository) GetSeatsByScreen(ctx context.Context, screenID int) ([]domain.Seat, error) {
	query := `
		SELECT id, screen_id, label, seat_row, seat_col
		FROM seats
		WHERE screen_id = $1
		ORDER BY seat_row, seat_col
	`

	rows, err := p.db.Query(ctx, query, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func (p *PostgresScreenRepository) GetSeatsByScreenAndSeatIds(
	ctx context.Context,
	screenID int,
	seatIDs []int) ([]domain.Seat, error) {

	query := `
		SELECT id, screen_id, label, seat_row, seat_col
		FROM seats
		WHERE screen_id = $1 AND id = ANY($2)
		ORDER BY seat_row, seat_col
	`

	rows, err := p.db.Query(ctx, query, screenID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func scanSeats(rows pgx.Rows) ([]domain.Seat, error) {
	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err := rows.Scan(&seat.ID, &seat.ScreenID, &seat.Label, &seat.Row, &seat.Col)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
