package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinegopher/cine-booking/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

// Create holds every requested seat atomically: either all seats end up HELD
// or the transaction rolls back. The pre-check names seats that are already
// taken; the partial unique index on (showtime_id, seat_id) for active
// statuses is the authoritative guard against races that slip past it.
func (p *PostgresReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		seatIDs := make([]int, len(reservation.Seats))
		for i, seat := range reservation.Seats {
			seatIDs[i] = seat.SeatID
		}

		taken, err := activeSeatsAmong(ctx, tx, reservation.ShowtimeID, seatIDs)
		if err != nil {
			return err
		}

		if len(taken) > 0 {
			return &domain.SeatsUnavailableError{
				ShowtimeID: reservation.ShowtimeID,
				SeatIDs:    taken,
			}
		}

		query := `
			INSERT INTO reservations (reference, user_id, showtime_id, status, total_amount, hold_expiry)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`

		err = tx.QueryRow(
			ctx,
			query,
			reservation.Reference,
			reservation.UserID,
			reservation.ShowtimeID,
			reservation.Status,
			reservation.TotalAmount,
			reservation.HoldExpiry,
		).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)

		if err != nil {
			return err
		}

		query = `
			INSERT INTO seat_reservations (reservation_id, showtime_id, seat_id, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`

		for i := range reservation.Seats {
			seat := &reservation.Seats[i]
			seat.ReservationID = reservation.ID
			seat.ShowtimeID = reservation.ShowtimeID
			seat.Status = domain.SeatHeld

			err = tx.QueryRow(
				ctx,
				query,
				seat.ReservationID,
				seat.ShowtimeID,
				seat.SeatID,
				seat.Status,
			).Scan(&seat.ID)

			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
					// Lost the race for this seat after the pre-check.
					return &domain.SeatsUnavailableError{
						ShowtimeID: reservation.ShowtimeID,
						SeatIDs:    []int{seat.SeatID},
					}
				}

				return err
			}
		}

		return nil
	})
}

func activeSeatsAmong(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int) ([]int, error) {
	query := `
		SELECT seat_id
		FROM seat_reservations
		WHERE showtime_id = $1
			AND seat_id = ANY($2)
			AND status IN ('HELD', 'CONFIRMED')
		ORDER BY seat_id
	`

	rows, err := tx.Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := make([]int, 0)

	for rows.Next() {
		var seatID int

		if err := rows.Scan(&seatID); err != nil {
			return nil, err
		}

		taken = append(taken, seatID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return taken, nil
}

func (p *PostgresReservationRepository) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	query := `
		SELECT id, reference, user_id, showtime_id, status, total_amount, hold_expiry, created_at, updated_at
		FROM reservations
		WHERE id = $1
	`

	var reservation domain.Reservation

	err := p.db.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.Reference,
		&reservation.UserID,
		&reservation.ShowtimeID,
		&reservation.Status,
		&reservation.TotalAmount,
		&reservation.HoldExpiry,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := p.retrieveSeatReservations(ctx, id)
	if err != nil {
		return nil, err
	}

	reservation.Seats = seats

	return &reservation, nil
}

// Transition applies a guarded status update: the row moves from `from` to
// `to` only if it still is in `from`, which makes a user-issued confirm and a
// sweeper-issued expiry on the same reservation mutually exclusive.
func (p *PostgresReservationRepository) Transition(
	ctx context.Context,
	id int,
	from, to domain.ReservationStatus,
	clearHoldExpiry bool) (*domain.Reservation, error) {

	var reservation domain.Reservation

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE reservations
			SET status = $1,
				hold_expiry = CASE WHEN $2 THEN NULL ELSE hold_expiry END,
				updated_at = NOW()
			WHERE id = $3 AND status = $4
			RETURNING id, reference, user_id, showtime_id, status, total_amount, hold_expiry, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query, to, clearHoldExpiry, id, from).Scan(
			&reservation.ID,
			&reservation.Reference,
			&reservation.UserID,
			&reservation.ShowtimeID,
			&reservation.Status,
			&reservation.TotalAmount,
			&reservation.HoldExpiry,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return transitionFailure(ctx, tx, id, to)
			}

			return err
		}

		query = `
			UPDATE seat_reservations
			SET status = $1, updated_at = NOW()
			WHERE reservation_id = $2 AND status IN ('HELD', 'CONFIRMED')
		`

		_, err = tx.Exec(ctx, query, domain.SeatStatusFor(to), id)

		return err
	})

	if err != nil {
		return nil, err
	}

	seats, err := p.retrieveSeatReservations(ctx, id)
	if err != nil {
		return nil, err
	}

	reservation.Seats = seats

	return &reservation, nil
}

// transitionFailure distinguishes a missing reservation from one whose status
// changed underneath the caller.
func transitionFailure(ctx context.Context, tx pgx.Tx, id int, to domain.ReservationStatus) error {
	var current domain.ReservationStatus

	err := tx.QueryRow(ctx, "SELECT status FROM reservations WHERE id = $1", id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		return err
	}

	return &domain.InvalidTransitionError{ReservationID: id, From: current, To: to}
}

// ExpireBefore sweeps PENDING reservations whose hold expiry has passed,
// cancelling them and their held seats in one transaction. The status guard
// in the UPDATE keeps the sweep from touching reservations that were
// confirmed concurrently.
func (p *PostgresReservationRepository) ExpireBefore(ctx context.Context, now time.Time) (int, error) {
	var expired []int

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE reservations
			SET status = 'CANCELLED', updated_at = NOW()
			WHERE status = 'PENDING' AND hold_expiry < $1
			RETURNING id
		`

		rows, err := tx.Query(ctx, query, now)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id int

			if err := rows.Scan(&id); err != nil {
				return err
			}

			expired = append(expired, id)
		}

		if err := rows.Err(); err != nil {
			return err
		}

		if len(expired) == 0 {
			return nil
		}

		query = `
			UPDATE seat_reservations
			SET status = 'CANCELLED', updated_at = NOW()
			WHERE reservation_id = ANY($1) AND status = 'HELD'
		`

		_, err = tx.Exec(ctx, query, expired)

		return err
	})

	if err != nil {
		return 0, err
	}

	return len(expired), nil
}

func (p *PostgresReservationRepository) GetActiveSeatsByShowtimeId(
	ctx context.Context,
	showtimeID int) ([]domain.SeatReservation, error) {

	query := `
		SELECT sr.id, sr.reservation_id, sr.showtime_id, sr.seat_id, s.label, sr.status
		FROM seat_reservations sr
		JOIN seats s ON sr.seat_id = s.id
		WHERE sr.showtime_id = $1 AND sr.status IN ('HELD', 'CONFIRMED')
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeatReservations(rows)
}

func (p *PostgresReservationRepository) CountActiveBySeatAndShowtime(
	ctx context.Context,
	seatID, showtimeID int) (int, error) {

	query := `
		SELECT COUNT(*)
		FROM seat_reservations
		WHERE seat_id = $1 AND showtime_id = $2 AND status IN ('HELD', 'CONFIRMED')
	`

	var count int

	err := p.db.QueryRow(ctx, query, seatID, showtimeID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (p *PostgresReservationRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.ReservationSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			r.id,
			r.reference,
			r.showtime_id,
			r.status,
			r.total_amount,
			(SELECT COUNT(*) FROM seat_reservations sr WHERE sr.reservation_id = r.id),
			r.created_at
		FROM reservations r
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.ReservationSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.ReservationSummary

		err := rows.Scan(
			&totalRecords,
			&summary.ID,
			&summary.Reference,
			&summary.ShowtimeID,
			&summary.Status,
			&summary.TotalAmount,
			&summary.SeatCount,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

func (p *PostgresReservationRepository) GetSummariesByShowtimeId(
	ctx context.Context,
	showtimeID int) ([]domain.ReservationSummary, error) {

	query := `
		SELECT
			r.id,
			r.reference,
			r.showtime_id,
			r.status,
			r.total_amount,
			(SELECT COUNT(*) FROM seat_reservations sr WHERE sr.reservation_id = r.id),
			r.created_at
		FROM reservations r
		WHERE r.showtime_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.ReservationSummary, 0)

	for rows.Next() {
		var summary domain.ReservationSummary

		err := rows.Scan(
			&summary.ID,
			&summary.Reference,
			&summary.ShowtimeID,
			&summary.Status,
			&summary.TotalAmount,
			&summary.SeatCount,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (p *PostgresReservationRepository) retrieveSeatReservations(
	ctx context.Context,
	reservationID int) ([]domain.SeatReservation, error) {

	query := `
		SELECT sr.id, sr.reservation_id, sr.showtime_id, sr.seat_id, s.label, sr.status
		FROM seat_reservations sr
		JOIN seats s ON sr.seat_id = s.id
		WHERE sr.reservation_id = $1
		ORDER BY s.seat_row, s.seat_col
	`

	rows, err := p.db.Query(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeatReservations(rows)
}

func scanSeatReservations(rows pgx.Rows) ([]domain.SeatReservation, error) {
	seats := make([]domain.SeatReservation, 0)

	for rows.Next() {
		var seat domain.SeatReservation

		err := rows.Scan(
			&seat.ID,
			&seat.ReservationID,
			&seat.ShowtimeID,
			&seat.SeatID,
			&seat.SeatLabel,
			&seat.Status,
		)
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
