package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp":  {},
	"requestId":  {},
	"createdAt":  {},
	"reference":  {},
	"holdExpiry": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

// resetDatabase wipes all state and restarts the identity sequences so each
// test works against deterministic IDs.
func resetDatabase(t testing.TB, app *TestApp) {
	_, err := app.DB.Exec(context.Background(), `
		TRUNCATE seat_reservations, reservations, showtimes, seats, screens, movies, theaters
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

// seedCatalog inserts one theater, one screen with a 2x2 seat grid and one
// movie. With freshly restarted sequences: theater 1, screen 1, seats 1..4
// (A1, A2, B1, B2) and movie 1.
func seedCatalog(t testing.TB, app *TestApp) {
	ctx := context.Background()

	_, err := app.DB.Exec(ctx, `INSERT INTO theaters (name) VALUES ('Test Theater')`)
	require.NoError(t, err)

	_, err = app.DB.Exec(ctx, `INSERT INTO screens (theater_id, name, capacity) VALUES (1, 'Screen 1', 4)`)
	require.NoError(t, err)

	_, err = app.DB.Exec(ctx, `
		INSERT INTO seats (screen_id, label, seat_row, seat_col) VALUES
		(1, 'A1', 'A', 1),
		(1, 'A2', 'A', 2),
		(1, 'B1', 'B', 1),
		(1, 'B2', 'B', 2)`)
	require.NoError(t, err)

	_, err = app.DB.Exec(ctx, `INSERT INTO movies (title, duration_minutes) VALUES ('Test Movie', 120)`)
	require.NoError(t, err)
}

func seedShowtime(t testing.TB, app *TestApp, start, end time.Time) int {
	var id int

	err := app.DB.QueryRow(context.Background(), `
		INSERT INTO showtimes (movie_id, screen_id, start_time, end_time, ticket_price)
		VALUES (1, 1, $1, $2, 12.50)
		RETURNING id`,
		start, end).Scan(&id)
	require.NoError(t, err)

	return id
}

// seedReservation inserts a reservation in the given status together with one
// seat reservation per seat, bypassing the API so tests can shape arbitrary
// starting states such as already-expired holds.
func seedReservation(
	t testing.TB,
	app *TestApp,
	showtimeID int,
	seatIDs []int,
	status string,
	seatStatus string,
	holdExpiry *time.Time) int {

	ctx := context.Background()

	var id int
	err := app.DB.QueryRow(ctx, `
		INSERT INTO reservations (reference, user_id, showtime_id, status, total_amount, hold_expiry)
		VALUES ($1, 1, $2, $3, 12.50, $4)
		RETURNING id`,
		uuid.New(), showtimeID, status, holdExpiry).Scan(&id)
	require.NoError(t, err)

	for _, seatID := range seatIDs {
		_, err = app.DB.Exec(ctx, `
			INSERT INTO seat_reservations (reservation_id, showtime_id, seat_id, status)
			VALUES ($1, $2, $3, $4)`,
			id, showtimeID, seatID, seatStatus)
		require.NoError(t, err)
	}

	return id
}

func decimalFromString(t testing.TB, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

func countActiveSeatReservations(t testing.TB, app *TestApp, showtimeID int) int {
	var count int

	err := app.DB.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM seat_reservations
		WHERE showtime_id = $1 AND status IN ('HELD', 'CONFIRMED')`,
		showtimeID).Scan(&count)
	require.NoError(t, err)

	return count
}
