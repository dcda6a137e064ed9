package falldetect

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of pgxpool.Pool this repository uses; pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	db DB
}

func NewPgRepository(db DB) *PgRepository {
	return &PgRepository{db: db}
}

func scanEvent(row pgx.Row) (*Event, error) {
	var ev Event
	var lat, lon, acc *float64
	var locProvider *string
	var locatedAt *time.Time
	var deviceInfo *string

	err := row.Scan(
		&ev.ID,
		&ev.OccurredAt,
		&ev.Acceleration,
		&ev.DurationMs,
		&lat,
		&lon,
		&acc,
		&locProvider,
		&locatedAt,
		&deviceInfo,
		&ev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if lat != nil && lon != nil {
		loc := Location{
			Latitude:  *lat,
			Longitude: *lon,
		}
		if acc != nil {
			loc.Accuracy = *acc
		}
		if locProvider != nil {
			loc.Provider = *locProvider
		}
		if locatedAt != nil {
			loc.LocatedAt = *locatedAt
		}
		ev.Location = &loc
	}
	if deviceInfo != nil {
		ev.DeviceInfo = *deviceInfo
	}

	return &ev, nil
}

func (r *PgRepository) Insert(ctx context.Context, ev Event) (*Event, error) {
	var lat, lon, acc *float64
	var locProvider *string
	var locatedAt *time.Time
	if ev.Location != nil {
		lat = &ev.Location.Latitude
		lon = &ev.Location.Longitude
		if ev.Location.Accuracy != 0 {
			acc = &ev.Location.Accuracy
		}
		if ev.Location.Provider != "" {
			locProvider = &ev.Location.Provider
		}
		if !ev.Location.LocatedAt.IsZero() {
			t := ev.Location.LocatedAt
			locatedAt = &t
		}
	}

	var deviceInfo *string
	if ev.DeviceInfo != "" {
		deviceInfo = &ev.DeviceInfo
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO falls (id, occurred_at, acceleration, duration_ms,
		                   latitude, longitude, accuracy, location_provider, located_at,
		                   device_info, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING id, occurred_at, acceleration, duration_ms,
		          latitude, longitude, accuracy, location_provider, located_at,
		          device_info, created_at
	`, ev.ID, ev.OccurredAt, ev.Acceleration, ev.DurationMs,
		lat, lon, acc, locProvider, locatedAt, deviceInfo)

	return scanEvent(row)
}

func (r *PgRepository) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, occurred_at, acceleration, duration_ms,
		       latitude, longitude, accuracy, location_provider, located_at,
		       device_info, created_at
		FROM falls
		ORDER BY occurred_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
