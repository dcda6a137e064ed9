package falldetect

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fallColumns = []string{
	"id", "occurred_at", "acceleration", "duration_ms",
	"latitude", "longitude", "accuracy", "location_provider", "located_at",
	"device_info", "created_at",
}

func TestInsertReturnsStoredEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	occurred := time.Date(2026, 9, 7, 3, 12, 0, 0, time.UTC)
	created := time.Date(2026, 9, 7, 3, 12, 1, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO falls").
		WillReturnRows(pgxmock.NewRows(fallColumns).
			AddRow(id, occurred, 3.4, int64(1200), nil, nil, nil, nil, nil, nil, created))

	repo := NewPgRepository(mock)
	saved, err := repo.Insert(context.Background(), Event{
		ID:           id,
		OccurredAt:   occurred,
		Acceleration: 3.4,
		DurationMs:   1200,
	})
	require.NoError(t, err)

	assert.Equal(t, id, saved.ID)
	assert.Equal(t, occurred, saved.OccurredAt)
	assert.Equal(t, 3.4, saved.Acceleration)
	assert.Equal(t, int64(1200), saved.DurationMs)
	assert.Nil(t, saved.Location)
	assert.Equal(t, created, saved.CreatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecentScansRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 9, 7, 3, 12, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM falls").
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(fallColumns).
			AddRow(uuid.New(), now, 2.9, int64(800), nil, nil, nil, nil, nil, nil, now).
			AddRow(uuid.New(), now.Add(-time.Hour), 3.1, int64(950), nil, nil, nil, nil, nil, nil, now))

	repo := NewPgRepository(mock)
	events, err := repo.ListRecent(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, 2.9, events[0].Acceleration)
	assert.Equal(t, int64(950), events[1].DurationMs)

	require.NoError(t, mock.ExpectationsWereMet())
}
