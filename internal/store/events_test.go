package store

import (
	"context"
	"testing"

	"cert-tracker/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEventStore(db)

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs("Cloud Day", "2025-01-10", "09:00", "2025-01-10", "17:00", "", "#00ff00").
		WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow(3))

	id, err := s.Create(context.Background(), &models.Event{
		Name: "Cloud Day", StartDate: "2025-01-10", StartTime: "09:00",
		EndDate: "2025-01-10", EndTime: "17:00", Color: "#00ff00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestEventStore_Update_CoalescesMissingFields(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEventStore(db)

	name := "Renamed"
	mock.ExpectExec(`UPDATE events SET event_name = COALESCE\(\$1, event_name\)`).
		WithArgs("Renamed", nil, nil, nil, nil, nil, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Update(context.Background(), 3, &models.EventUpdate{Name: &name}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventStore_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEventStore(db)

	mock.ExpectExec(`DELETE FROM events WHERE event_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Delete(context.Background(), 99), ErrNotFound)
}

func TestEventStore_List(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEventStore(db)

	mock.ExpectQuery(`FROM events ORDER BY`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "event_name", "start_date", "start_time", "end_date", "end_time", "description", "color"}).
			AddRow(1, "Kickoff", "2025-01-01", "10:00", "2025-01-01", "11:00", "", ""))

	events, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Kickoff", events[0].Name)
}
