package store

import (
	"context"
	"database/sql"

	"cert-tracker/internal/models"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, e *models.Event) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO events (event_name, start_date, start_time, end_date, end_time, description, color)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING event_id`,
		e.Name, e.StartDate, e.StartTime, e.EndDate, e.EndTime, e.Description, e.Color,
	).Scan(&id)
	return id, err
}

func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, event_name, start_date, start_time, end_date, end_time,
			COALESCE(description, ''), COALESCE(color, '')
		FROM events ORDER BY start_date, start_time, event_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.StartDate, &e.StartTime, &e.EndDate, &e.EndTime,
			&e.Description, &e.Color); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update keeps the stored value for every nil field of u.
func (s *EventStore) Update(ctx context.Context, id int64, u *models.EventUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET
			event_name = COALESCE($1, event_name),
			start_date = COALESCE($2, start_date),
			start_time = COALESCE($3, start_time),
			end_date = COALESCE($4, end_date),
			end_time = COALESCE($5, end_time),
			color = COALESCE($6, color)
		WHERE event_id = $7`,
		nullable(u.Name), nullable(u.StartDate), nullable(u.StartTime),
		nullable(u.EndDate), nullable(u.EndTime), nullable(u.Color), id)
	return expectAffected(res, err)
}

func (s *EventStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	return expectAffected(res, err)
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
