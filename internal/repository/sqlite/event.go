package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/model"
)

const eventColumns = `id, user_id, title, description, date, location, category,
	max_participants, participants, created_at, updated_at`

// CreateEvent inserts a new event. The ID is generated here (xid: 20 chars,
// URL-safe, time-sortable); timestamps are expected to be set by the caller.
func (db *DB) CreateEvent(ctx context.Context, event *model.Event) error {
	event.ID = xid.New().String()

	participants, err := encodeJSON(event.Participants)
	if err != nil {
		return fmt.Errorf("sqlite: encoding participants: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.UserID,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.Category,
		event.MaxParticipants,
		participants,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating event: %w", err)
	}
	return nil
}

// GetEvent retrieves a single event by ID.
func (db *DB) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("event", id)
		}
		return nil, fmt.Errorf("sqlite: getting event %s: %w", id, err)
	}
	return event, nil
}

// ListEvents returns every event in insertion order.
func (db *DB) ListEvents(ctx context.Context) ([]model.Event, error) {
	return db.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY rowid`)
}

// ListEventsByUser returns the events owned by userID.
func (db *DB) ListEventsByUser(ctx context.Context, userID string) ([]model.Event, error) {
	return db.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = ? ORDER BY rowid`, userID)
}

// UpdateEvent writes every mutable column of event, including participants.
func (db *DB) UpdateEvent(ctx context.Context, event *model.Event) error {
	participants, err := encodeJSON(event.Participants)
	if err != nil {
		return fmt.Errorf("sqlite: encoding participants: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE events
		 SET title = ?, description = ?, date = ?, location = ?, category = ?,
		     max_participants = ?, participants = ?, updated_at = ?
		 WHERE id = ?`,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.Category,
		event.MaxParticipants,
		participants,
		event.UpdatedAt,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating event %s: %w", event.ID, err)
	}
	return checkAffected(result, func() error { return apperror.NotFound("event", event.ID) })
}

// DeleteEvent removes an event by ID.
func (db *DB) DeleteEvent(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting event %s: %w", id, err)
	}
	return checkAffected(result, func() error { return apperror.NotFound("event", id) })
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning event row: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating events: %w", err)
	}
	return events, nil
}

func scanEvent(s scanner) (*model.Event, error) {
	var (
		e            model.Event
		participants string
	)
	if err := s.Scan(
		&e.ID,
		&e.UserID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.Location,
		&e.Category,
		&e.MaxParticipants,
		&participants,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if e.Participants, err = decodeJSON[string](participants); err != nil {
		return nil, fmt.Errorf("decoding participants of event %s: %w", e.ID, err)
	}
	return &e, nil
}
