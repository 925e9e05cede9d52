package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gatherly/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, start_time, end_time, venue, image_name, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartTime, e.EndTime, e.Venue, e.ImageName, e.CreatedBy, e.CreatedAt,
	).Scan(&e.ID)
	return classify(err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, description, start_time, end_time, venue, image_name, created_by, created_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var imageNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Venue,
		&imageNull, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify(err)
	}
	if imageNull.Valid {
		e.ImageName = &imageNull.String
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, start_time = $3, end_time = $4, venue = $5, image_name = $6
		WHERE id = $7
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.StartTime, e.EndTime, e.Venue, e.ImageName, e.ID,
	)
	if err != nil {
		return classify(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return classify(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListUpcoming returns events starting at or after now, ascending by start
// time, optionally narrowed by the inclusive startDate/endDate bounds.
func (r *eventRepository) ListUpcoming(ctx context.Context, now time.Time, startDate, endDate *time.Time) ([]*domain.Event, error) {
	query := `
		SELECT id, title, description, start_time, end_time, venue, image_name, created_by, created_at
		FROM events
		WHERE start_time >= $1`
	args := []interface{}{now}
	if startDate != nil {
		args = append(args, *startDate)
		query += fmt.Sprintf(" AND start_time >= $%d", len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		query += fmt.Sprintf(" AND start_time <= $%d", len(args))
	}
	query += " ORDER BY start_time ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]*domain.Event, error) {
	query := `
		SELECT id, title, description, start_time, end_time, venue, image_name, created_by, created_at
		FROM events
		WHERE created_by = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var imageNull sql.NullString
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Venue,
			&imageNull, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		if imageNull.Valid {
			e.ImageName = &imageNull.String
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
