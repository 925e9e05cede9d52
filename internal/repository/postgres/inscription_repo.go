package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gatherly/internal/domain"
)

// uniqueUserEventConstraint is the unique constraint on (user_id, event_id).
const uniqueUserEventConstraint = "unique_user_event"

type inscriptionRepository struct {
	DB *sql.DB
}

func NewInscriptionRepository(db *sql.DB) domain.InscriptionRepository {
	return &inscriptionRepository{
		DB: db,
	}
}

// Create inserts the inscription. A unique_user_event violation maps to
// domain.ErrAlreadyRegistered so a lost check-then-act race surfaces the same
// way as the advisory pre-check.
func (r *inscriptionRepository) Create(ctx context.Context, ins *domain.Inscription) error {
	query := `
		INSERT INTO inscriptions (user_id, event_id, registered_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, ins.UserID, ins.EventID, ins.RegisteredAt).
		Scan(&ins.ID)
	if err != nil {
		if isUniqueViolation(err, uniqueUserEventConstraint) {
			return domain.ErrAlreadyRegistered
		}
		return classify(err)
	}
	return nil
}

func (r *inscriptionRepository) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Inscription, error) {
	query := `
		SELECT id, user_id, event_id, registered_at
		FROM inscriptions
		WHERE user_id = $1 AND event_id = $2
	`
	ins := &domain.Inscription{}
	err := r.DB.QueryRowContext(ctx, query, userID, eventID).
		Scan(&ins.ID, &ins.UserID, &ins.EventID, &ins.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify(err)
	}
	return ins, nil
}

func (r *inscriptionRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Inscription, error) {
	query := `
		SELECT id, user_id, event_id, registered_at
		FROM inscriptions
		WHERE user_id = $1
		ORDER BY registered_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	inscriptions := make([]*domain.Inscription, 0)
	for rows.Next() {
		ins := &domain.Inscription{}
		if err := rows.Scan(&ins.ID, &ins.UserID, &ins.EventID, &ins.RegisteredAt); err != nil {
			return nil, err
		}
		inscriptions = append(inscriptions, ins)
	}
	return inscriptions, rows.Err()
}

func (r *inscriptionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM inscriptions WHERE id = $1`
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
