package domain

import (
	"context"
	"time"
)

// Inscription represents a user's registration for an event. At most one
// inscription exists per (user, event) pair; the database enforces this with
// a unique constraint.
// swagger:model Inscription
type Inscription struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	EventID      string    `json:"event_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewInscription creates a new Inscription. ID is set by the repository on create.
func NewInscription(userID, eventID string, registeredAt time.Time) *Inscription {
	return &Inscription{
		UserID:       userID,
		EventID:      eventID,
		RegisteredAt: registeredAt,
	}
}

// InscriptionWithEvent bundles an inscription with its related event.
type InscriptionWithEvent struct {
	Inscription *Inscription `json:"inscription"`
	Event       *Event       `json:"event"`
}

// InscriptionRepository defines storage operations for inscriptions.
// Create must return ErrAlreadyRegistered when the store rejects the insert
// because of the (user_id, event_id) unique constraint.
type InscriptionRepository interface {
	Create(ctx context.Context, ins *Inscription) error
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (*Inscription, error)
	ListByUserID(ctx context.Context, userID string) ([]*Inscription, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationService owns the register/unregister transitions for a
// (user, event) pair. The service-level existence check is advisory; the
// store's unique constraint is the authoritative guard against races.
type RegistrationService interface {
	Register(ctx context.Context, userID, eventID string) (*Inscription, error)
	Unregister(ctx context.Context, userID, eventID string) error
}
