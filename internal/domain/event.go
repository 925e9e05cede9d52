package domain

import (
	"context"
	"io"
	"time"
)

// Event represents a scheduled occurrence with a time window, venue, and owning creator.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Venue       string    `json:"venue"`
	ImageName   *string   `json:"image_name"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID, CreatedBy, and
// CreatedAt are set on create by the service and repository.
func NewEvent(title, description string, startTime, endTime time.Time, venue string) *Event {
	return &Event{
		Title:       title,
		Description: description,
		StartTime:   startTime,
		EndTime:     endTime,
		Venue:       venue,
	}
}

// ImageUpload carries the bytes and extension hint of an uploaded event image.
type ImageUpload struct {
	Content   io.Reader
	Extension string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	ListUpcoming(ctx context.Context, now time.Time, startDate, endDate *time.Time) ([]*Event, error)
	ListByCreatorID(ctx context.Context, creatorID string) ([]*Event, error)
}

// EventService owns the event lifecycle. Authorization is the caller's
// responsibility: CanManageEvent must be checked before invoking UpdateEvent
// or DeleteEvent, which themselves perform no ownership check.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, creatorID string, image *ImageUpload) (*Event, error)
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event, image *ImageUpload) (*Event, error)
	DeleteEvent(ctx context.Context, event *Event) error
	CanManageEvent(event *Event, userID string) bool
}

// QueryService exposes the read paths over events and inscriptions.
type QueryService interface {
	UpcomingEvents(ctx context.Context) ([]*Event, error)
	EventsByDateRange(ctx context.Context, startDate, endDate *time.Time) ([]*Event, error)
	EventsCreatedBy(ctx context.Context, userID string) ([]*Event, error)
	RegistrationsOf(ctx context.Context, userID string) ([]*InscriptionWithEvent, error)
}
