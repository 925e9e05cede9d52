package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gatherly/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	blobStore      domain.BlobStore
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repository and blob store.
func NewEventService(eventRepo domain.EventRepository, blobStore domain.BlobStore, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		blobStore:      blobStore,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// CreateEvent persists a new event owned by creatorID. When an image is
// supplied its blob is stored first; a blob failure aborts the create so no
// record with a dangling image reference is ever persisted. A blob written
// before a failed insert is left behind (the store record is the source of
// truth; the leak is accepted).
func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, creatorID string, image *domain.ImageUpload) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if creatorID == "" {
		return nil, fmt.Errorf("event creator is required")
	}
	if err := validateEventWindow(event); err != nil {
		return nil, err
	}

	if image != nil {
		name, err := s.blobStore.Store(ctx, image.Content, image.Extension)
		if err != nil {
			return nil, fmt.Errorf("store event image: %w", err)
		}
		event.ImageName = &name
	}

	event.CreatedBy = creatorID
	event.CreatedAt = time.Now()

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// UpdateEvent persists the mutated fields of event. The caller must have
// already verified ownership with CanManageEvent. When a new image is
// supplied the previous blob is deleted best-effort, then the new one is
// stored and the reference swapped.
func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event, image *domain.ImageUpload) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEventWindow(event); err != nil {
		return nil, err
	}

	if image != nil {
		if event.ImageName != nil {
			if err := s.blobStore.Delete(ctx, *event.ImageName); err != nil {
				s.logger.Warn("delete previous event image failed", "event_id", event.ID, "image", *event.ImageName, "err", err)
			}
		}
		name, err := s.blobStore.Store(ctx, image.Content, image.Extension)
		if err != nil {
			return nil, fmt.Errorf("store event image: %w", err)
		}
		event.ImageName = &name
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes the event record and its image blob. Registrations go
// with the record via the store's cascade. Safe to call with no image set.
func (s *eventService) DeleteEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.ImageName != nil {
		if err := s.blobStore.Delete(ctx, *event.ImageName); err != nil {
			s.logger.Warn("delete event image failed", "event_id", event.ID, "image", *event.ImageName, "err", err)
		}
	}
	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// CanManageEvent reports whether userID created the event. This is the single
// authorization gate for mutating operations and must be evaluated by the
// caller before UpdateEvent or DeleteEvent.
func (s *eventService) CanManageEvent(event *domain.Event, userID string) bool {
	return event.CreatedBy == userID
}

// validateEventWindow rejects an end time before the start time. A start
// time in the past is accepted.
func validateEventWindow(event *domain.Event) error {
	if event.EndTime.Before(event.StartTime) {
		return domain.ErrInvalidInput
	}
	return nil
}
