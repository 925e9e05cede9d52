package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gatherly/internal/domain"
)

type queryService struct {
	eventRepo       domain.EventRepository
	inscriptionRepo domain.InscriptionRepository
	contextTimeout  time.Duration
	now             func() time.Time
}

// NewQueryService creates a QueryService over the given repositories.
func NewQueryService(eventRepo domain.EventRepository, inscriptionRepo domain.InscriptionRepository, timeout time.Duration) domain.QueryService {
	return &queryService{
		eventRepo:       eventRepo,
		inscriptionRepo: inscriptionRepo,
		contextTimeout:  timeout,
		now:             time.Now,
	}
}

// UpcomingEvents returns events starting at or after now, ascending by start time.
func (s *queryService) UpcomingEvents(ctx context.Context) ([]*domain.Event, error) {
	return s.EventsByDateRange(ctx, nil, nil)
}

// EventsByDateRange narrows the upcoming listing by the optional inclusive
// bounds. Passing neither bound degenerates to UpcomingEvents.
func (s *queryService) EventsByDateRange(ctx context.Context, startDate, endDate *time.Time) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListUpcoming(ctx, s.now(), startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// EventsCreatedBy returns the user's own events, newest first.
func (s *queryService) EventsCreatedBy(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByCreatorID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// RegistrationsOf returns the user's inscriptions with their events,
// descending by registration timestamp.
func (s *queryService) RegistrationsOf(ctx context.Context, userID string) ([]*domain.InscriptionWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inscriptions, err := s.inscriptionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list inscriptions: %w", err)
	}

	// Fetch events one by one (N+1). Fine at this scale; revisit if listings grow.
	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.InscriptionWithEvent, 0, len(inscriptions))
	for _, ins := range inscriptions {
		ev, ok := eventsByID[ins.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, ins.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted after the inscription was listed; skip it.
					continue
				}
				return nil, fmt.Errorf("get event for inscription: %w", err)
			}
			eventsByID[ins.EventID] = ev
		}
		result = append(result, &domain.InscriptionWithEvent{
			Inscription: ins,
			Event:       ev,
		})
	}
	return result, nil
}
