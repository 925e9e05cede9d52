package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gatherly/internal/domain"
)

type registrationService struct {
	eventRepo       domain.EventRepository
	inscriptionRepo domain.InscriptionRepository
	userRepo        domain.UserRepository
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewRegistrationService creates a RegistrationService with the given
// repositories. emailService may be nil to disable confirmation emails.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	inscriptionRepo domain.InscriptionRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:       eventRepo,
		inscriptionRepo: inscriptionRepo,
		userRepo:        userRepo,
		emailService:    emailService,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

// Register transitions the (user, event) pair to registered. The existence
// pre-check is advisory; the repository maps the store's unique-constraint
// rejection to ErrAlreadyRegistered, so a lost race surfaces the same way.
func (s *registrationService) Register(ctx context.Context, userID, eventID string) (*domain.Inscription, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if _, err := s.inscriptionRepo.GetByUserAndEvent(ctx, userID, eventID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get inscription: %w", err)
	}

	ins := domain.NewInscription(userID, eventID, time.Now())
	if err := s.inscriptionRepo.Create(ctx, ins); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create inscription: %w", err)
	}

	s.sendConfirmation(ctx, userID, event)
	return ins, nil
}

// Unregister transitions the (user, event) pair back to unregistered.
func (s *registrationService) Unregister(ctx context.Context, userID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ins, err := s.inscriptionRepo.GetByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotRegistered
		}
		return fmt.Errorf("get inscription: %w", err)
	}
	if err := s.inscriptionRepo.Delete(ctx, ins.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotRegistered
		}
		return fmt.Errorf("delete inscription: %w", err)
	}
	return nil
}

// sendConfirmation emails the registrant best-effort. Failures are logged
// and never returned; the registration itself has already committed.
func (s *registrationService) sendConfirmation(ctx context.Context, userID string, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("lookup registrant for confirmation email failed", "user_id", userID, "err", err)
		return
	}
	data := &domain.RegistrationConfirmationEmailData{
		Email:      user.Email,
		UserName:   user.Name,
		EventTitle: event.Title,
		EventVenue: event.Venue,
		StartTime:  event.StartTime.Format(time.RFC1123),
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.Warn("send registration confirmation failed", "user_id", userID, "event_id", event.ID, "err", err)
	}
}
