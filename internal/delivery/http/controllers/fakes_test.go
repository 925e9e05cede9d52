package controllers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"gatherly/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr       error
	updateErr       error
	deleteErr       error
	getErr          error
	eventByID       map[string]*domain.Event
	lastCreated     *domain.Event
	lastCreatorID   string
	lastUpdated     *domain.Event
	lastDeleted     *domain.Event
	lastCreateImage *domain.ImageUpload
	lastUpdateImage *domain.ImageUpload
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event, creatorID string, image *domain.ImageUpload) (*domain.Event, error) {
	f.lastCreated = event
	f.lastCreatorID = creatorID
	f.lastCreateImage = image
	if f.createErr != nil {
		return nil, f.createErr
	}
	event.ID = "ev-created"
	event.CreatedBy = creatorID
	return event, nil
}

func (f *fakeEventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if event, ok := f.eventByID[eventID]; ok {
		return event, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, event *domain.Event, image *domain.ImageUpload) (*domain.Event, error) {
	f.lastUpdated = event
	f.lastUpdateImage = image
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return event, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, event *domain.Event) error {
	f.lastDeleted = event
	return f.deleteErr
}

func (f *fakeEventService) CanManageEvent(event *domain.Event, userID string) bool {
	return event.CreatedBy == userID
}

// fakeQueryService implements domain.QueryService for handler tests.
type fakeQueryService struct {
	listErr           error
	events            []*domain.Event
	createdBy         []*domain.Event
	registrations     []*domain.InscriptionWithEvent
	lastStartDate     *time.Time
	lastEndDate       *time.Time
	lastCreatedByUser string
}

func (f *fakeQueryService) UpcomingEvents(ctx context.Context) ([]*domain.Event, error) {
	return f.EventsByDateRange(ctx, nil, nil)
}

func (f *fakeQueryService) EventsByDateRange(ctx context.Context, startDate, endDate *time.Time) ([]*domain.Event, error) {
	f.lastStartDate = startDate
	f.lastEndDate = endDate
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeQueryService) EventsCreatedBy(ctx context.Context, userID string) ([]*domain.Event, error) {
	f.lastCreatedByUser = userID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.createdBy, nil
}

func (f *fakeQueryService) RegistrationsOf(ctx context.Context, userID string) ([]*domain.InscriptionWithEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.registrations, nil
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	registerErr   error
	unregisterErr error
	lastUserID    string
	lastEventID   string
}

func (f *fakeRegistrationService) Register(ctx context.Context, userID, eventID string) (*domain.Inscription, error) {
	f.lastUserID = userID
	f.lastEventID = eventID
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.Inscription{ID: "ins-1", UserID: userID, EventID: eventID}, nil
}

func (f *fakeRegistrationService) Unregister(ctx context.Context, userID, eventID string) error {
	f.lastUserID = userID
	f.lastEventID = eventID
	return f.unregisterErr
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpErr error
	loginErr  error
	user      *domain.User
	token     string
}

func (f *fakeAuthService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	if f.user != nil {
		return f.user, nil
	}
	return &domain.User{ID: "u-1", Name: name, Email: email}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	token := f.token
	if token == "" {
		token = "token-u-1"
	}
	user := f.user
	if user == nil {
		user = &domain.User{ID: "u-1", Email: email}
	}
	return token, user, nil
}
