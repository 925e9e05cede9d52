package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"gatherly/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	createErr error
	deleteErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) ListUpcoming(ctx context.Context, now time.Time, startDate, endDate *time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.StartTime.Before(now) {
			continue
		}
		if startDate != nil && e.StartTime.Before(*startDate) {
			continue
		}
		if endDate != nil && e.StartTime.After(*endDate) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeEventRepo) ListByCreatorID(ctx context.Context, creatorID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.CreatedBy == creatorID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// fakeInscriptionRepo is an in-memory InscriptionRepository keyed by (user, event).
type fakeInscriptionRepo struct {
	byID      map[string]*domain.Inscription
	nextID    int
	createErr error // returned by Create when set, before the uniqueness check
}

func newFakeInscriptionRepo() *fakeInscriptionRepo {
	return &fakeInscriptionRepo{
		byID:   make(map[string]*domain.Inscription),
		nextID: 1,
	}
}

func (f *fakeInscriptionRepo) Create(ctx context.Context, ins *domain.Inscription) error {
	if f.createErr != nil {
		return f.createErr
	}
	// Mirror the store's unique constraint.
	for _, existing := range f.byID {
		if existing.UserID == ins.UserID && existing.EventID == ins.EventID {
			return domain.ErrAlreadyRegistered
		}
	}
	ins.ID = fmt.Sprintf("ins-%d", f.nextID)
	f.nextID++
	f.byID[ins.ID] = ins
	return nil
}

func (f *fakeInscriptionRepo) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Inscription, error) {
	for _, ins := range f.byID {
		if ins.UserID == userID && ins.EventID == eventID {
			return ins, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInscriptionRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Inscription, error) {
	var out []*domain.Inscription
	for _, ins := range f.byID {
		if ins.UserID == userID {
			out = append(out, ins)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

func (f *fakeInscriptionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:   make(map[string]*domain.User),
		nextID: 1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("u-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// fakeBlobStore records stored and deleted names, and can fail on demand.
type fakeBlobStore struct {
	stored    []string
	deleted   []string
	nextName  int
	storeErr  error
	deleteErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{nextName: 1}
}

func (f *fakeBlobStore) Store(ctx context.Context, content io.Reader, extension string) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	name := fmt.Sprintf("blob-%d.%s", f.nextName, extension)
	f.nextName++
	f.stored = append(f.stored, name)
	return name, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return f.deleteErr
}

// fakeEmailService counts confirmation sends.
type fakeEmailService struct {
	sent []*domain.RegistrationConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

// fakeHasher hashes by concatenation so tests can assert without bcrypt cost.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeTokenIssuer returns a fixed token.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}
