package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
)

type memUsers struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64
	ledger *memLedger
}

func newMemUsers(ledger *memLedger) *memUsers {
	return &memUsers{users: make(map[int64]domain.User), nextID: 1, ledger: ledger}
}

func (m *memUsers) Create(ctx context.Context, u domain.User, draft domain.LedgerDraft) (domain.User, error) {
	m.mu.Lock()
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = u
	m.mu.Unlock()
	draft.ActorID = &u.ID
	draft.ResourceID = formatID(u.ID)
	_, err := m.ledger.Append(ctx, draft)
	return u, err
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func newAuthFixture() (*AuthService, *memStore) {
	store := newMemStore()
	ledger := &memLedger{store}
	users := newMemUsers(ledger)
	return NewAuthService(users, NewLedgerService(ledger), "test-secret", time.Hour), store
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuthFixture()

	user, err := svc.Register(ctx, "Issuer@Example.Org", "Jo Mokoena", "correct horse", domain.RoleIssuer)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "issuer@example.org" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "correct horse" {
		t.Fatalf("password stored in clear")
	}

	token, logged, err := svc.Login(ctx, "issuer@example.org", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID || token == "" {
		t.Fatalf("unexpected login result")
	}

	actor, _, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if actor.ID != user.ID || actor.Role != domain.RoleIssuer {
		t.Fatalf("actor = %+v", actor)
	}

	actions := store.actions()
	if len(actions) != 2 || actions[0] != domain.ActionUserRegister || actions[1] != domain.ActionUserLogin {
		t.Fatalf("ledger actions = %v", actions)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	if _, err := svc.Register(ctx, "b@x.org", "", "hunter22222", domain.RoleBidder); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "b@x.org", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong password: got %v, want ErrUnauthorized", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@x.org", "hunter22222"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("unknown user: got %v, want ErrUnauthorized", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	if _, err := svc.Register(ctx, "not-an-email", "", "longenough", domain.RoleBidder); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("bad email: got %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.org", "", "short", domain.RoleBidder); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("short password: got %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.org", "", "longenough", domain.Role("root")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("bad role: got %v", err)
	}

	if _, err := svc.Register(ctx, "dup@b.org", "", "longenough", domain.RoleBidder); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "dup@b.org", "", "longenough", domain.RoleBidder); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("duplicate email: got %v", err)
	}
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	if _, _, err := svc.Authenticate(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("empty token: got %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, "eyJh.bogus.token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("garbage token: got %v", err)
	}

	// token signed with a different secret
	other := NewAuthService(newMemUsers(&memLedger{newMemStore()}), NewLedgerService(&memLedger{newMemStore()}), "other-secret", time.Hour)
	if _, err := other.Register(ctx, "x@y.org", "", "longenough", domain.RoleBidder); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := other.Login(ctx, "x@y.org", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("foreign token: got %v", err)
	}
}
