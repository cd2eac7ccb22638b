package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/service"

	"go.uber.org/zap"
)

type fakeAuthStore struct {
	users map[string]*domain.User // keyed by email
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{users: make(map[string]*domain.User)}
}

func (f *fakeAuthStore) InsertUser(ctx context.Context, user *domain.User) error {
	f.users[user.Email] = user
	return nil
}

func (f *fakeAuthStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.users[email], nil
}

func (f *fakeAuthStore) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	for _, u := range f.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func newAuthService(store *fakeAuthStore) *service.AuthService {
	return service.NewAuthService(store, "test-secret", 15*time.Minute, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeAuthStore()
	svc := newAuthService(store)
	ctx := context.Background()

	adminRole := domain.RoleAdmin
	user, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Ops Admin",
		Email:    "Admin@Example.com",
		Password: "correct-horse",
		Role:     &adminRole,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %d", user.Role)
	}
	if user.PasswordHash == "correct-horse" {
		t.Fatal("password must be hashed")
	}

	resp, err := svc.Login(ctx, &domain.LoginRequest{
		Email:    "admin@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.Sub != user.UserID {
		t.Errorf("expected sub %s, got %s", user.UserID, claims.Sub)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("expected role %d in claims, got %d", domain.RoleAdmin, claims.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newFakeAuthStore()
	svc := newAuthService(store)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "User", Email: "user@example.com", Password: "right-password",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(ctx, &domain.LoginRequest{
		Email: "user@example.com", Password: "wrong-password",
	})
	if !isUnauthorized(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}

	// Unknown user and wrong password are indistinguishable.
	_, err2 := svc.Login(ctx, &domain.LoginRequest{
		Email: "nobody@example.com", Password: "whatever",
	})
	if !isUnauthorized(err2) {
		t.Errorf("expected unauthorized, got %v", err2)
	}
	if err.Error() != err2.Error() {
		t.Error("login failures must not reveal which credential was wrong")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newFakeAuthStore()
	svc := newAuthService(store)
	ctx := context.Background()

	req := &domain.RegisterRequest{Name: "User", Email: "dup@example.com", Password: "password-1"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(ctx, req)
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(newFakeAuthStore())
	ctx := context.Background()

	cases := []domain.RegisterRequest{
		{Email: "a@example.com", Password: "long-enough"}, // no name
		{Name: "X", Email: "not-an-email", Password: "long-enough"},
		{Name: "X", Email: "a@example.com", Password: "short"},
	}
	for i, req := range cases {
		if _, err := svc.Register(ctx, &req); !isValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newAuthService(newFakeAuthStore())
	if _, err := svc.ValidateAccessToken("not.a.token"); !isUnauthorized(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	store := newFakeAuthStore()
	svc := newAuthService(store)

	registered, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name:     "Me",
		Email:    "me@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.CurrentUser(context.Background(), registered.UserID)
	if err != nil {
		t.Fatalf("expected profile, got %v", err)
	}
	if user.Email != "me@example.com" {
		t.Errorf("wrong user resolved: %q", user.Email)
	}

	// A stale token subject resolves to unauthorized, not 500.
	if _, err := svc.CurrentUser(context.Background(), "deleted-user"); !isUnauthorized(err) {
		t.Errorf("expected unauthorized for unknown subject, got %v", err)
	}
}

func isUnauthorized(err error) bool {
	var u *domain.ErrUnauthorized
	return errors.As(err, &u)
}

func isValidation(err error) bool {
	var v *domain.ErrValidation
	return errors.As(err, &v)
}
