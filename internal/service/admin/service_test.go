package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type stubRepo struct {
	account *domain.Admin
	getErr  error
	created domain.Admin
}

func (s *stubRepo) GetByEmail(_ context.Context, _ string) (*domain.Admin, error) {
	return s.account, s.getErr
}

func (s *stubRepo) Create(_ context.Context, a domain.Admin) (*domain.Admin, error) {
	s.created = a
	a.ID = "admin-1"
	return &a, nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hashed)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	repo := &stubRepo{account: &domain.Admin{
		ID:           "admin-1",
		Email:        "ops@example.com",
		PasswordHash: hashFor(t, "super-secret"),
	}}
	svc := New(repo, "test-signing-key")

	token, account, err := svc.Login(context.Background(), "Ops@Example.com", "super-secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if account.ID != "admin-1" {
		t.Fatalf("unexpected account %+v", account)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.AdminID != "admin-1" || claims.Email != "ops@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &stubRepo{account: &domain.Admin{
		ID:           "admin-1",
		Email:        "ops@example.com",
		PasswordHash: hashFor(t, "super-secret"),
	}}
	svc := New(repo, "test-signing-key")

	if _, _, err := svc.Login(context.Background(), "ops@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLogin_UnknownAccount(t *testing.T) {
	repo := &stubRepo{getErr: domain.ErrNotFound}
	svc := New(repo, "test-signing-key")

	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestVerify_RejectsForeignAndExpiredTokens(t *testing.T) {
	repo := &stubRepo{account: &domain.Admin{
		ID:           "admin-1",
		Email:        "ops@example.com",
		PasswordHash: hashFor(t, "super-secret"),
	}}

	issuer := New(repo, "key-a")
	token, _, err := issuer.Login(context.Background(), "ops@example.com", "super-secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	other := New(repo, "key-b")
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token across keys, got %v", err)
	}

	expired := New(repo, "key-a")
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	oldToken, _, err := expired.Login(context.Background(), "ops@example.com", "super-secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := issuer.Verify(oldToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}
}

func TestCreateAccount_Validation(t *testing.T) {
	svc := New(&stubRepo{}, "key")

	if _, err := svc.CreateAccount(context.Background(), "", "longenough"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty email, got %v", err)
	}
	if _, err := svc.CreateAccount(context.Background(), "ops@example.com", "short"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
}

func TestCreateAccount_HashesPassword(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, "key")

	if _, err := svc.CreateAccount(context.Background(), "Ops@Example.com", "super-secret"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if repo.created.Email != "ops@example.com" {
		t.Fatalf("expected lowercased email, got %q", repo.created.Email)
	}
	if repo.created.PasswordHash == "super-secret" || repo.created.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("super-secret")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}
