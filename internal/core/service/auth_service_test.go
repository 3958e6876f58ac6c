package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/task-manager/internal/core/domain"
	"github.com/taskforge/task-manager/internal/core/ports"
)

func newAuthService(repo *stubUserRepo, notifier *stubNotifier, throttle LoginThrottle) *AuthService {
	return NewAuthService(repo, NewTokenService("secret", time.Hour), throttle, notifier, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	notifier := &stubNotifier{}
	svc := newAuthService(repo, notifier, nil)

	user, token, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "  Harry  ",
		Email:    " H@Example.COM ",
		Password: "testpass",
		Age:      30,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Name != "Harry" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.Email != "h@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "testpass" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("testpass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if token == "" {
		t.Fatalf("expected session token")
	}

	stored, err := repo.FindByIDAndToken(context.Background(), user.ID, token)
	if err != nil {
		t.Fatalf("token not persisted in session list: %v", err)
	}
	if stored.ID != user.ID {
		t.Fatalf("token resolved wrong user")
	}
	if len(notifier.welcomes) != 1 || notifier.welcomes[0] != "h@example.com" {
		t.Fatalf("expected one welcome notification, got %v", notifier.welcomes)
	}
}

func TestAuthService_Register_PasswordRules(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &stubNotifier{}, nil)

	cases := []string{
		"short1",        // too short
		"password123",   // literal substring
		"MyPassWord999", // substring in mixed case
	}
	for _, password := range cases {
		_, _, err := svc.Register(context.Background(), ports.RegisterInput{
			Name:     "Harry",
			Email:    "h@example.com",
			Password: password,
		})
		if !domain.IsValidation(err) {
			t.Fatalf("password %q: expected validation error, got %v", password, err)
		}
	}
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &stubNotifier{}, nil)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Harry",
		Email:    "not-an-email",
		Password: "testpass",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubNotifier{}, nil)

	input := ports.RegisterInput{Name: "Harry", Email: "h@example.com", Password: "testpass"}
	if _, _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), input); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("duplicate register created a second record")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubNotifier{}, nil)

	_, registerToken, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Harry", Email: "h@example.com", Password: "testpass",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, loginToken, err := svc.Login(context.Background(), "  H@Example.com ", "testpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loginToken == "" || loginToken == registerToken {
		t.Fatalf("expected a fresh token distinct from the registration token")
	}

	// Both sessions stay valid: login is additive.
	stored := repo.users[user.ID]
	if len(stored.Tokens) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(stored.Tokens))
	}
}

func TestAuthService_Login_CredentialFailuresCollapse(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubNotifier{}, nil)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Harry", Email: "h@example.com", Password: "testpass",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown email are indistinguishable.
	if _, _, err := svc.Login(context.Background(), "h@example.com", "wrongpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "testpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	throttle := &stubThrottle{allowed: false}
	svc := newAuthService(repo, &stubNotifier{}, throttle)

	if _, _, err := svc.Login(context.Background(), "h@example.com", "testpass"); err != domain.ErrTooManyLoginAttempts {
		t.Fatalf("expected ErrTooManyLoginAttempts, got %v", err)
	}
}

func TestAuthService_Login_RecordsFailuresAndResets(t *testing.T) {
	repo := newStubUserRepo()
	throttle := &stubThrottle{allowed: true}
	svc := newAuthService(repo, &stubNotifier{}, throttle)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Harry", Email: "h@example.com", Password: "testpass",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, _ = svc.Login(context.Background(), "h@example.com", "wrongpass")
	if len(throttle.failures) != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", len(throttle.failures))
	}

	if _, _, err := svc.Login(context.Background(), "h@example.com", "testpass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(throttle.resets) != 1 {
		t.Fatalf("expected throttle reset after success, got %d", len(throttle.resets))
	}
}

func TestAuthService_Logout_RemovesExactlyOneSession(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubNotifier{}, nil)

	user, first, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Harry", Email: "h@example.com", Password: "testpass",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, second, err := svc.Login(context.Background(), "h@example.com", "testpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), user.ID, first); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := repo.FindByIDAndToken(context.Background(), user.ID, first); err != domain.ErrUserNotFound {
		t.Fatalf("revoked token still resolves")
	}
	if _, err := repo.FindByIDAndToken(context.Background(), user.ID, second); err != nil {
		t.Fatalf("unrelated session was revoked: %v", err)
	}
}

func TestAuthService_LogoutAll_ClearsEverySession(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubNotifier{}, nil)

	user, first, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Harry", Email: "h@example.com", Password: "testpass",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, second, _ := svc.Login(context.Background(), "h@example.com", "testpass")

	if err := svc.LogoutAll(context.Background(), user.ID); err != nil {
		t.Fatalf("logout-all failed: %v", err)
	}
	for _, token := range []string{first, second} {
		if _, err := repo.FindByIDAndToken(context.Background(), user.ID, token); err != domain.ErrUserNotFound {
			t.Fatalf("token survived logout-all")
		}
	}

	// A fresh login still succeeds and yields a usable session.
	_, fresh, err := svc.Login(context.Background(), "h@example.com", "testpass")
	if err != nil {
		t.Fatalf("login after logout-all failed: %v", err)
	}
	if _, err := repo.FindByIDAndToken(context.Background(), user.ID, fresh); err != nil {
		t.Fatalf("fresh session not usable: %v", err)
	}
}
