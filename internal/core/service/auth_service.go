package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/task-manager/internal/core/domain"
	"github.com/taskforge/task-manager/internal/core/ports"
)

// LoginThrottle limits failed login attempts per email. Implementations are
// best-effort: a throttle error is treated as "allow".
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements registration, login, and session revocation.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenService
	throttle LoginThrottle
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewAuthService wires the auth service. throttle may be nil to disable
// login throttling.
func NewAuthService(users ports.UserRepository, tokens ports.TokenService, throttle LoginThrottle, notifier ports.Notifier, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, throttle: throttle, notifier: notifier, log: log}
}

// Register creates a new account, sends the welcome email best-effort, and
// opens the first session.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, "", err
	}
	email, err := domain.NormalizeEmail(input.Email)
	if err != nil {
		return nil, "", err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, "", err
	}
	if err := domain.ValidateAge(input.Age); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(input.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		Age:          input.Age,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.notifier.NotifyWelcome(created.Email, created.Name)

	token, err := s.openSession(ctx, created)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, token, nil
}

// Login verifies credentials and opens an additional session without
// touching existing ones. Unknown email and wrong password produce the same
// error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		} else if !allowed {
			return nil, "", domain.ErrTooManyLoginAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.recordFailure(ctx, email)
		return nil, "", domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	return user, token, nil
}

// Logout removes exactly the session token the request authenticated with.
func (s *AuthService) Logout(ctx context.Context, userID, token string) error {
	return s.users.PullToken(ctx, userID, token)
}

// LogoutAll clears the user's whole session list.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.users.ClearTokens(ctx, userID)
}

// openSession issues a token and appends it to the user's session list.
func (s *AuthService) openSession(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	if err := s.users.PushToken(ctx, user.ID, token); err != nil {
		return "", err
	}
	user.Tokens = append(user.Tokens, token)
	return token, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle record failed")
	}
}
