package ports

import (
	"context"

	"github.com/taskforge/task-manager/internal/core/domain"
)

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// AuthService implements registration, login, and session revocation.
type AuthService interface {
	// Register creates an account and opens a first session, returning the
	// created user and its bearer token.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Login opens an additional session. Unknown email and wrong password
	// both collapse into domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Logout revokes exactly the given session token.
	Logout(ctx context.Context, userID, token string) error
	// LogoutAll revokes every session token of the user.
	LogoutAll(ctx context.Context, userID string) error
}
