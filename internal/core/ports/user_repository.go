package ports

import (
	"context"

	"github.com/taskforge/task-manager/internal/core/domain"
)

// UserRepository defines persistence operations for users. Token mutations
// are single-document atomic updates so concurrent sessions never clobber
// each other's entries.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDAndToken resolves a user only when the given token is currently
	// present in the user's session list. This is what makes logout effective:
	// a signature-valid token that was removed no longer resolves.
	FindByIDAndToken(ctx context.Context, id, token string) (*domain.User, error)
	// Update persists the mutable profile fields (name, email, password hash,
	// age) and returns the stored user. A duplicate email yields
	// domain.ErrEmailTaken.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error

	PushToken(ctx context.Context, id, token string) error
	PullToken(ctx context.Context, id, token string) error
	ClearTokens(ctx context.Context, id string) error

	SetAvatar(ctx context.Context, id string, avatar []byte) error
	ClearAvatar(ctx context.Context, id string) error
}
