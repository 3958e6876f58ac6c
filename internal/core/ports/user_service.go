package ports

import (
	"context"

	"github.com/taskforge/task-manager/internal/core/domain"
)

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// UserService implements profile and avatar management.
type UserService interface {
	UpdateProfile(ctx context.Context, user *domain.User, update ProfileUpdate) (*domain.User, error)
	// DeleteAccount removes the user and cascades deletion of every task
	// they own. The two deletes are separate single-document operations.
	DeleteAccount(ctx context.Context, user *domain.User) error
	// SetAvatar normalizes the uploaded image bytes and stores them.
	SetAvatar(ctx context.Context, userID string, image []byte) error
	ClearAvatar(ctx context.Context, userID string) error
	// GetAvatar returns the stored avatar bytes for any user id. A missing
	// user and a user without an avatar both yield domain.ErrUserNotFound.
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}
