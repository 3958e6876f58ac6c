package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/task-manager/internal/core/domain"
	"github.com/taskforge/task-manager/internal/core/ports"
	"github.com/taskforge/task-manager/internal/pkg/avatar"
)

// UserService implements profile and avatar management, including the
// cascade delete of a user's tasks on account removal.
type UserService struct {
	users    ports.UserRepository
	tasks    ports.TaskRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, tasks ports.TaskRepository, notifier ports.Notifier, log zerolog.Logger) *UserService {
	return &UserService{users: users, tasks: tasks, notifier: notifier, log: log}
}

// UpdateProfile applies the given fields and persists the result. A password
// change is re-hashed here so the side effect is visible at the call site
// rather than hidden in a persistence hook.
func (s *UserService) UpdateProfile(ctx context.Context, user *domain.User, update ports.ProfileUpdate) (*domain.User, error) {
	updated := *user

	if update.Name != nil {
		if err := domain.ValidateName(*update.Name); err != nil {
			return nil, err
		}
		updated.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		email, err := domain.NormalizeEmail(*update.Email)
		if err != nil {
			return nil, err
		}
		updated.Email = email
	}
	if update.Age != nil {
		if err := domain.ValidateAge(*update.Age); err != nil {
			return nil, err
		}
		updated.Age = *update.Age
	}
	if update.Password != nil {
		if err := domain.ValidatePassword(*update.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(*update.Password)), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = string(hash)
	}

	updated.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, &updated)
}

// DeleteAccount removes the user, cascades deletion of their tasks, and
// sends the cancellation email best-effort. The two deletes are separate
// single-document operations; a crash in between leaves orphaned tasks,
// which is an accepted gap for this domain.
func (s *UserService) DeleteAccount(ctx context.Context, user *domain.User) error {
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	removed, err := s.tasks.DeleteByOwner(ctx, user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("task cascade delete failed, tasks orphaned")
	} else {
		s.log.Info().Str("user_id", user.ID).Int64("tasks_removed", removed).Msg("account deleted")
	}

	s.notifier.NotifyCancellation(user.Email, user.Name)
	return nil
}

// SetAvatar normalizes the uploaded image to the canonical square PNG and
// stores the bytes on the user record.
func (s *UserService) SetAvatar(ctx context.Context, userID string, image []byte) error {
	normalized, err := avatar.Normalize(image)
	if err != nil {
		return err
	}
	return s.users.SetAvatar(ctx, userID, normalized)
}

// ClearAvatar removes the stored avatar bytes.
func (s *UserService) ClearAvatar(ctx context.Context, userID string) error {
	return s.users.ClearAvatar(ctx, userID)
}

// GetAvatar returns the stored avatar for any user id. A missing user and a
// user without an avatar are indistinguishable to the caller.
func (s *UserService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasAvatar() {
		return nil, domain.ErrUserNotFound
	}
	return user.Avatar, nil
}
