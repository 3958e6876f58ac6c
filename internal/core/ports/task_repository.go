package ports

import (
	"context"

	"github.com/taskforge/task-manager/internal/core/domain"
)

// ListTasksFilter carries all query options for listing tasks. Owner is
// always set by the service layer; every read is ownership-scoped.
type ListTasksFilter struct {
	Owner     string
	Completed *bool  // nil = no completion filter
	Limit     int64  // 0 = no limit
	Skip      int64  // 0 = no skip
	SortField string // empty = store-default order
	SortAsc   bool
}

// TaskRepository defines persistence operations for tasks. Lookups and
// mutations by id are always additionally filtered by owner so that another
// user's task is indistinguishable from a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByIDAndOwner(ctx context.Context, id, owner string) (*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, error)
	// Update persists description and completed for the task matching
	// {id, owner} and returns the updated task, or domain.ErrTaskNotFound.
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// DeleteByIDAndOwner removes the task matching {id, owner} and returns
	// the deleted task, or domain.ErrTaskNotFound.
	DeleteByIDAndOwner(ctx context.Context, id, owner string) (*domain.Task, error)
	// DeleteByOwner removes every task owned by the given user and returns
	// the number of tasks removed.
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}
