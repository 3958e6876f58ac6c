package ports

import (
	"context"

	"github.com/taskforge/task-manager/internal/core/domain"
)

// CreateTaskInput carries the fields accepted at task creation. The owner is
// never taken from the payload; it is always the authenticated requester.
type CreateTaskInput struct {
	Description string
	Completed   bool
}

// TaskUpdate carries the mutable task fields. Nil pointers mean "leave
// unchanged".
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// ListTasksInput carries the query options for listing a user's tasks.
type ListTasksInput struct {
	Completed *bool
	Limit     int64
	Skip      int64
	SortField string
	SortAsc   bool
}

// TaskService implements ownership-scoped task CRUD.
type TaskService interface {
	Create(ctx context.Context, ownerID string, input CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, ownerID string, input ListTasksInput) ([]*domain.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error)
	Update(ctx context.Context, ownerID, taskID string, update TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) (*domain.Task, error)
}
