package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskforge/task-manager/internal/core/domain"
	"github.com/taskforge/task-manager/internal/core/ports"
)

// sortableTaskFields are the fields a listing may be sorted by. An unknown
// sort field is ignored rather than rejected, matching the behaviour of
// absent or invalid limit/skip values.
var sortableTaskFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"description": true,
	"completed":   true,
}

// TaskService implements ownership-scoped task CRUD. Every lookup and
// mutation is filtered by the requester's id at the repository level.
type TaskService struct {
	tasks ports.TaskRepository
	log   zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, log: log}
}

// Create stores a new task. The owner is always the authenticated requester,
// regardless of anything in the payload.
func (s *TaskService) Create(ctx context.Context, ownerID string, input ports.CreateTaskInput) (*domain.Task, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.Validation("description is required")
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Description: description,
		Completed:   input.Completed,
		Owner:       ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", created.ID).Str("owner", ownerID).Msg("task created")
	return created, nil
}

// List returns the requester's tasks, optionally filtered by completion
// state, paginated, and sorted.
func (s *TaskService) List(ctx context.Context, ownerID string, input ports.ListTasksInput) ([]*domain.Task, error) {
	filter := ports.ListTasksFilter{
		Owner:     ownerID,
		Completed: input.Completed,
		SortAsc:   input.SortAsc,
	}
	if input.Limit > 0 {
		filter.Limit = input.Limit
	}
	if input.Skip > 0 {
		filter.Skip = input.Skip
	}
	if sortableTaskFields[input.SortField] {
		filter.SortField = input.SortField
	}
	return s.tasks.List(ctx, filter)
}

// Get fetches one task constrained to the requester's ownership.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	return s.tasks.FindByIDAndOwner(ctx, taskID, ownerID)
}

// Update applies the given fields to the requester's task and persists it.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, update ports.TaskUpdate) (*domain.Task, error) {
	task, err := s.tasks.FindByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if description == "" {
			return nil, domain.Validation("description is required")
		}
		task.Description = description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}

	task.UpdatedAt = time.Now().UTC()
	return s.tasks.Update(ctx, task)
}

// Delete removes the requester's task and returns it.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	return s.tasks.DeleteByIDAndOwner(ctx, taskID, ownerID)
}
