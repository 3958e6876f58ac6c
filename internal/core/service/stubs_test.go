package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"testing"

	"github.com/taskforge/task-manager/internal/core/domain"
	"github.com/taskforge/task-manager/internal/core/ports"
)

// testPNG returns a small valid PNG payload.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 32))
	for x := 0; x < 16; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// stubUserRepo is an in-memory ports.UserRepository.
type stubUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Tokens = append([]string(nil), u.Tokens...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = "user_" + strconv.Itoa(r.seq)
	r.users[created.ID] = created
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDAndToken(_ context.Context, id, token string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, t := range u.Tokens {
		if t == token {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	stored, ok := r.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, other := range r.users {
		if id != user.ID && other.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.Age = user.Age
	stored.UpdatedAt = user.UpdatedAt
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) PushToken(_ context.Context, id, token string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Tokens = append(u.Tokens, token)
	return nil
}

func (r *stubUserRepo) PullToken(_ context.Context, id, token string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	kept := u.Tokens[:0]
	for _, t := range u.Tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	return nil
}

func (r *stubUserRepo) ClearTokens(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Tokens = nil
	return nil
}

func (r *stubUserRepo) SetAvatar(_ context.Context, id string, avatar []byte) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Avatar = avatar
	return nil
}

func (r *stubUserRepo) ClearAvatar(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Avatar = nil
	return nil
}

// stubTaskRepo is an in-memory ports.TaskRepository. Sorting is ignored; the
// filter it received is recorded for assertions.
type stubTaskRepo struct {
	seq        int
	tasks      map[string]*domain.Task
	lastFilter ports.ListTasksFilter
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.seq++
	created := cloneTask(task)
	created.ID = "task_" + strconv.Itoa(r.seq)
	r.tasks[created.ID] = created
	return cloneTask(created), nil
}

func (r *stubTaskRepo) FindByIDAndOwner(_ context.Context, id, owner string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.Owner != owner {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) List(_ context.Context, filter ports.ListTasksFilter) ([]*domain.Task, error) {
	r.lastFilter = filter
	result := []*domain.Task{}
	for _, t := range r.tasks {
		if t.Owner != filter.Owner {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		result = append(result, cloneTask(t))
	}
	return result, nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) (*domain.Task, error) {
	stored, ok := r.tasks[task.ID]
	if !ok || stored.Owner != task.Owner {
		return nil, domain.ErrTaskNotFound
	}
	stored.Description = task.Description
	stored.Completed = task.Completed
	stored.UpdatedAt = task.UpdatedAt
	return cloneTask(stored), nil
}

func (r *stubTaskRepo) DeleteByIDAndOwner(_ context.Context, id, owner string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.Owner != owner {
		return nil, domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return cloneTask(t), nil
}

func (r *stubTaskRepo) DeleteByOwner(_ context.Context, owner string) (int64, error) {
	var removed int64
	for id, t := range r.tasks {
		if t.Owner == owner {
			delete(r.tasks, id)
			removed++
		}
	}
	return removed, nil
}

// stubNotifier records enqueued notifications.
type stubNotifier struct {
	welcomes      []string
	cancellations []string
}

func (n *stubNotifier) NotifyWelcome(email, _ string)      { n.welcomes = append(n.welcomes, email) }
func (n *stubNotifier) NotifyCancellation(email, _ string) { n.cancellations = append(n.cancellations, email) }

// stubThrottle scripts the throttle decision and records failures.
type stubThrottle struct {
	allowed  bool
	failures []string
	resets   []string
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) {
	return t.allowed, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures = append(t.failures, email)
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.resets = append(t.resets, email)
	return nil
}
