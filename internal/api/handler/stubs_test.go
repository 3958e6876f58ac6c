package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-manager/internal/core/domain"
	"github.com/taskforge/task-manager/internal/core/ports"
)

// stubAuthService scripts the auth outcomes and records the inputs it saw.
type stubAuthService struct {
	user *domain.User
	err  error

	registered []ports.RegisterInput
	logins     [][2]string
	logouts    [][2]string
	logoutAlls []string
}

func (s *stubAuthService) Register(_ context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	s.registered = append(s.registered, input)
	if s.err != nil {
		return nil, "", s.err
	}
	return s.user, "token-1", nil
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	s.logins = append(s.logins, [2]string{email, password})
	if s.err != nil {
		return nil, "", s.err
	}
	return s.user, "token-2", nil
}

func (s *stubAuthService) Logout(_ context.Context, userID, token string) error {
	s.logouts = append(s.logouts, [2]string{userID, token})
	return s.err
}

func (s *stubAuthService) LogoutAll(_ context.Context, userID string) error {
	s.logoutAlls = append(s.logoutAlls, userID)
	return s.err
}

// stubUserService scripts the profile outcomes and records the inputs it saw.
type stubUserService struct {
	user   *domain.User
	avatar []byte
	err    error

	updates   []ports.ProfileUpdate
	deletes   []string
	setAvatar [][]byte
	cleared   []string
}

func (s *stubUserService) UpdateProfile(_ context.Context, _ *domain.User, update ports.ProfileUpdate) (*domain.User, error) {
	s.updates = append(s.updates, update)
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) DeleteAccount(_ context.Context, user *domain.User) error {
	s.deletes = append(s.deletes, user.ID)
	return s.err
}

func (s *stubUserService) SetAvatar(_ context.Context, _ string, image []byte) error {
	s.setAvatar = append(s.setAvatar, image)
	return s.err
}

func (s *stubUserService) ClearAvatar(_ context.Context, userID string) error {
	s.cleared = append(s.cleared, userID)
	return s.err
}

func (s *stubUserService) GetAvatar(_ context.Context, _ string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.avatar, nil
}

// stubTaskService scripts the task outcomes and records the inputs it saw.
type stubTaskService struct {
	task  *domain.Task
	tasks []*domain.Task
	err   error

	created   []ports.CreateTaskInput
	createdBy []string
	listed    []ports.ListTasksInput
	updates   []ports.TaskUpdate
}

func (s *stubTaskService) Create(_ context.Context, ownerID string, input ports.CreateTaskInput) (*domain.Task, error) {
	s.createdBy = append(s.createdBy, ownerID)
	s.created = append(s.created, input)
	if s.err != nil {
		return nil, s.err
	}
	return s.task, nil
}

func (s *stubTaskService) List(_ context.Context, _ string, input ports.ListTasksInput) ([]*domain.Task, error) {
	s.listed = append(s.listed, input)
	if s.err != nil {
		return nil, s.err
	}
	return s.tasks, nil
}

func (s *stubTaskService) Get(_ context.Context, _, _ string) (*domain.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.task, nil
}

func (s *stubTaskService) Update(_ context.Context, _, _ string, update ports.TaskUpdate) (*domain.Task, error) {
	s.updates = append(s.updates, update)
	if s.err != nil {
		return nil, s.err
	}
	return s.task, nil
}

func (s *stubTaskService) Delete(_ context.Context, _, _ string) (*domain.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.task, nil
}

// newJSONContext builds an echo context carrying a JSON body, with the
// validator installed the way the router does it.
func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate injects the context values the auth middleware would set.
func authenticate(c echo.Context, user *domain.User) {
	c.Set("user", user)
	c.Set("token", "session-token")
}

func testUser() *domain.User {
	return &domain.User{ID: "user_1", Name: "Harry", Email: "h@example.com", Age: 30}
}

func assertHTTPError(t *testing.T, err error, code int, message string) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d", code, he.Code)
	}
	if message != "" && he.Message != message {
		t.Fatalf("expected message %q, got %v", message, he.Message)
	}
}
