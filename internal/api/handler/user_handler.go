package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-manager/internal/api/metrics"
	"github.com/taskforge/task-manager/internal/core/domain"
	"github.com/taskforge/task-manager/internal/core/ports"
	"github.com/taskforge/task-manager/internal/pkg/avatar"
)

// UserHandler handles registration, sessions, profile, and avatar routes.
type UserHandler struct {
	auth  ports.AuthService
	users ports.UserService
}

func NewUserHandler(auth ports.AuthService, users ports.UserService) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

// profileUpdateFields is the allow-list for PATCH /users/me. Any other key
// rejects the whole update.
var profileUpdateFields = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// Register creates a new account and opens its first session.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

// Login opens an additional session for an existing account.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		result := "failure"
		if err == domain.ErrTooManyLoginAttempts {
			result = "throttled"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

// Logout revokes the session token this request authenticated with.
//
// @Summary      Logout the current session
// @Tags         users
// @Security     BearerAuth
// @Success      200
// @Failure      401  {object}  map[string]string
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	user, token, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request().Context(), user.ID, token); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// LogoutAll revokes every session of the requester.
//
// @Summary      Logout all sessions
// @Tags         users
// @Security     BearerAuth
// @Success      200
// @Failure      401  {object}  map[string]string
// @Router       /users/logoutAll [post]
func (h *UserHandler) LogoutAll(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.auth.LogoutAll(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Me returns the requester's redacted profile.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe applies a partial profile update. The body keys must be a subset
// of {name, email, password, age}; a stray key rejects the whole update
// before anything is mutated.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      400  {object}  map[string]string
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	for key := range raw {
		if !profileUpdateFields[key] {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid updates")
		}
	}

	var update ports.ProfileUpdate
	if v, ok := raw["name"]; ok {
		if update.Name, err = decodeString(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	if v, ok := raw["email"]; ok {
		if update.Email, err = decodeString(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	if v, ok := raw["password"]; ok {
		if update.Password, err = decodeString(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	if v, ok := raw["age"]; ok {
		var age int
		if err := json.Unmarshal(v, &age); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		update.Age = &age
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), user, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteMe removes the account, its tasks, and returns the deleted profile.
//
// @Summary      Delete own account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteAccount(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UploadAvatar stores a normalized avatar from the "avatar" multipart field.
// Oversized payloads, wrong extensions, and undecodable images are all
// client errors, never a 500.
//
// @Summary      Upload avatar
// @Tags         users
// @Accept       multipart/form-data
// @Security     BearerAuth
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /users/me/avatar [post]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}
	if !avatar.AllowedExtension(file.Filename) {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "please upload an image")
	}
	if file.Size > avatar.MaxUploadBytes {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	// Size comes from the multipart header; re-check while reading.
	data, err := io.ReadAll(io.LimitReader(src, avatar.MaxUploadBytes+1))
	if err != nil {
		return err
	}
	if len(data) > avatar.MaxUploadBytes {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	if err := h.users.SetAvatar(c.Request().Context(), user.ID, data); err != nil {
		if domain.IsValidation(err) {
			metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	metrics.AvatarUploadsTotal.WithLabelValues("success").Inc()
	return c.NoContent(http.StatusOK)
}

// DeleteAvatar clears the stored avatar bytes.
//
// @Summary      Delete avatar
// @Tags         users
// @Security     BearerAuth
// @Success      200
// @Failure      401  {object}  map[string]string
// @Router       /users/me/avatar [delete]
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.users.ClearAvatar(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// GetAvatar serves any user's avatar by id. A missing user and a missing
// avatar are both a bare 404.
//
// @Summary      Get a user's avatar
// @Tags         users
// @Produce      png
// @Param        id  path  string  true  "User id"
// @Success      200
// @Failure      404
// @Router       /users/{id}/avatar [get]
func (h *UserHandler) GetAvatar(c echo.Context) error {
	data, err := h.users.GetAvatar(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

func decodeString(raw json.RawMessage) (*string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
