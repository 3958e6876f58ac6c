package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-manager/internal/core/domain"
)

// ctxUser extracts the user entity and raw token injected by the Auth
// middleware. Their presence proves the middleware ran; a protected handler
// reached without them fails closed with 401.
func ctxUser(c echo.Context) (*domain.User, string, error) {
	user, _ := c.Get("user").(*domain.User)
	token, _ := c.Get("token").(string)
	if user == nil || token == "" {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate")
	}
	return user, token, nil
}
