package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-manager/internal/core/domain"
)

// Context keys set on success. Handlers read the user entity and the raw
// token (logout needs the exact token string to revoke that one session).
const (
	ContextKeyUser  = "user"
	ContextKeyToken = "token"
)

// TokenParser verifies a bearer token and returns the bound user id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// SessionResolver resolves a user only when the token is still in the
// user's session list.
type SessionResolver interface {
	FindByIDAndToken(ctx context.Context, id, token string) (*domain.User, error)
}

// Auth validates the bearer token and injects the resolved user and the raw
// token into the request context. Missing header, malformed header, bad
// signature, and revoked token all produce the same 401 so no internal
// distinction leaks.
func Auth(tokens TokenParser, users SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return unauthenticated()
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthenticated()
			}
			token := parts[1]

			userID, err := tokens.Parse(token)
			if err != nil {
				return unauthenticated()
			}

			user, err := users.FindByIDAndToken(c.Request().Context(), userID, token)
			if err != nil {
				return unauthenticated()
			}

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyToken, token)

			return next(c)
		}
	}
}

func unauthenticated() error {
	return echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate")
}
