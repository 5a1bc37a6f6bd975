package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// identity is what the Auth middleware established about the caller.
type identity struct {
	UserID    string
	Username  string
	Role      string
	SessionID string
	ExpiresAt time.Time
}

// ctxIdentity extracts the auth claims injected by the Auth middleware and
// fast-fails before any service call: a missing role means the middleware
// never ran for this route, which is a wiring bug surfaced as a 401 rather
// than an unauthenticated pass-through.
func ctxIdentity(c echo.Context) (identity, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	id := identity{Role: role}
	id.UserID, _ = c.Get("uid").(string)
	id.Username, _ = c.Get("username").(string)
	id.SessionID, _ = c.Get("session_id").(string)
	id.ExpiresAt, _ = c.Get("session_exp").(time.Time)
	return id, nil
}
