package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/portway/gatekeeper/internal/core/ports"
)

// SessionCookie is the cookie carrying the session token for browser clients.
// API clients may send the same token as a bearer header instead.
const SessionCookie = "session"

// Auth validates the session token and injects its claims into context.
// Authentication failures are 401s, deliberately distinct from the 403 a
// role mismatch produces in RBAC; both run before any handler logic.
func Auth(jwtSecret string, sessions ports.SessionRevoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := extractToken(c)
			if err != nil {
				return err
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			sessionID, _ := claims["jti"].(string)
			if sessions != nil && sessionID != "" {
				revoked, err := sessions.IsRevoked(c.Request().Context(), sessionID)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "session check failed")
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "session terminated")
				}
			}

			c.Set("uid", claims["uid"])
			c.Set("username", claims["username"])
			c.Set("role", claims["role"])
			c.Set("session_id", sessionID)
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				c.Set("session_exp", exp.Time)
			} else {
				c.Set("session_exp", time.Time{})
			}

			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		return parts[1], nil
	}

	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return cookie.Value, nil
}
