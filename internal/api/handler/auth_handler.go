package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/portway/gatekeeper/internal/api/metrics"
	"github.com/portway/gatekeeper/internal/api/middleware"
	"github.com/portway/gatekeeper/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login authenticates a user, sets the session cookie, and redirects home.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Param        body  body  loginRequest  true  "Credentials"
// @Success      303
// @Failure      401  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}

	session, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"message": "Login unsuccessful. Please check username and password",
		})
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout revokes the current session and redirects to the login page.
//
// @Summary      Log out
// @Tags         auth
// @Security     SessionCookie
// @Success      303
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), id.SessionID, id.ExpiresAt); err != nil {
		return err
	}

	// Expire the cookie client-side as well.
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})

	return c.Redirect(http.StatusSeeOther, "/login")
}

// Home identifies the logged-in caller; the landing target after login.
//
// @Summary      Current session
// @Tags         auth
// @Security     SessionCookie
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *AuthHandler) Home(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"username": id.Username,
		"role":     id.Role,
	})
}
