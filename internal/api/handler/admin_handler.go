package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portway/gatekeeper/internal/core/domain"
	"github.com/portway/gatekeeper/internal/core/ports"
)

// AdminHandler manages user accounts. Every route is admin-gated before
// these methods run.
type AdminHandler struct {
	users ports.UserService
}

func NewAdminHandler(users ports.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type createUserRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role" validate:"required,oneof=admin trusted_user user"`
}

type changeRoleRequest struct {
	Role string `json:"role" form:"role" validate:"required,oneof=admin trusted_user user"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
}

// List shows all accounts.
//
// @Summary      List users
// @Tags         admin
// @Security     SessionCookie
// @Produce      json
// @Success      200  {object}  userListResponse
// @Router       /admin [get]
func (h *AdminHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users})
}

// Create adds an account and returns to the user list.
//
// @Summary      Create a user
// @Tags         admin
// @Security     SessionCookie
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Param        body  body  createUserRequest  true  "New account"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin [post]
func (h *AdminHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if _, err := h.users.Create(c.Request().Context(), req.Username, req.Password, req.Role); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/admin")
}

// Delete removes an account. Unknown ids are a silent no-op, and codes the
// account created stay valid.
//
// @Summary      Delete a user
// @Tags         admin
// @Security     SessionCookie
// @Param        id  path  string  true  "User id"
// @Success      303
// @Router       /delete_user/{id} [post]
func (h *AdminHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}

// ChangeRole reassigns an account's role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Security     SessionCookie
// @Param        id    path  string             true  "User id"
// @Param        body  body  changeRoleRequest  true  "New role"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Router       /change_role/{id} [post]
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.users.SetRole(c.Request().Context(), c.Param("id"), req.Role); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/admin")
}
