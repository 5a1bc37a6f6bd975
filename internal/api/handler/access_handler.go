package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portway/gatekeeper/internal/core/domain"
	"github.com/portway/gatekeeper/internal/core/ports"
)

// AccessHandler manages shareable access codes. Every route is gated on the
// trusted_user|admin role set before these methods run.
type AccessHandler struct {
	access ports.AccessService
}

func NewAccessHandler(access ports.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

type grantRequest struct {
	Duration int    `json:"duration" form:"duration" validate:"required,gt=0"`
	Note     string `json:"note" form:"note"`
	Code     string `json:"code" form:"code" validate:"omitempty,len=5,alphanum"`
}

type codeListResponse struct {
	Codes []*domain.AccessCode `json:"codes"`
}

// List shows all codes, including expired ones still awaiting deletion.
//
// @Summary      List access codes
// @Tags         access
// @Security     SessionCookie
// @Produce      json
// @Success      200  {object}  codeListResponse
// @Router       /grant_access [get]
func (h *AccessHandler) List(c echo.Context) error {
	codes, err := h.access.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, codeListResponse{Codes: codes})
}

// Grant issues a new code and returns to the code list.
//
// @Summary      Issue an access code
// @Tags         access
// @Security     SessionCookie
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Param        body  body  grantRequest  true  "Duration in hours, optional note and explicit code"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /grant_access [post]
func (h *AccessHandler) Grant(c echo.Context) error {
	var req grantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if _, err := h.access.Issue(c.Request().Context(), ports.IssueCodeInput{
		CreatorID:     id.UserID,
		DurationHours: req.Duration,
		ExplicitCode:  req.Code,
		Note:          req.Note,
	}); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/grant_access")
}

// Delete revokes a code. Unknown ids are a silent no-op.
//
// @Summary      Revoke an access code
// @Tags         access
// @Security     SessionCookie
// @Param        id  path  string  true  "Code id"
// @Success      303
// @Router       /delete_code/{id} [post]
func (h *AccessHandler) Delete(c echo.Context) error {
	if err := h.access.Revoke(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/grant_access")
}
