package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/portway/gatekeeper/internal/api/metrics"
	"github.com/portway/gatekeeper/internal/core/domain"
	"github.com/portway/gatekeeper/internal/core/ports"
)

// unlimitedThreshold is the remaining validity beyond which the response stops
// reporting time left: the code is effectively unlimited from the visitor's
// point of view. Reporting nuance only, not an authorization rule.
const unlimitedThreshold = 30 * 24 * time.Hour

// GateHandler drives the actuator for both authenticated users and visitors
// presenting a shareable code.
type GateHandler struct {
	gate   ports.GateService
	access ports.AccessService
}

func NewGateHandler(gate ports.GateService, access ports.AccessService) *GateHandler {
	return &GateHandler{gate: gate, access: access}
}

type openResponse struct {
	Message  string `json:"message"`
	Response string `json:"response"`
	TimeLeft string `json:"time_left,omitempty"`
}

// Open actuates the gate for a logged-in user.
//
// @Summary      Open the gate
// @Tags         gate
// @Security     SessionCookie
// @Produce      json
// @Success      200  {object}  openResponse
// @Router       /open [post]
func (h *GateHandler) Open(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.actuate(c, id.Username)
	if err != nil {
		return err
	}

	// Hardware failure rides in the body as the sentinel; the HTTP status
	// stays 200 for compatibility with existing callers.
	return c.JSON(http.StatusOK, openResponse{Message: "Gate opened", Response: result.Response})
}

// CodePage echoes the code back so a shared link can prefill the visitor
// page. No validation happens on GET.
//
// @Summary      Code entry page data
// @Tags         gate
// @Produce      json
// @Param        code  path  string  false  "Access code"
// @Success      200  {object}  map[string]string
// @Router       /code/{code} [get]
func (h *GateHandler) CodePage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"code": c.Param("code")})
}

// CodeOpen validates a shareable code and, when valid, actuates the gate.
//
// @Summary      Open the gate with an access code
// @Tags         gate
// @Produce      json
// @Param        code  path  string  false  "Access code"
// @Success      200  {object}  openResponse
// @Failure      401  {object}  map[string]string
// @Router       /code/{code} [post]
func (h *GateHandler) CodeOpen(c echo.Context) error {
	validation, err := h.access.Validate(c.Request().Context(), c.Param("code"))
	if err != nil {
		metrics.CodeValidationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid or expired code"})
	}
	metrics.CodeValidationsTotal.WithLabelValues("valid").Inc()

	result, err := h.actuate(c, codeActor(validation))
	if err != nil {
		return err
	}

	resp := openResponse{Message: "Gate opened", Response: result.Response}
	if validation.Remaining <= unlimitedThreshold {
		resp.TimeLeft = validation.Remaining.Truncate(time.Second).String()
	}
	return c.JSON(http.StatusOK, resp)
}

// Log shows the most recent actuation attempts, newest first.
//
// @Summary      Actuation log
// @Tags         gate
// @Security     SessionCookie
// @Produce      json
// @Param        limit  query  int  false  "Maximum entries"
// @Success      200  {object}  map[string][]domain.ActuationEntry
// @Router       /log [get]
func (h *GateHandler) Log(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.gate.Activity(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]*domain.ActuationEntry{"entries": entries})
}

func (h *GateHandler) actuate(c echo.Context, actor string) (*ports.GateOpenResult, error) {
	start := time.Now()
	result, err := h.gate.Open(c.Request().Context(), actor)
	if err != nil {
		return nil, err
	}
	metrics.ActuationDuration.Observe(time.Since(start).Seconds())
	if result.Failed {
		metrics.ActuationsTotal.WithLabelValues("error").Inc()
	} else {
		metrics.ActuationsTotal.WithLabelValues("ok").Inc()
	}
	return result, nil
}

// codeActor labels the audit entry for a code-based open: the code's note
// when one was set, otherwise the code itself.
func codeActor(v *ports.Validation) string {
	if v.Code.Note != "" {
		return v.Code.Note
	}
	return "code " + v.Code.Code
}
