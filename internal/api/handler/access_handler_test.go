package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/portway/gatekeeper/internal/core/domain"
	"github.com/portway/gatekeeper/internal/core/ports"
)

func newAccessContext(e *echo.Echo, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", domain.RoleTrustedUser)
	c.Set("username", "bob")
	c.Set("uid", "user-7")
	return c, rec
}

func TestAccessHandler_Grant(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	var got ports.IssueCodeInput
	access := &stubAccessService{
		issueFn: func(_ context.Context, in ports.IssueCodeInput) (*domain.AccessCode, error) {
			got = in
			return &domain.AccessCode{Code: "AB12C"}, nil
		},
	}
	h := NewAccessHandler(access)

	form := url.Values{"duration": {"48"}, "note": {"plumber visit"}}
	req := httptest.NewRequest(http.MethodPost, "/grant_access", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c, rec := newAccessContext(e, req)

	if err := h.Grant(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got.CreatorID != "user-7" || got.DurationHours != 48 || got.Note != "plumber visit" {
		t.Fatalf("unexpected issue input: %+v", got)
	}
	if got.ExplicitCode != "" {
		t.Fatalf("no explicit code was supplied, got %q", got.ExplicitCode)
	}
}

func TestAccessHandler_Grant_RejectsBadDuration(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	access := &stubAccessService{
		issueFn: func(_ context.Context, _ ports.IssueCodeInput) (*domain.AccessCode, error) {
			t.Fatalf("issue must not be called on a validation failure")
			return nil, nil
		},
	}
	h := NewAccessHandler(access)

	req := httptest.NewRequest(http.MethodPost, "/grant_access", strings.NewReader(`{"duration":-1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newAccessContext(e, req)

	if err := h.Grant(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccessHandler_Grant_RejectsMalformedExplicitCode(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewAccessHandler(&stubAccessService{})

	// Six characters: one too many.
	req := httptest.NewRequest(http.MethodPost, "/grant_access", strings.NewReader(`{"duration":24,"code":"AB12CD"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newAccessContext(e, req)

	if err := h.Grant(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccessHandler_List(t *testing.T) {
	e := echo.New()
	access := &stubAccessService{
		listed: []*domain.AccessCode{
			{ID: "1", Code: "AB12C", CreatedBy: "user-7", ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	h := NewAccessHandler(access)

	req := httptest.NewRequest(http.MethodGet, "/grant_access", nil)
	c, rec := newAccessContext(e, req)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Codes []*domain.AccessCode `json:"codes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Codes) != 1 || resp.Codes[0].Code != "AB12C" {
		t.Fatalf("unexpected codes: %+v", resp.Codes)
	}
}

func TestAccessHandler_Delete(t *testing.T) {
	e := echo.New()
	access := &stubAccessService{}
	h := NewAccessHandler(access)

	req := httptest.NewRequest(http.MethodPost, "/delete_code/abc123", nil)
	c, rec := newAccessContext(e, req)
	c.SetParamNames("id")
	c.SetParamValues("abc123")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if len(access.revoked) != 1 || access.revoked[0] != "abc123" {
		t.Fatalf("unexpected revocations: %v", access.revoked)
	}
}
