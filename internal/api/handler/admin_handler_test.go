package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/portway/gatekeeper/internal/core/domain"
)

type stubUserService struct {
	createFn func(ctx context.Context, username, password, role string) (*domain.User, error)
	roles    map[string]string
	deleted  []string
}

func (s *stubUserService) Create(ctx context.Context, username, password, role string) (*domain.User, error) {
	return s.createFn(ctx, username, password, role)
}

func (s *stubUserService) List(_ context.Context) ([]*domain.User, error) { return nil, nil }

func (s *stubUserService) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubUserService) SetRole(_ context.Context, id, role string) error {
	if s.roles == nil {
		s.roles = make(map[string]string)
	}
	s.roles[id] = role
	return nil
}

func TestAdminHandler_Create(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	created := false
	users := &stubUserService{
		createFn: func(_ context.Context, username, password, role string) (*domain.User, error) {
			if username != "carol" || password != "hunter2" || role != domain.RoleTrustedUser {
				t.Fatalf("unexpected args: %s %s %s", username, password, role)
			}
			created = true
			return &domain.User{Username: username, Role: role}, nil
		},
	}
	h := NewAdminHandler(users)

	form := url.Values{"username": {"carol"}, "password": {"hunter2"}, "role": {"trusted_user"}}
	req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if !created {
		t.Fatalf("create was never called")
	}
}

func TestAdminHandler_Create_RejectsUnknownRole(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	users := &stubUserService{
		createFn: func(_ context.Context, _, _, _ string) (*domain.User, error) {
			t.Fatalf("create must not be called with an unknown role")
			return nil, nil
		},
	}
	h := NewAdminHandler(users)

	req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(`{"username":"carol","password":"x","role":"superuser"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminHandler_Delete(t *testing.T) {
	e := echo.New()
	users := &stubUserService{}
	h := NewAdminHandler(users)

	req := httptest.NewRequest(http.MethodPost, "/delete_user/u1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if len(users.deleted) != 1 || users.deleted[0] != "u1" {
		t.Fatalf("unexpected deletions: %v", users.deleted)
	}
}

func TestAdminHandler_ChangeRole(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	users := &stubUserService{}
	h := NewAdminHandler(users)

	form := url.Values{"role": {"admin"}}
	req := httptest.NewRequest(http.MethodPost, "/change_role/u1", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.ChangeRole(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if users.roles["u1"] != domain.RoleAdmin {
		t.Fatalf("unexpected role map: %v", users.roles)
	}
}
