package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/portway/gatekeeper/internal/core/domain"
	"github.com/portway/gatekeeper/internal/core/ports"
	"github.com/portway/gatekeeper/pkg/logger"
)

type stubCodeRepo struct {
	codes  map[string]*domain.AccessCode // keyed by id
	nextID int
	// failNextCreates forces this many ErrCodeExists results before
	// creates succeed again, to exercise collision retries.
	failNextCreates int
	createCalls     int
}

func newStubCodeRepo() *stubCodeRepo {
	return &stubCodeRepo{codes: make(map[string]*domain.AccessCode)}
}

func cloneCode(c *domain.AccessCode) *domain.AccessCode {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCodeRepo) Create(_ context.Context, code *domain.AccessCode) (*domain.AccessCode, error) {
	r.createCalls++
	if r.failNextCreates > 0 {
		r.failNextCreates--
		return nil, domain.ErrCodeExists
	}
	for _, existing := range r.codes {
		if existing.Code == code.Code {
			return nil, domain.ErrCodeExists
		}
	}
	copy := cloneCode(code)
	r.nextID++
	copy.ID = string(rune('0' + r.nextID))
	r.codes[copy.ID] = cloneCode(copy)
	return cloneCode(copy), nil
}

func (r *stubCodeRepo) FindByCode(_ context.Context, code string) (*domain.AccessCode, error) {
	for _, c := range r.codes {
		if c.Code == code {
			return cloneCode(c), nil
		}
	}
	return nil, domain.ErrCodeInvalid
}

func (r *stubCodeRepo) List(_ context.Context) ([]*domain.AccessCode, error) {
	out := make([]*domain.AccessCode, 0, len(r.codes))
	for _, c := range r.codes {
		out = append(out, cloneCode(c))
	}
	return out, nil
}

func (r *stubCodeRepo) Delete(_ context.Context, id string) error {
	delete(r.codes, id)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAccessService_IssueAndValidate(t *testing.T) {
	repo := newStubCodeRepo()
	svc := NewAccessService(repo, logger.Nop())
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(start)

	issued, err := svc.Issue(context.Background(), ports.IssueCodeInput{
		CreatorID:     "u1",
		DurationHours: 1,
		Note:          "test",
	})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if !issued.ExpiresAt.Equal(start.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", issued.ExpiresAt)
	}

	v, err := svc.Validate(context.Background(), issued.Code)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if v.Remaining != time.Hour {
		t.Fatalf("expected 1h remaining, got %v", v.Remaining)
	}
	if v.Code.Note != "test" {
		t.Fatalf("unexpected note: %q", v.Code.Note)
	}

	// Fast-forward two hours: the code must now be expired.
	svc.now = fixedClock(start.Add(2 * time.Hour))
	if _, err := svc.Validate(context.Background(), issued.Code); err != domain.ErrCodeInvalid {
		t.Fatalf("expected ErrCodeInvalid after expiry, got %v", err)
	}
}

func TestAccessService_ExpiryBoundaryIsExpired(t *testing.T) {
	repo := newStubCodeRepo()
	svc := NewAccessService(repo, logger.Nop())
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(start)

	issued, err := svc.Issue(context.Background(), ports.IssueCodeInput{CreatorID: "u1", DurationHours: 1})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Validity requires expires_at strictly after now.
	svc.now = fixedClock(start.Add(time.Hour))
	if _, err := svc.Validate(context.Background(), issued.Code); err != domain.ErrCodeInvalid {
		t.Fatalf("expected ErrCodeInvalid at exact expiry instant, got %v", err)
	}
}

func TestAccessService_GeneratedCodeShape(t *testing.T) {
	repo := newStubCodeRepo()
	svc := NewAccessService(repo, logger.Nop())

	for i := 0; i < 50; i++ {
		issued, err := svc.Issue(context.Background(), ports.IssueCodeInput{CreatorID: "u1", DurationHours: 1})
		if err != nil {
			t.Fatalf("issue %d failed: %v", i, err)
		}
		if len(issued.Code) != domain.CodeLength {
			t.Fatalf("expected %d chars, got %q", domain.CodeLength, issued.Code)
		}
		for _, ch := range issued.Code {
			if !strings.ContainsRune(codeAlphabet, ch) {
				t.Fatalf("code %q contains %q outside [A-Z0-9]", issued.Code, ch)
			}
		}
	}
}

func TestAccessService_ValidateIsPureRead(t *testing.T) {
	repo := newStubCodeRepo()
	svc := NewAccessService(repo, logger.Nop())

	issued, err := svc.Issue(context.Background(), ports.IssueCodeInput{CreatorID: "u1", DurationHours: 1})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Codes are not single-use: every check before expiry succeeds.
	for i := 0; i < 3; i++ {
		if _, err := svc.Validate(context.Background(), issued.Code); err != nil {
			t.Fatalf("validation %d failed: %v", i+1, err)
		}
	}
}

func TestAccessService_CollisionRetry(t *testing.T) {
	repo := newStubCodeRepo()
	repo.failNextCreates = 2
	svc := NewAccessService(repo, logger.Nop())

	issued, err := svc.Issue(context.Background(), ports.IssueCodeInput{CreatorID: "u1", DurationHours: 1})
	if err != nil {
		t.Fatalf("issue should survive two collisions, got %v", err)
	}
	if issued == nil || issued.Code == "" {
		t.Fatalf("expected a code after retries")
	}
	if repo.createCalls != 3 {
		t.Fatalf("expected 3 create attempts, got %d", repo.createCalls)
	}
}

func TestAccessService_CollisionExhaustion(t *testing.T) {
	repo := newStubCodeRepo()
	repo.failNextCreates = codeIssueAttempts
	svc := NewAccessService(repo, logger.Nop())

	if _, err := svc.Issue(context.Background(), ports.IssueCodeInput{CreatorID: "u1", DurationHours: 1}); err != domain.ErrCodeExists {
		t.Fatalf("expected ErrCodeExists after exhausting retries, got %v", err)
	}
}

func TestAccessService_ExplicitCodeNoRetry(t *testing.T) {
	repo := newStubCodeRepo()
	svc := NewAccessService(repo, logger.Nop())

	if _, err := svc.Issue(context.Background(), ports.IssueCodeInput{CreatorID: "u1", DurationHours: 1, ExplicitCode: "GATE1"}); err != nil {
		t.Fatalf("explicit issue failed: %v", err)
	}
	if _, err := svc.Issue(context.Background(), ports.IssueCodeInput{CreatorID: "u2", DurationHours: 1, ExplicitCode: "GATE1"}); err != domain.ErrCodeExists {
		t.Fatalf("expected ErrCodeExists for duplicate explicit code, got %v", err)
	}
	if repo.createCalls != 2 {
		t.Fatalf("explicit codes must not retry, got %d create attempts", repo.createCalls)
	}
}

func TestAccessService_InvalidDuration(t *testing.T) {
	svc := NewAccessService(newStubCodeRepo(), logger.Nop())

	if _, err := svc.Issue(context.Background(), ports.IssueCodeInput{CreatorID: "u1", DurationHours: 0}); err != domain.ErrInvalidDuration {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestAccessService_RevokeIdempotent(t *testing.T) {
	repo := newStubCodeRepo()
	svc := NewAccessService(repo, logger.Nop())

	issued, err := svc.Issue(context.Background(), ports.IssueCodeInput{CreatorID: "u1", DurationHours: 1})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if err := svc.Revoke(context.Background(), issued.ID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := svc.Validate(context.Background(), issued.Code); err != domain.ErrCodeInvalid {
		t.Fatalf("revoked code should be invalid, got %v", err)
	}
	// Revoking again, or revoking an unknown id, is a no-op.
	if err := svc.Revoke(context.Background(), issued.ID); err != nil {
		t.Fatalf("second revoke should be a no-op, got %v", err)
	}
	if err := svc.Revoke(context.Background(), "never-existed"); err != nil {
		t.Fatalf("revoking an unknown id should be a no-op, got %v", err)
	}
}
