package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidRole = errors.New("invalid role")
var ErrCodeExists = errors.New("access code already exists")
var ErrInvalidDuration = errors.New("duration must be a positive number of hours")
var ErrCodeInvalid = errors.New("invalid or expired code")
var ErrForbidden = errors.New("access forbidden")

// CodeLength is the fixed length of a generated access code.
const CodeLength = 5

// AccessCode is a short shareable credential granting gate access without a
// full account. Codes are multi-use until expiry; expiry is checked at
// validation time, expired records are never purged by the core.
type AccessCode struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Note      string    `json:"note,omitempty"`
	CreatedBy string    `json:"created_by"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidAt reports whether the code grants access at instant t.
// Validity requires ExpiresAt strictly after t: a code whose expiry
// equals the current instant is already expired.
func (a *AccessCode) ValidAt(t time.Time) bool {
	return a.ExpiresAt.After(t)
}

// Remaining returns the validity left at instant t. Zero or negative
// means expired.
func (a *AccessCode) Remaining(t time.Time) time.Duration {
	return a.ExpiresAt.Sub(t)
}
