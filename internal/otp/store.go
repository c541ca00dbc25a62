// Package otp implements the SMS one-time-code flow: code generation,
// keyed storage with expiry, and single-use consumption.
package otp

import (
	"context"
	"errors"
	"time"
)

// Verification failure modes. Handlers map these to HTTP statuses.
var (
	ErrCodeNotFound = errors.New("verification code not found")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeMismatch = errors.New("verification code mismatch")
)

// StoredCode is the value kept per phone. The expiry lives in the
// value rather than relying on store-side TTL alone, so an expired
// code is reported as expired instead of silently vanishing.
type StoredCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CodeStore keeps at most one live code per phone. Put overwrites any
// prior entry. Consume removes and returns the entry in one step so
// that two concurrent verifications cannot both succeed.
type CodeStore interface {
	Put(ctx context.Context, phone string, code StoredCode) error
	Get(ctx context.Context, phone string) (StoredCode, error)
	Consume(ctx context.Context, phone string) (StoredCode, bool, error)
	Delete(ctx context.Context, phone string) error
}
