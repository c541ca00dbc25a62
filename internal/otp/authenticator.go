package otp

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/example/aviaclub/internal/utils"
)

// codeDigits is the fixed width of generated codes.
const codeDigits = 4

// Sender delivers a code out-of-band. Delivery is best-effort: the
// request flow never waits on it or fails because of it.
type Sender interface {
	SendVerificationCode(phone, code string) error
}

// Authenticator drives the request/verify code flow against a
// CodeStore.
type Authenticator struct {
	store  CodeStore
	sender Sender
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthenticator constructs an Authenticator. sender may be nil, in
// which case codes are stored but not delivered.
func NewAuthenticator(store CodeStore, sender Sender, ttl time.Duration) *Authenticator {
	return &Authenticator{
		store:  store,
		sender: sender,
		ttl:    ttl,
		now:    time.Now,
	}
}

// RequestCode generates and stores a fresh code for the phone,
// overwriting any prior live code, and dispatches it in the
// background. Returns the canonical phone form. A delivery failure is
// logged, never surfaced.
func (a *Authenticator) RequestCode(ctx context.Context, rawPhone string) (string, error) {
	phone, err := utils.NormalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	code := GenerateCode()
	stored := StoredCode{
		Code:      code,
		ExpiresAt: a.now().Add(a.ttl),
	}

	if err := a.store.Put(ctx, phone, stored); err != nil {
		return "", err
	}

	if a.sender != nil {
		go func() {
			if err := a.sender.SendVerificationCode(phone, code); err != nil {
				log.Printf("[OTP] code delivery to %s failed: %v", phone, err)
			}
		}()
	}

	return phone, nil
}

// VerifyCode checks the submitted code against the stored one and
// consumes it on success, so a code verifies at most once. An expired
// code is deleted on the spot and is not usable afterwards even if
// resubmitted. A mismatch leaves the stored code in place.
func (a *Authenticator) VerifyCode(ctx context.Context, rawPhone, submitted string) (string, error) {
	phone, err := utils.NormalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	stored, err := a.store.Get(ctx, phone)
	if err != nil {
		return "", err
	}

	if a.now().After(stored.ExpiresAt) {
		if err := a.store.Delete(ctx, phone); err != nil {
			log.Printf("[OTP] failed to delete expired code for %s: %v", phone, err)
		}
		return "", ErrCodeExpired
	}

	if stored.Code != submitted {
		return "", ErrCodeMismatch
	}

	// Consume atomically; a concurrent verify for the same phone can
	// win the race, in which case this attempt reports not found.
	consumed, ok, err := a.store.Consume(ctx, phone)
	if err != nil {
		return "", err
	}
	if !ok || consumed.Code != submitted {
		return "", ErrCodeNotFound
	}

	return phone, nil
}

// GenerateCode returns a fixed-width numeric code. Codes are short
// delivery secrets, not cryptographic material.
func GenerateCode() string {
	return fmt.Sprintf("%0*d", codeDigits, rand.Intn(10000))
}
