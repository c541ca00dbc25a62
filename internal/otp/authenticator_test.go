package otp

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/example/aviaclub/internal/utils"
)

func newTestAuthenticator() (*Authenticator, *MemoryStore) {
	store := NewMemoryStore()
	return NewAuthenticator(store, nil, 5*time.Minute), store
}

func TestGenerateCodeIsFourDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{4}$`)
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		if !pattern.MatchString(code) {
			t.Fatalf("expected 4-digit code, got %q", code)
		}
	}
}

func TestRequestCodeRejectsInvalidPhone(t *testing.T) {
	a, _ := newTestAuthenticator()
	if _, err := a.RequestCode(context.Background(), "not-a-phone"); !errors.Is(err, utils.ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestRequestCodeStoresCanonicalPhone(t *testing.T) {
	a, store := newTestAuthenticator()

	phone, err := a.RequestCode(context.Background(), "8 (900) 123-45-67")
	if err != nil {
		t.Fatalf("RequestCode returned error: %v", err)
	}
	if phone != "+79001234567" {
		t.Fatalf("expected canonical phone +79001234567, got %q", phone)
	}

	if _, err := store.Get(context.Background(), phone); err != nil {
		t.Fatalf("expected stored code under canonical phone, got %v", err)
	}
}

func TestVerifyCodeSucceedsExactlyOnce(t *testing.T) {
	a, store := newTestAuthenticator()
	ctx := context.Background()

	phone, err := a.RequestCode(ctx, "+79001234567")
	if err != nil {
		t.Fatalf("RequestCode returned error: %v", err)
	}

	stored, err := store.Get(ctx, phone)
	if err != nil {
		t.Fatalf("stored code missing: %v", err)
	}

	got, err := a.VerifyCode(ctx, phone, stored.Code)
	if err != nil {
		t.Fatalf("first verification failed: %v", err)
	}
	if got != phone {
		t.Fatalf("expected phone %q, got %q", phone, got)
	}

	if _, err := a.VerifyCode(ctx, phone, stored.Code); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound on second attempt, got %v", err)
	}
}

func TestVerifyCodeMismatchKeepsCodeLive(t *testing.T) {
	a, store := newTestAuthenticator()
	ctx := context.Background()

	phone, err := a.RequestCode(ctx, "+79001234567")
	if err != nil {
		t.Fatalf("RequestCode returned error: %v", err)
	}

	stored, _ := store.Get(ctx, phone)
	wrong := "0000"
	if wrong == stored.Code {
		wrong = "0001"
	}

	if _, err := a.VerifyCode(ctx, phone, wrong); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}

	// The correct code still works after a failed attempt.
	if _, err := a.VerifyCode(ctx, phone, stored.Code); err != nil {
		t.Fatalf("expected correct code to remain usable, got %v", err)
	}
}

func TestVerifyCodeExpiryConsumesCode(t *testing.T) {
	a, store := newTestAuthenticator()
	ctx := context.Background()

	phone, err := a.RequestCode(ctx, "+79001234567")
	if err != nil {
		t.Fatalf("RequestCode returned error: %v", err)
	}
	stored, _ := store.Get(ctx, phone)

	a.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	if _, err := a.VerifyCode(ctx, phone, stored.Code); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}

	// The expiry check deleted the record; resubmitting the same code
	// must not revive it.
	if _, err := a.VerifyCode(ctx, phone, stored.Code); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound after expiry, got %v", err)
	}
}

func TestRequestCodeOverwritesPriorCode(t *testing.T) {
	a, store := newTestAuthenticator()
	ctx := context.Background()

	phone, _ := a.RequestCode(ctx, "+79001234567")
	first, _ := store.Get(ctx, phone)

	// Force a different second code so the overwrite is observable.
	for {
		if _, err := a.RequestCode(ctx, phone); err != nil {
			t.Fatalf("RequestCode returned error: %v", err)
		}
		second, _ := store.Get(ctx, phone)
		if second.Code != first.Code {
			break
		}
	}

	if _, err := a.VerifyCode(ctx, phone, first.Code); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected stale code to mismatch, got %v", err)
	}
}

func TestMemoryStoreConsumeIsSingleShot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	stored := StoredCode{Code: "1234", ExpiresAt: time.Now().Add(time.Minute)}
	if err := store.Put(ctx, "+79001234567", stored); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, ok, err := store.Consume(ctx, "+79001234567")
	if err != nil || !ok {
		t.Fatalf("expected first consume to succeed, got ok=%v err=%v", ok, err)
	}
	if got.Code != "1234" {
		t.Fatalf("expected code 1234, got %q", got.Code)
	}

	if _, ok, _ := store.Consume(ctx, "+79001234567"); ok {
		t.Fatal("expected second consume to miss")
	}
}
