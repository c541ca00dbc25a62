package utils

import (
	"errors"
	"testing"
)

func TestNormalizePhoneAcceptedForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+79001234567", "+79001234567"},
		{"79001234567", "+79001234567"},
		{"89001234567", "+79001234567"},
		{"9001234567", "+79001234567"},
		{"8 (900) 123-45-67", "+79001234567"},
		{"+7 900 123 45 67", "+79001234567"},
		{"+70000000002", "+70000000002"},
	}

	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		if err != nil {
			t.Fatalf("NormalizePhone(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"abc",
		"+7900123456",      // too short
		"+790012345678",    // too long
		"99001234567",      // 11 digits, bad prefix
		"+7900123456x",     // stray letter
		"user@example.com", // not a phone at all
	}

	for _, in := range cases {
		if _, err := NormalizePhone(in); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("NormalizePhone(%q): expected ErrInvalidPhone, got %v", in, err)
		}
	}
}
