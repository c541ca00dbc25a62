package utils

import (
	"errors"
	"strings"
)

// ErrInvalidPhone is returned when a phone number does not match the
// expected national format.
var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone converts a raw phone number into the canonical
// +7XXXXXXXXXX form. Accepted inputs are 10 national digits, or 11
// digits starting with 7 or 8, with optional +, spaces, dashes and
// parentheses. Any other character or length fails.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
			// separator, skip
		default:
			return "", ErrInvalidPhone
		}
	}

	number := digits.String()
	switch {
	case len(number) == 11 && number[0] == '7':
	case len(number) == 11 && number[0] == '8':
		number = "7" + number[1:]
	case len(number) == 10:
		number = "7" + number
	default:
		return "", ErrInvalidPhone
	}

	return "+" + number, nil
}
