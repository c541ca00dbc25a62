package handlers

import "testing"

func TestFilterProfileUpdatesIgnoresUnknownKeys(t *testing.T) {
	updates := filterProfileUpdates(map[string]interface{}{
		"nonexistentField": "x",
		"password_hash":    "sneaky",
		"bonus_miles":      "9999",
	})
	if len(updates) != 0 {
		t.Fatalf("expected no recognized fields, got %v", updates)
	}
}

func TestFilterProfileUpdatesRemapsCardKeys(t *testing.T) {
	updates := filterProfileUpdates(map[string]interface{}{
		"cardNumber": "123456789012",
		"cardType":   "gold",
	})
	if updates["card_number"] != "123456789012" {
		t.Fatalf("expected cardNumber remapped to card_number, got %v", updates)
	}
	if updates["card_type"] != "gold" {
		t.Fatalf("expected cardType remapped to card_type, got %v", updates)
	}

	// The snake_case spellings land on the same columns.
	updates = filterProfileUpdates(map[string]interface{}{
		"card_number": "210987654321",
	})
	if updates["card_number"] != "210987654321" {
		t.Fatalf("expected card_number accepted as-is, got %v", updates)
	}
}

func TestFilterProfileUpdatesKeepsAllowListedFields(t *testing.T) {
	updates := filterProfileUpdates(map[string]interface{}{
		"fio":    "Ivanov Ivan Ivanovich",
		"dob":    "1990-04-12",
		"gender": "m",
		"email":  "ivanov@example.com",
	})
	if len(updates) != 4 {
		t.Fatalf("expected 4 recognized fields, got %v", updates)
	}
	if updates["fio"] != "Ivanov Ivan Ivanovich" {
		t.Fatalf("unexpected fio value: %v", updates["fio"])
	}
}

func TestFilterProfileUpdatesDropsNonStringValues(t *testing.T) {
	updates := filterProfileUpdates(map[string]interface{}{
		"fio":    42,
		"gender": nil,
		"dob":    "1990-04-12",
	})
	if len(updates) != 1 || updates["dob"] != "1990-04-12" {
		t.Fatalf("expected only dob to survive, got %v", updates)
	}
}
