package utils

import "testing"

func TestHashPasswordVerifies(t *testing.T) {
	hash, err := HashPassword("user1pass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "user1pass" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "user1pass") {
		t.Fatal("expected correct password to verify")
	}
	if CheckPassword(hash, "wrongpass") {
		t.Fatal("expected wrong password to fail")
	}
}
