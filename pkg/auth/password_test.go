package auth

import (
	"testing"
)

func TestHashPassword_NonDeterministic(t *testing.T) {
	h1, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if h1 == h2 {
		t.Error("Expected two hashes of the same password to differ")
	}

	if !CheckPassword("Passw0rd!", h1) {
		t.Error("Expected first hash to verify")
	}
	if !CheckPassword("Passw0rd!", h2) {
		t.Error("Expected second hash to verify")
	}
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if CheckPassword("wrong-password", hash) {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	// A corrupt stored hash must fail closed, not panic
	malformed := []string{
		"",
		"not-a-bcrypt-hash",
		"$2a$10$tooshort",
	}

	for _, hash := range malformed {
		if CheckPassword("Passw0rd!", hash) {
			t.Errorf("Expected malformed hash %q to fail verification", hash)
		}
	}
}
