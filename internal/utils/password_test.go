package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Password123", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if hash == "Password123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPasswordHash("Password123", hash) {
		t.Error("correct password should verify")
	}
	if CheckPasswordHash("WrongPassword", hash) {
		t.Error("wrong password should not verify")
	}
}
