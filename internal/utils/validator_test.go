package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last+tag@sub.example.co",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"bob", "alice_92", "a_b_c"}
	for _, name := range valid {
		if !ValidateUsername(name) {
			t.Errorf("ValidateUsername(%q) = false, want true", name)
		}
	}

	invalid := []string{"", "ab", "has space", "dash-ed", "ünïcode"}
	for _, name := range invalid {
		if ValidateUsername(name) {
			t.Errorf("ValidateUsername(%q) = true, want false", name)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("short") {
		t.Error("seven chars or fewer should be rejected")
	}
	if !ValidatePassword("longenough") {
		t.Error("eight or more chars should be accepted")
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("SanitizeEmail = %q", got)
	}
}

func TestSanitizeUsername(t *testing.T) {
	if got := SanitizeUsername(" Alice_92 "); got != "alice_92" {
		t.Errorf("SanitizeUsername = %q", got)
	}
}
