package validation

import (
	"os"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"  user@example.com  ", true},
		{"user+tag@example.co.uk", true},
		{"", false},
		{"not-an-email", false},
		{"@example.com", false},
		{"user@", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := ValidateEmail(tt.email); got != tt.want {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"al", false},
		{"alice_99", true},
		{"ALICE", true},
		{strings.Repeat("a", 32), true},
		{strings.Repeat("a", 33), false},
		{"bad name", false},
		{"bad-name", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			if got := ValidateUsername(tt.username); got != tt.want {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	if got := NormalizeUsername("  ALICE "); got != "alice" {
		t.Errorf("NormalizeUsername = %q, want alice", got)
	}
}

func TestValidatePassword(t *testing.T) {
	os.Setenv("PASSWORD_MIN_LENGTH", "12")
	defer os.Unsetenv("PASSWORD_MIN_LENGTH")

	if ValidatePassword("elevenchars") {
		t.Error("password below configured minimum accepted")
	}
	if !ValidatePassword("twelve-chars") {
		t.Error("password at configured minimum rejected")
	}
}

func TestPasswordMinLengthFloor(t *testing.T) {
	os.Setenv("PASSWORD_MIN_LENGTH", "2")
	defer os.Unsetenv("PASSWORD_MIN_LENGTH")

	// Values under the floor fall back to the default.
	if got := PasswordMinLength(); got != 10 {
		t.Errorf("PasswordMinLength = %d, want default 10", got)
	}
}

func TestTrimAndLimit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"Trims whitespace", "  hello  ", 100, "hello"},
		{"Truncates", "abcdef", 3, "abc"},
		{"Whitespace only", " \n\t ", 100, ""},
		{"No limit", "abc", 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndLimit(tt.in, tt.max); got != tt.want {
				t.Errorf("TrimAndLimit(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
