package validation

import (
	"net/mail"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// NormalizeUsername lowercases so lookups and uniqueness are
// case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func ValidateUsername(username string) bool {
	return usernameRe.MatchString(NormalizeUsername(username))
}

func PasswordMinLength() int {
	return envInt("PASSWORD_MIN_LENGTH", 10, 8)
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

func MaxMessageLength() int {
	return envInt("MAX_MESSAGE_LENGTH", 4000, 1)
}

func MaxCommentLength() int {
	return envInt("MAX_COMMENT_LENGTH", 2000, 1)
}

func MaxPostTitleLength() int {
	return envInt("MAX_POST_TITLE_LENGTH", 200, 1)
}

func MaxPostBodyLength() int {
	return envInt("MAX_POST_BODY_LENGTH", 20000, 1)
}

// TrimAndLimit trims surrounding whitespace and truncates to max bytes.
func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

func envInt(name string, def, min int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return def
	}
	return n
}
