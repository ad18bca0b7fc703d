// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Credential rules.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	PasswordMinLength = 6
	PasswordMaxLength = 100

	// PasswordMaxBytes is the most bcrypt reads; longer inputs would share a hash.
	PasswordMaxBytes = 72
)

var phonePattern = regexp.MustCompile(`^(\+84|84|0)(3|5|7|8|9)[0-9]{8}$`)

// User is an authenticatable account. Users are never physically deleted;
// IsActive=false is the terminal state.
type User struct {
	ID           uint      // Row identifier.
	Username     string    // Unique, compared case-insensitively.
	PasswordHash string    // bcrypt digest of the password.
	Email        *string   // Optional, unique case-insensitively when present.
	Phone        *string   // Optional Vietnamese mobile number.
	RoleID       *uint     // Nullable reference to Role.
	IsActive     bool      // False once soft-deleted; inactive users cannot log in.
	CreatedAt    time.Time // Timestamp of account creation.
	UpdatedAt    time.Time // Timestamp of the last modification.
}

// NormalizeUsername trims surrounding whitespace from a username.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// UsernameKey is the case-folded form used for uniqueness and cache keys.
func UsernameKey(username string) string {
	return strings.ToLower(NormalizeUsername(username))
}

// HasRole reports whether the user has a role assigned.
func (u *User) HasRole() bool {
	return u.RoleID != nil && *u.RoleID != 0
}

// UsernameProblem describes why a username is unacceptable, or "" when it is fine.
func UsernameProblem(username string) string {
	n := len([]rune(NormalizeUsername(username)))
	if n < UsernameMinLength || n > UsernameMaxLength {
		return "must be 3-50 characters"
	}

	return ""
}

// PasswordProblem describes why a password is too weak, or "" when it is fine.
func PasswordProblem(password string) string {
	n := len([]rune(password))
	if n < PasswordMinLength || n > PasswordMaxLength {
		return "must be 6-100 characters"
	}
	if len(password) > PasswordMaxBytes {
		return "must be at most 72 bytes"
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "must contain an uppercase letter, a lowercase letter and a digit"
	}

	return ""
}

// ValidEmail reports whether email is a bare address such as bob@example.com.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)

	return err == nil && addr.Address == email
}

// ValidPhone reports whether the phone is a Vietnamese mobile number.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
