package proto

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field length bounds, counted in characters as the user types them.
const (
	UserIDMinLen   = 3
	UserIDMaxLen   = 32
	PasswordMinLen = 4
	PasswordMaxLen = 8
	MessageMinLen  = 1
	MessageMaxLen  = 256
)

// ErrInvalidField marks a command whose field values break its own
// rules. Such commands are rejected before any side effect.
var ErrInvalidField = errors.New("proto: invalid field")

func errInvalid(rule string) error {
	return fmt.Errorf("%w: %s", ErrInvalidField, rule)
}

// ValidUserID reports whether id is 3-32 characters with no
// whitespace anywhere.
func ValidUserID(id string) bool {
	n := utf8.RuneCountInString(id)
	return n >= UserIDMinLen && n <= UserIDMaxLen && !containsWhitespace(id)
}

// ValidPassword reports whether pw is 4-8 characters with no
// whitespace anywhere.
func ValidPassword(pw string) bool {
	n := utf8.RuneCountInString(pw)
	return n >= PasswordMinLen && n <= PasswordMaxLen && !containsWhitespace(pw)
}

// ValidMessage reports whether msg is 1-256 characters.
func ValidMessage(msg string) bool {
	n := utf8.RuneCountInString(msg)
	return n >= MessageMinLen && n <= MessageMaxLen
}

// ValidVersion reports whether v names a known protocol version.
func ValidVersion(v string) bool {
	return v == "1" || v == "2"
}

func validateCredentials(userID, password string) error {
	if !ValidUserID(userID) {
		return errInvalid("user id must be 3-32 characters without whitespace")
	}
	if !ValidPassword(password) {
		return errInvalid("password must be 4-8 characters without whitespace")
	}
	return nil
}

func containsWhitespace(s string) bool {
	return strings.ContainsFunc(s, unicode.IsSpace)
}
