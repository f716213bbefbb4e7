package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hashing time against brute-force resistance. Chat
// passwords are short (4-8 chars), so the work factor matters.
const bcryptCost = 10

// HashPassword returns the bcrypt hash stored in place of a plaintext
// password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword checks a plaintext password against its stored hash.
// A nil return means they match.
func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
