package password

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const cost = 12 // bcrypt cost factor

// Plaintext compares stored and supplied passwords byte for byte.
// Records are kept as submitted.
type Plaintext struct{}

// Verify reports whether supplied matches stored
func (Plaintext) Verify(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// Prepare returns the value to persist for a new password
func (Plaintext) Prepare(password string) (string, error) {
	return password, nil
}

// Bcrypt stores new passwords as bcrypt hashes and still accepts records
// written in plaintext before the switch.
type Bcrypt struct{}

// Verify reports whether supplied matches stored
func (Bcrypt) Verify(stored, supplied string) bool {
	if isHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return Plaintext{}.Verify(stored, supplied)
}

// Prepare hashes password using bcrypt
func (Bcrypt) Prepare(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func isHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
