// Package auth holds credential primitives: bcrypt password hashing, the
// password strength rule and signed API tokens.
package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password PasswordStrong accepts.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// PasswordSymbols is the set a strong password draws its symbol from.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PasswordStrong reports whether password has at least MinPasswordLength
// characters and at most MaxPasswordBytes bytes, with an ASCII upper-case
// letter, lower-case letter and digit and one of PasswordSymbols.
func PasswordStrong(password string) bool {
	if len([]rune(password)) < MinPasswordLength || len(password) > MaxPasswordBytes {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case 'a' <= r && r <= 'z':
			lower = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
