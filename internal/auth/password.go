package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const decoyPassword = "not-a-real-password"

// HashPassword returns a salted bcrypt hash of password. A cost of zero
// uses bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash. Any comparison
// error, including a malformed hash, counts as a mismatch.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DecoyHash returns a hash at cost that no real password matches. Comparing
// against it when an account is missing costs the same as a wrong password.
// An out of range cost falls back to bcrypt.DefaultCost.
func DecoyHash(cost int) string {
	h, err := HashPassword(decoyPassword, cost)
	if err != nil {
		h, _ = HashPassword(decoyPassword, bcrypt.DefaultCost)
	}
	return h
}
