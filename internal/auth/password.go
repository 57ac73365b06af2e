package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor. Cost 10 keeps a hash around 50-100ms
// on current hardware — slow enough to blunt offline guessing, fast enough
// that login latency stays tolerable.
const hashCost = 10

// HashPassword hashes a plaintext password with bcrypt. The salt is
// generated internally and stored inside the returned hash string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// Returns true if the password matches. A malformed stored hash reports as
// a non-match, not an error: from the caller's point of view both cases are
// "these credentials don't work".
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
