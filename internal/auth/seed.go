package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// seedPasswordBytes is the number of random bytes for a generated seed password.
const seedPasswordBytes = 16

// Bootstrap holds the initial admin account details from configuration.
type Bootstrap struct {
	FirstName string
	LastName  string
	Email     string
	Password  string // generated if empty
}

// SeedAdmin creates the initial admin account on first boot if no accounts
// exist. Without it a fresh database has no Employee/Admin account and the
// inventory management surface is unreachable.
//
// If no password was configured, a random one is generated and logged — it
// must be changed immediately. Returns the generated password (empty string
// if seeding was skipped or a password was configured).
func SeedAdmin(ctx context.Context, repo AccountRepository, boot Bootstrap, logger *slog.Logger) (string, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("checking account count: %w", err)
	}

	if count > 0 {
		logger.Info("accounts exist, skipping admin seed")
		return "", nil
	}

	password := boot.Password
	generated := ""
	if password == "" {
		b := make([]byte, seedPasswordBytes)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("generating seed password: %w", err)
		}
		password = hex.EncodeToString(b)
		generated = password
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing seed password: %w", err)
	}

	admin := &Account{
		FirstName:    boot.FirstName,
		LastName:     boot.LastName,
		Email:        boot.Email,
		PasswordHash: hash,
		Role:         RoleAdmin,
	}

	if err := repo.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("creating seed admin: %w", err)
	}

	if generated != "" {
		logger.Warn("seed admin account created with generated password",
			"email", boot.Email,
			"password", generated,
			"action_required", "change this password immediately",
		)
	} else {
		logger.Info("seed admin account created", "email", boot.Email)
	}

	return generated, nil
}
