// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/route66/internal/auth"
	"github.com/dukerupert/route66/internal/repository"
)

// AdminConfig contains configuration for the initial staff user.
type AdminConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureStaffUser creates the staff account named by cfg if no user with
// that email exists. It is safe to call on every startup.
//
// An empty Email or Password skips creation with a warning so local
// development can run without a staff account.
func EnsureStaffUser(
	ctx context.Context,
	repo repository.Querier,
	hasher *auth.Hasher,
	cfg AdminConfig,
	logger *slog.Logger,
) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping staff user creation - ADMIN_EMAIL or ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create a staff user on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}
	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		if !existing.IsStaff {
			logger.Warn("bootstrap: admin email belongs to a customer account, not promoting",
				"email", email,
				"user_id", existing.ID,
			)
			return nil
		}
		logger.Info("bootstrap: staff user already exists", "email", email)
		return nil
	}
	if !errors.Is(err, repository.ErrNoRows) {
		return fmt.Errorf("failed to check for existing staff user: %w", err)
	}

	passwordHash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	firstName := cfg.FirstName
	if firstName == "" {
		firstName = "Admin"
	}
	lastName := cfg.LastName
	if lastName == "" {
		lastName = "User"
	}

	user, err := repo.CreateUser(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		IsStaff:      true,
	})
	if err != nil {
		// Another instance created it between the lookup and the insert.
		if repository.IsUniqueViolation(err) {
			logger.Info("bootstrap: staff user already exists (concurrent creation)", "email", email)
			return nil
		}
		return fmt.Errorf("failed to create staff user: %w", err)
	}

	logger.Info("bootstrap: staff user created successfully",
		"email", email,
		"user_id", user.ID,
	)
	return nil
}
