package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/route66/internal/auth"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/form"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/telemetry"
	"github.com/jackc/pgx/v5/pgtype"
)

// SessionDuration is how long a login lasts.
const SessionDuration = 30 * 24 * time.Hour

// SignupForm is the account registration form.
type SignupForm struct {
	FirstName string `form:"first_name" validate:"required,max=150"`
	LastName  string `form:"last_name" validate:"required,max=150"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required,min=8,max=72"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// UserService provides business logic for user operations
type UserService interface {
	// Register creates a customer account.
	Register(ctx context.Context, f SignupForm) (*domain.User, error)

	// Authenticate verifies email/password and returns the user if valid
	Authenticate(ctx context.Context, f LoginForm) (*domain.User, error)

	// CreateSession creates a new session for a user
	CreateSession(ctx context.Context, userID int64) (token string, expiresAt time.Time, err error)

	// GetUserBySessionToken retrieves the user of an unexpired session
	GetUserBySessionToken(ctx context.Context, token string) (*domain.User, error)

	// DeleteSession logs out a user by deleting their session
	DeleteSession(ctx context.Context, token string) error

	// DeleteExpiredSessions removes sessions past their expiry
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

type userService struct {
	repo   repository.Querier
	hasher *auth.Hasher
	now    func() time.Time
}

// NewUserService creates a new UserService instance
func NewUserService(repo repository.Querier, hasher *auth.Hasher) UserService {
	if hasher == nil {
		hasher = auth.NewHasher()
	}
	return &userService{repo: repo, hasher: hasher, now: time.Now}
}

func (s *userService) Register(ctx context.Context, f SignupForm) (*domain.User, error) {
	const op = "user.Register"

	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = normalizeEmail(f.Email)
	if err := form.Validate(op, f); err != nil {
		return nil, err
	}

	_, err := s.repo.GetUserByEmail(ctx, f.Email)
	if err == nil {
		return nil, domain.NewValidationError(op, "email", "A user with that email already exists.")
	}
	if !errors.Is(err, repository.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(f.Password1)
	if err != nil {
		return nil, domain.NewValidationError(op, "password1", err.Error())
	}

	row, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Email:        f.Email,
		PasswordHash: hash,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.NewValidationError(op, "email", "A user with that email already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if telemetry.Business != nil {
		telemetry.Business.Signups.Inc()
	}

	return toDomainUser(row), nil
}

// Authenticate reports ErrInvalidCredentials for both an unknown email and
// a wrong password.
func (s *userService) Authenticate(ctx context.Context, f LoginForm) (*domain.User, error) {
	const op = "user.Authenticate"

	f.Email = normalizeEmail(f.Email)
	if err := form.Validate(op, f); err != nil {
		return nil, err
	}

	row, err := s.repo.GetUserByEmail(ctx, f.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			s.loginFailed()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Verify(f.Password, row.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.loginFailed()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	if telemetry.Business != nil {
		telemetry.Business.Logins.Inc()
	}

	return toDomainUser(row), nil
}

func (s *userService) CreateSession(ctx context.Context, userID int64) (string, time.Time, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	expiresAt := s.now().Add(SessionDuration)
	_, err = s.repo.CreateSession(ctx, repository.CreateSessionParams{
		Token:     token,
		UserID:    userID,
		ExpiresAt: pgtype.Timestamptz{Time: expiresAt, Valid: true},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}

	return token, expiresAt, nil
}

func (s *userService) GetUserBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	row, err := s.repo.GetSessionUser(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return toDomainUser(row), nil
}

func (s *userService) DeleteSession(ctx context.Context, token string) error {
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *userService) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return n, nil
}

func (s *userService) loginFailed() {
	if telemetry.Business != nil {
		telemetry.Business.LoginFailed.Inc()
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toDomainUser(u repository.User) *domain.User {
	return &domain.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
	}
}
