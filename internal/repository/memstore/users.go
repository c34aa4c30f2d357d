package memstore

import (
	"context"
	"strings"

	"github.com/dukerupert/route66/internal/repository"
)

func (s *Store) CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateUser"); err != nil {
		return repository.User{}, err
	}
	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, arg.Email) {
			return repository.User{}, uniqueViolation("users_email_lower_idx")
		}
	}
	now := s.data.now()
	u := repository.User{
		ID:           s.data.id(),
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		FirstName:    arg.FirstName,
		LastName:     arg.LastName,
		IsStaff:      arg.IsStaff,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.data.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetUserByEmail"); err != nil {
		return repository.User{}, err
	}
	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNoRows
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetUserByID"); err != nil {
		return repository.User{}, err
	}
	u, ok := s.data.users[id]
	if !ok {
		return repository.User{}, repository.ErrNoRows
	}
	return u, nil
}

func (s *Store) CreateSession(ctx context.Context, arg repository.CreateSessionParams) (repository.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateSession"); err != nil {
		return repository.Session{}, err
	}
	if _, ok := s.data.sessions[arg.Token]; ok {
		return repository.Session{}, uniqueViolation("sessions_token_key")
	}
	sess := repository.Session{
		ID:        s.data.id(),
		Token:     arg.Token,
		UserID:    arg.UserID,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: s.data.now(),
	}
	s.data.sessions[arg.Token] = sess
	return sess, nil
}

// GetSessionUser compares expiry against the wall clock, like NOW() in SQL.
func (s *Store) GetSessionUser(ctx context.Context, token string) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetSessionUser"); err != nil {
		return repository.User{}, err
	}
	sess, ok := s.data.sessions[token]
	if !ok || !sess.ExpiresAt.Time.After(timeNow()) {
		return repository.User{}, repository.ErrNoRows
	}
	u, ok := s.data.users[sess.UserID]
	if !ok {
		return repository.User{}, repository.ErrNoRows
	}
	return u, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteSession"); err != nil {
		return err
	}
	delete(s.data.sessions, token)
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteExpiredSessions"); err != nil {
		return 0, err
	}
	var n int64
	for token, sess := range s.data.sessions {
		if !sess.ExpiresAt.Time.After(timeNow()) {
			delete(s.data.sessions, token)
			n++
		}
	}
	return n, nil
}
