package worker

import (
	"context"
	"time"
)

// SessionPurger is the subset of the user service the session cleanup
// task needs.
type SessionPurger interface {
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// Task names
const (
	TaskCleanupExpiredSessions = "cleanup:expired_sessions"
)

// CleanupExpiredSessions deletes sessions past their expiry.
func CleanupExpiredSessions(users SessionPurger) Task {
	return Task{
		Name:    TaskCleanupExpiredSessions,
		Timeout: time.Minute,
		Run:     users.DeleteExpiredSessions,
	}
}
