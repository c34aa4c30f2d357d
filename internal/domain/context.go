// Package domain holds the error model, request-scoped context values and
// small pricing rules shared by the service and HTTP layers.
package domain

import "context"

type contextKey int

const (
	userContextKey contextKey = iota
	requestIDContextKey
	cartCountContextKey
)

// User is the authenticated shopper stored in request context.
type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	IsStaff   bool
}

// DisplayName is what the header shows next to the account links.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the logged-in user, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// UserIDFromContext returns the logged-in user's id, or 0.
func UserIDFromContext(ctx context.Context) int64 {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return 0
}

func IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// IsStaff reports whether the logged-in user may use the admin area.
func IsStaff(ctx context.Context) bool {
	user := UserFromContext(ctx)
	return user != nil && user.IsStaff
}

func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

// NewContextWithCartCount stores the number of units in the shopper's cart
// so every page header can show it.
func NewContextWithCartCount(ctx context.Context, count int) context.Context {
	return context.WithValue(ctx, cartCountContextKey, count)
}

func CartCountFromContext(ctx context.Context) int {
	count, _ := ctx.Value(cartCountContextKey).(int)
	return count
}
