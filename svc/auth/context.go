package auth

import (
	"context"
)

type userContextKey struct{}

// SetUserToContext stores the signed-in user for handlers further down the chain.
func SetUserToContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext returns the signed-in user.
// Returns nil when no user was stored.
func GetUserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}
