package auth

import (
	"context"
	"errors"
)

// UserContext carries the authenticated user's identity through the request
type UserContext struct {
	Username string
}

type contextKey string

const userContextKey contextKey = "user_context"

// ErrNoUserInContext indicates that the request was not authenticated
var ErrNoUserInContext = errors.New("no user in context")

// SetUserInContext adds the user context to a request context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the user context from a request context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
