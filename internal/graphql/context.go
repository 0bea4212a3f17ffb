package graphql

import (
	"context"

	"collabhub/internal/authz"
	"collabhub/internal/common"
	"collabhub/internal/middleware"
	"collabhub/internal/models"
)

type contextKey string

const authResultKey contextKey = "auth_result"

// WithAuthResult stores the per-request authentication outcome so resolvers
// that require identity can consume it without re-verifying the token.
func WithAuthResult(ctx context.Context, result middleware.AuthResult) context.Context {
	return context.WithValue(ctx, authResultKey, result)
}

func authResultFrom(ctx context.Context) (middleware.AuthResult, bool) {
	result, ok := ctx.Value(authResultKey).(middleware.AuthResult)
	return result, ok
}

// requireUser returns the authenticated user or the authentication failure
// recorded by the gateway.
func requireUser(ctx context.Context) (*models.User, error) {
	result, ok := authResultFrom(ctx)
	if !ok {
		return nil, common.Unauthenticated()
	}
	if result.Err != nil {
		return nil, result.Err
	}
	return result.User, nil
}

// requireAdmin layers the global ADMIN gate on top of authentication.
func requireAdmin(ctx context.Context) (*models.User, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckUser(user, authz.AdminOnly); err != nil {
		return nil, err
	}
	return user, nil
}
