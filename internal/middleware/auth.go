package middleware

import (
	"context"
	"strings"

	"collabhub/internal/auth"
	"collabhub/internal/authz"
	"collabhub/internal/common"
	"collabhub/internal/models"
	"collabhub/internal/repositories"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuthResult is the outcome of authenticating a request. Exactly one of User
// and Err is set; Err.Kind is always Unauthenticated or Internal.
type AuthResult struct {
	User *models.User
	Err  *common.AppError
}

// Authenticator verifies a bearer token and loads the current user record.
// Both the REST middleware and the GraphQL context builder call the same
// Authenticate so the two transports cannot diverge in authentication
// semantics.
type Authenticator struct {
	codec    *auth.TokenCodec
	userRepo repositories.UserRepository
	logger   zerolog.Logger
}

func NewAuthenticator(codec *auth.TokenCodec, userRepo repositories.UserRepository, logger zerolog.Logger) *Authenticator {
	return &Authenticator{codec: codec, userRepo: userRepo, logger: logger}
}

// Authenticate checks the token, re-fetches the user and confirms active
// status. It returns a typed result and never panics across the boundary.
func (a *Authenticator) Authenticate(ctx context.Context, bearerToken string) AuthResult {
	if bearerToken == "" {
		return AuthResult{Err: common.Unauthenticated()}
	}

	claims, err := a.codec.Verify(bearerToken)
	if err != nil {
		return AuthResult{Err: common.Unauthenticated()}
	}

	userID, err := claims.Subject()
	if err != nil {
		return AuthResult{Err: common.Unauthenticated()}
	}
	if !models.UserRole(claims.Role).Valid() {
		return AuthResult{Err: common.Unauthenticated()}
	}

	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return AuthResult{Err: common.Unauthenticated()}
		}
		a.logger.Error().Err(err).Str("user_id", userID.String()).Msg("authentication: user lookup failed")
		return AuthResult{Err: common.Internal(err)}
	}

	if user.Status != models.StatusActive {
		return AuthResult{Err: common.Unauthenticated()}
	}

	return AuthResult{User: user}
}

// BearerFromHeader extracts the token from an Authorization header value.
func BearerFromHeader(header string) string {
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return token
}

// RequireAuth rejects unauthenticated requests and attaches the user to the
// request context for downstream handlers.
func (a *Authenticator) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			result := a.Authenticate(c.Request().Context(), token)
			if result.Err != nil {
				return result.Err
			}

			ctx := common.WithUser(c.Request().Context(), result.User)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRole runs the global role gate against the already-authenticated
// user. Mount after RequireAuth.
func RequireRole(roles ...models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := common.GetUserFromContext(c.Request().Context())
			if !ok {
				return common.Unauthenticated()
			}
			if err := authz.CheckUser(user, roles); err != nil {
				return err
			}
			return next(c)
		}
	}
}
