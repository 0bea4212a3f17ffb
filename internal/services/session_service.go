package services

import (
	"context"
	"fmt"
	"time"

	"collabhub/internal/auth"
	"collabhub/internal/authz"
	"collabhub/internal/caching"
	"collabhub/internal/common"
	"collabhub/internal/models"
	"collabhub/internal/repositories"

	"github.com/rs/zerolog"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// SessionService orchestrates login and token refresh. Logout is stateless:
// the transport clears the client-held refresh cookie and no server-side
// invalidation happens (no revocation store by design).
type SessionService interface {
	Login(ctx context.Context, email, password string) (*models.TokenPair, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type sessionService struct {
	userRepo   repositories.UserRepository
	codec      *auth.TokenCodec
	cacheSvc   caching.CacheService
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     zerolog.Logger
}

func NewSessionService(userRepo repositories.UserRepository, codec *auth.TokenCodec, cacheSvc caching.CacheService, accessTTL, refreshTTL time.Duration, logger zerolog.Logger) SessionService {
	return &sessionService{
		userRepo:   userRepo,
		codec:      codec,
		cacheSvc:   cacheSvc,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Login verifies credentials and issues a token pair. Unknown email and wrong
// password produce the same error kind and message so callers cannot
// enumerate accounts.
func (s *sessionService) Login(ctx context.Context, email, password string) (*models.TokenPair, *models.User, error) {
	if s.cacheSvc != nil {
		limited, err := s.cacheSvc.IsRateLimited(ctx, "login:"+email, loginRateLimit, loginRateWindow)
		if err == nil && limited {
			return nil, nil, common.BadRequest("Too many login attempts, try again later")
		}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil, common.Unauthenticated()
		}
		s.logger.Error().Err(err).Msg("login: user lookup failed")
		return nil, nil, common.Internal(err)
	}

	if err := authz.CheckUser(user, authz.AnyUser); err != nil {
		return nil, nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("login: invalid password")
		return nil, nil, common.Unauthenticated()
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, common.Internal(err)
	}
	return pair, user, nil
}

// Refresh rotates a valid refresh token into a new pair. The presented claims
// only point at the user; role and status are re-fetched so a ban or role
// change since issuance takes effect immediately.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, common.Unauthenticated()
	}

	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := claims.Subject()
	if err != nil {
		return nil, err
	}
	if !models.UserRole(claims.Role).Valid() {
		return nil, common.Unauthenticated()
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			s.logger.Warn().Str("user_id", userID.String()).Msg("refresh: user no longer exists")
			return nil, common.Unauthenticated()
		}
		return nil, common.Internal(err)
	}

	if err := authz.CheckUser(user, authz.AnyUser); err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, common.Internal(err)
	}
	return pair, nil
}

func (s *sessionService) issueTokens(user *models.User) (*models.TokenPair, error) {
	access, err := s.codec.Issue(user.ID, user.Role, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.Issue(user.ID, user.Role, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
