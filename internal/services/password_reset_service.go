package services

import (
	"context"
	"time"

	"collabhub/internal/auth"
	"collabhub/internal/authz"
	"collabhub/internal/caching"
	"collabhub/internal/common"
	"collabhub/internal/mailer"
	"collabhub/internal/models"
	"collabhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	forgotRateLimit  = 3
	forgotRateWindow = 10 * time.Minute
)

// PasswordResetService runs the forgot/reset-password flow and the
// admin-initiated direct overwrite.
type PasswordResetService interface {
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	// AdminResetPassword overwrites the target's password without a token.
	// The caller is responsible for having gated the actor as ADMIN.
	AdminResetPassword(ctx context.Context, email, newPassword string, resetBy uuid.UUID) error
}

type passwordResetService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.ResetTokenRepository
	codec     *auth.TokenCodec
	mailer    mailer.Mailer
	cacheSvc  caching.CacheService
	resetTTL  time.Duration
	logger    zerolog.Logger
}

func NewPasswordResetService(userRepo repositories.UserRepository, tokenRepo repositories.ResetTokenRepository, codec *auth.TokenCodec, m mailer.Mailer, cacheSvc caching.CacheService, resetTTL time.Duration, logger zerolog.Logger) PasswordResetService {
	return &passwordResetService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		codec:     codec,
		mailer:    m,
		cacheSvc:  cacheSvc,
		resetTTL:  resetTTL,
		logger:    logger,
	}
}

// ForgotPassword issues a short-lived single-use reset token, persists it and
// mails it to the user. Unknown emails get NotFound; this deliberately
// differs from login's non-revealing behavior and is documented as such.
func (s *passwordResetService) ForgotPassword(ctx context.Context, email string) error {
	if s.cacheSvc != nil {
		limited, err := s.cacheSvc.IsRateLimited(ctx, "forgot:"+email, forgotRateLimit, forgotRateWindow)
		if err == nil && limited {
			return common.BadRequest("Too many reset requests, try again later")
		}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.NotFound("User not found")
		}
		s.logger.Error().Err(err).Msg("forgot password: user lookup failed")
		return common.Internal(err)
	}

	if err := authz.CheckUser(user, authz.AnyUser); err != nil {
		return err
	}

	token, err := s.codec.Issue(user.ID, "", s.resetTTL)
	if err != nil {
		return common.Internal(err)
	}

	row := &models.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.resetTTL),
		Used:      false,
	}
	if err := s.tokenRepo.Create(ctx, row); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("forgot password: token persist failed")
		return common.Internal(err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
		return common.Internal(err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("password reset email sent")
	return nil
}

// ResetPassword redeems a reset token. The four rejection conditions (no row,
// token mismatch, already used, expired) collapse into one generic BadRequest
// so the endpoint cannot be used as an oracle. The password update and the
// used flag land in a single transaction.
func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return err
	}
	userID, err := claims.Subject()
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.NotFound("User not found")
		}
		return common.Internal(err)
	}

	if err := authz.CheckUser(user, authz.AnyUser); err != nil {
		return err
	}

	row, err := s.tokenRepo.GetLatestByUserID(ctx, user.ID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.BadRequest("Invalid password reset request")
		}
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("reset password: token lookup failed")
		return common.Internal(err)
	}

	if row.Token != token || row.Used || row.ExpiresAt.Before(time.Now()) {
		s.logger.Warn().Str("user_id", user.ID.String()).Bool("used", row.Used).Msg("reset password: token rejected")
		return common.BadRequest("Invalid password reset request")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.Internal(err)
	}

	if err := s.tokenRepo.Redeem(ctx, row.ID, user.ID, hash); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("reset password: redeem transaction failed")
		return common.Internal(err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("password reset successful")
	return nil
}

func (s *passwordResetService) AdminResetPassword(ctx context.Context, email, newPassword string, resetBy uuid.UUID) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.NotFound("User not found")
		}
		return common.Internal(err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.Internal(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return common.Internal(err)
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("reset_by", resetBy.String()).
		Msg("password reset by admin")
	return nil
}
