package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a single-use credential-recovery artifact. Rows are
// never deleted; a token becomes permanently inert once used or expired.
// Redemption always considers the most-recently-created row for the user.
type PasswordResetToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"-" db:"token"` // Never return in JSON
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TokenPair is the result of a successful login or refresh. The refresh token
// travels back to browsers in an httpOnly cookie; the access token in the body.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
