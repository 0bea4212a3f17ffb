package repositories

import (
	"context"

	"collabhub/internal/models"

	"github.com/google/uuid"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	// GetLatestByUserID returns the most-recently-created token row for the
	// user, or pgx.ErrNoRows if none exists. Rows are never deleted, so the
	// latest row is the only one redemption considers.
	GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error)
	// Redeem flips the token row to used and rotates the user's password hash
	// in one transaction. Either both land or neither does.
	Redeem(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) error
	// CountOutstanding reports unused, unexpired token rows, for the audit sweep.
	CountOutstanding(ctx context.Context) (int64, error)
}

type resetTokenRepo struct {
	db Database
}

func NewResetTokenRepo(db Database) ResetTokenRepository {
	return &resetTokenRepo{db: db}
}

func (r *resetTokenRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, token.ID, token.UserID, token.Token, token.ExpiresAt, token.Used)
	return err
}

func (r *resetTokenRepo) GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	token := &models.PasswordResetToken{}
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&token.ID, &token.UserID, &token.Token, &token.ExpiresAt, &token.Used, &token.CreatedAt)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (r *resetTokenRepo) Redeem(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE password_reset_tokens SET used = TRUE WHERE id = $1`,
		tokenID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *resetTokenRepo) CountOutstanding(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM password_reset_tokens
		WHERE used = FALSE AND expires_at > NOW()
	`
	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
