package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"collabhub/internal/common"
	"collabhub/internal/models"
)

// Claims is the payload carried by every token this service signs. Access and
// refresh tokens carry the user id and global role; password-reset tokens
// carry only the id. Claims are a pointer to re-fetch the user, never current
// truth for role or status.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies compact HS256 claims with a shared secret.
// Pure CPU-bound work, no I/O.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue signs a token for the given user id with the given TTL. An empty role
// is omitted from the payload (password-reset tokens).
func (c *TokenCodec) Issue(userID uuid.UUID, role models.UserRole, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the claims. Every
// failure mode (malformed, bad signature, expired, wrong algorithm) collapses
// to Unauthenticated; the underlying jwt error never leaves this package.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, common.Unauthenticated()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, common.Unauthenticated()
	}
	return claims, nil
}

// Subject parses the user id out of verified claims. A token whose payload
// does not hold a well-formed id fails authentication, not validation.
func (cl *Claims) Subject() (uuid.UUID, error) {
	id, err := uuid.Parse(cl.UserID)
	if err != nil {
		return uuid.Nil, common.Unauthenticated()
	}
	return id, nil
}
