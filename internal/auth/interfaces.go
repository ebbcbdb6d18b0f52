package auth

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// VerifiedEmailStore is the persistence surface for completed email verifications.
type VerifiedEmailStore interface {
	WithTx(tx *gorm.DB) VerifiedEmailStore
	MarkVerified(ctx context.Context, email string) error
	IsVerified(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, email string) error
}

// CodeStore holds pending verification codes with expiry.
type CodeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	VerificationCodeKey(email string) string
}

// SessionManager issues and rotates refresh sessions.
type SessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}
