package auth

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
)

// VerifiedEmailRepository tracks emails that completed code verification.
type VerifiedEmailRepository struct {
	db *gorm.DB
}

// NewVerifiedEmailRepository binds the repository to the provided DB handle.
func NewVerifiedEmailRepository(db *gorm.DB) *VerifiedEmailRepository {
	return &VerifiedEmailRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *VerifiedEmailRepository) WithTx(tx *gorm.DB) VerifiedEmailStore {
	if tx == nil {
		return r
	}
	return &VerifiedEmailRepository{db: tx}
}

// MarkVerified records the email as verified; repeated confirmations are no-ops.
func (r *VerifiedEmailRepository) MarkVerified(ctx context.Context, email string) error {
	record := models.VerifiedEmail{Email: normalize(email)}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(&record).Error
}

// IsVerified reports whether the email previously completed verification.
func (r *VerifiedEmailRepository) IsVerified(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VerifiedEmail{}).
		Where("email = ?", normalize(email)).
		Count(&count).Error
	return count > 0, err
}

// Delete removes the verification record once signup consumes it.
func (r *VerifiedEmailRepository) Delete(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("email = ?", normalize(email)).
		Delete(&models.VerifiedEmail{}).Error
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
