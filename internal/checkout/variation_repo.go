package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
)

type variationStore struct {
	db *gorm.DB
}

// NewVariationStore binds the store to the provided DB handle.
func NewVariationStore(db *gorm.DB) VariationStore {
	return &variationStore{db: db}
}

func (r *variationStore) WithTx(tx *gorm.DB) VariationStore {
	if tx == nil {
		return r
	}
	return &variationStore{db: tx}
}

// LockByIDs loads the variations with SELECT ... FOR UPDATE so concurrent
// checkouts serialize on the same rows.
func (r *variationStore) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Variation, error) {
	var variations []models.Variation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&variations).Error
	return variations, err
}

func (r *variationStore) Save(ctx context.Context, variation *models.Variation) error {
	return r.db.WithContext(ctx).Save(variation).Error
}
