package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
)

type variationRepo struct {
	db *gorm.DB
}

// NewVariationRepository binds the repository to the provided DB handle.
func NewVariationRepository(db *gorm.DB) VariationRepository {
	return &variationRepo{db: db}
}

func (r *variationRepo) WithTx(tx *gorm.DB) VariationRepository {
	if tx == nil {
		return r
	}
	return &variationRepo{db: tx}
}

func (r *variationRepo) Create(ctx context.Context, variation *models.Variation) (*models.Variation, error) {
	if err := r.db.WithContext(ctx).Create(variation).Error; err != nil {
		return nil, err
	}
	return variation, nil
}

func (r *variationRepo) Save(ctx context.Context, variation *models.Variation) error {
	return r.db.WithContext(ctx).Save(variation).Error
}

func (r *variationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Variation, error) {
	var variation models.Variation
	err := r.db.WithContext(ctx).
		Preload("Images").
		First(&variation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

func (r *variationRepo) MarkDeletedByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Variation{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"status":       enums.ListingStatusDeleted,
			"is_available": false,
		}).Error
}

func (r *variationRepo) FindByIDWithVendor(ctx context.Context, id uuid.UUID) (*models.Variation, error) {
	var variation models.Variation
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Vendor").
		First(&variation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &variation, nil
}
