package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/pagination"
)

type repo struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	return &repo{db: db}
}

func (r *repo) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repo{db: tx}
}

// ListByBuyer returns the buyer's orders newest-first with their line items
// and the vendor behind each item's product.
func (r *repo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Variation").
		Preload("Items.Variation.Product").
		Preload("Items.Variation.Product.Vendor").
		Preload("Items.Variation.Product.Vendor.Profile").
		Preload("Transaction").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC")

	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orders []models.Order
	err := query.Find(&orders).Error
	return orders, err
}

func (r *repo) FindByIDForBuyer(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Variation").
		Preload("Items.Variation.Product").
		Preload("Items.Variation.Product.Vendor").
		Preload("Items.Variation.Product.Vendor.Profile").
		Preload("StatusHistory").
		Preload("Transaction").
		First(&order, "id = ? AND buyer_id = ?", orderID, buyerID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
