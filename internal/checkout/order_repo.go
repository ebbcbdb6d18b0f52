package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
)

type orderWriter struct {
	db *gorm.DB
}

// NewOrderWriter binds the writer to the provided DB handle.
func NewOrderWriter(db *gorm.DB) OrderWriter {
	return &orderWriter{db: db}
}

func (r *orderWriter) WithTx(tx *gorm.DB) OrderWriter {
	if tx == nil {
		return r
	}
	return &orderWriter{db: tx}
}

// Create persists the order together with its items, initial status history
// row, and market transaction in one association write.
func (r *orderWriter) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}
