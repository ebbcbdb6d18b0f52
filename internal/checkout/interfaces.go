package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
)

// VariationStore reads and mutates variation stock under row locks.
type VariationStore interface {
	WithTx(tx *gorm.DB) VariationStore
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Variation, error)
	Save(ctx context.Context, variation *models.Variation) error
}

// OrderWriter persists a fully assembled order graph.
type OrderWriter interface {
	WithTx(tx *gorm.DB) OrderWriter
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
}
