package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem references exactly one variation with a positive quantity.
// (cart_id, variation_id) is unique; repeat adds merge into the existing row.
type CartItem struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID  `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_variation"`
	VariationID uuid.UUID  `gorm:"column:variation_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_variation"`
	Quantity    int        `gorm:"column:quantity;not null"`
	Variation   *Variation `gorm:"foreignKey:VariationID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
