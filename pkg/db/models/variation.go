package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
)

// Variation is the purchasable unit of a product: it owns price, stock, and
// availability. stock reaching zero during checkout flips the variation to
// out_of_stock and unavailable; stock can be restored manually afterwards.
type Variation struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	Name        string              `gorm:"column:name;not null"`
	UnitPrice   decimal.Decimal     `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Stock       int                 `gorm:"column:stock;not null;default:0"`
	IsAvailable bool                `gorm:"column:is_available;not null;default:true"`
	IsDefault   bool                `gorm:"column:is_default;not null;default:false"`
	Status      enums.ListingStatus `gorm:"column:status;type:text;not null;default:'published'"`
	Product     *Product            `gorm:"foreignKey:ProductID"`
	Images      []VariationImage    `gorm:"foreignKey:VariationID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
