package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
)

// Order is a per-vendor purchase produced by checkout. total_price is frozen at
// creation time and never recomputed from live variation prices.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderIdentifier string               `gorm:"column:order_identifier;not null;uniqueIndex"`
	BuyerID         uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalPrice      decimal.Decimal      `gorm:"column:total_price;type:numeric(10,2);not null"`
	ShippingAddress string               `gorm:"column:shipping_address;not null"`
	PaymentMethod   string               `gorm:"column:payment_method;not null"`
	DeliveryMethod  *string              `gorm:"column:delivery_method"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory   []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Transaction     *MarketTransaction   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
