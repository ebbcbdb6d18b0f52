package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
)

// MarketTransaction records the buyer-to-seller financial leg of an order.
// total_amount always equals the order's total_price.
type MarketTransaction struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID               `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	BuyerID       uuid.UUID               `gorm:"column:buyer_id;type:uuid;not null"`
	SellerID      uuid.UUID               `gorm:"column:seller_id;type:uuid;not null"`
	PaymentMethod string                  `gorm:"column:payment_method;not null"`
	TotalAmount   decimal.Decimal         `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status        enums.TransactionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	EndedAt       *time.Time              `gorm:"column:ended_at"`
}
