package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
)

// OrderStatusHistory is an append-only log of order status transitions.
type OrderStatusHistory struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	ChangedAt time.Time         `gorm:"column:changed_at;autoCreateTime"`
}
