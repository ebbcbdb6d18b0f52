package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's rating of a product. Ratings run 1 to 5.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	BuyerID   uuid.UUID `gorm:"column:buyer_id;type:uuid;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   string    `gorm:"column:comment;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Buyer     *User     `gorm:"foreignKey:BuyerID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
