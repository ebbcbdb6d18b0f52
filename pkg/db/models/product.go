package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
)

// Product is a vendor listing. Purchasable units live on its variations.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID    uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null"`
	CategoryID  uuid.UUID           `gorm:"column:category_id;type:uuid;not null"`
	Name        string              `gorm:"column:name;not null"`
	Slug        string              `gorm:"column:slug;not null;uniqueIndex"`
	Description string              `gorm:"column:description"`
	Status      enums.ListingStatus `gorm:"column:status;type:text;not null;default:'published'"`
	Vendor      *User               `gorm:"foreignKey:VendorID"`
	Category    *Category           `gorm:"foreignKey:CategoryID"`
	Variations  []Variation         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
