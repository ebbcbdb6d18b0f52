package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
)

// User is a marketplace account. Farmers list products; buyers check out carts.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	Username     string         `gorm:"column:username;not null;uniqueIndex"`
	ContactNo    string         `gorm:"column:contact_no;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	IsActive     bool           `gorm:"column:is_active;not null;default:false"`
	IsApproved   bool           `gorm:"column:is_approved;not null;default:false"`
	IsRejected   bool           `gorm:"column:is_rejected;not null;default:false"`
	Profile      *UserProfile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
