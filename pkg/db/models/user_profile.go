package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile carries the display data attached to a user account.
type UserProfile struct {
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	FullName   string    `gorm:"column:full_name"`
	PictureURL string    `gorm:"column:picture_url"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
