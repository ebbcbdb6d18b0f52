package models

import (
	"time"

	"github.com/google/uuid"
)

// VariationImage stores a gallery entry for a variation. At most one image per
// variation carries is_main.
type VariationImage struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariationID uuid.UUID `gorm:"column:variation_id;type:uuid;not null"`
	ImageURL    string    `gorm:"column:image_url;not null"`
	IsMain      bool      `gorm:"column:is_main;not null;default:false"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;autoCreateTime"`
}
