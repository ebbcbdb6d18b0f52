package models

import (
	"time"

	"github.com/google/uuid"
)

// VerifiedEmail records an address that completed code verification.
// Registration is rejected unless a row exists for the email.
type VerifiedEmail struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email      string    `gorm:"column:email;not null;uniqueIndex"`
	VerifiedAt time.Time `gorm:"column:verified_at;autoCreateTime"`
}
