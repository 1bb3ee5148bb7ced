package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnerProfile is created lazily the first time a user lists a property.
type OwnerProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primary_key" json:"user_id"`
	CompanyName *string   `gorm:"size:255" json:"company_name"`
	Verified    bool      `gorm:"default:false" json:"verified"`
	AvgRating   float32   `gorm:"default:0" json:"avg_rating"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
