package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Reference  string    `gorm:"size:12;not null;unique" json:"reference"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CheckIn    time.Time `gorm:"not null" json:"check_in"`
	CheckOut   time.Time `gorm:"not null" json:"check_out"`
	Guests     int       `gorm:"not null;default:1" json:"guests"`
	TotalPrice float64   `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Status     string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	ReceiptURL *string   `gorm:"size:512" json:"receipt_url"`

	Property Property `gorm:"foreignkey:PropertyID" json:"property"`
	Tenant   User     `gorm:"foreignkey:TenantID" json:"tenant"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
