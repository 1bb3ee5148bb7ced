package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Property struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID         uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	LocationID      uuid.UUID `gorm:"type:uuid;not null" json:"location_id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	Price           float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	MaxGuests       int       `gorm:"not null;default:1" json:"max_guests"`
	IsBrokerListing bool      `gorm:"default:false" json:"is_broker_listing"`

	Owner    User     `gorm:"foreignkey:OwnerID" json:"owner"`
	Location Location `gorm:"foreignkey:LocationID" json:"location"`
	Perks    []Perk   `json:"perks"`
	Photos   []Photo  `json:"photos"`
	Reviews  []Review `json:"reviews,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
