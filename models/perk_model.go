package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Perk is a named amenity flag attached to a property. The set is replaced
// wholesale on property update.
type Perk struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
}

func (p *Perk) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
