package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is the persisted thread between a tenant and the owner of a
// property. The composite index guarantees a single thread per
// (property, tenant, owner) triple.
type Conversation struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_triple" json:"property_id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_triple" json:"tenant_id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_triple" json:"owner_id"`

	Property Property  `gorm:"foreignkey:PropertyID" json:"property"`
	Tenant   User      `gorm:"foreignkey:TenantID" json:"tenant"`
	Owner    User      `gorm:"foreignkey:OwnerID" json:"owner"`
	Messages []Message `json:"messages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
