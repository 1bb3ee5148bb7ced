package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubCity  string    `gorm:"size:100;not null" json:"sub_city"`
	Woreda   string    `gorm:"size:50" json:"woreda"`
	Kebele   string    `gorm:"size:50" json:"kebele"`
	HouseNo  string    `gorm:"size:50" json:"house_no"`
	AreaName string    `gorm:"size:255" json:"area_name"`

	CreatedAt time.Time `json:"-"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
