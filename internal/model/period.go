package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// periods — неизменяемый отрезок учебного дня.
// SlotIndex плотный, начинается с 1 и строго растёт вместе со временем начала.
type Period struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	SlotIndex int `gorm:"not null;uniqueIndex"`

	// Время дня в формате "15:04:05".
	StartTime string `gorm:"type:varchar(8);not null"`
	EndTime   string `gorm:"type:varchar(8);not null"`

	IsAutoGenerated bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

func (p *Period) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
