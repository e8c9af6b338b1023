package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Тип департамента: программный (обычный факультет) или общеобразовательный.
type DepartmentType string

const (
	DepartmentTypeProgram DepartmentType = "PROGRAM"
	DepartmentTypeGenEd   DepartmentType = "GENED"
)

// departments
type Department struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Code string         `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name string         `gorm:"type:varchar(255);not null"`
	Type DepartmentType `gorm:"type:varchar(16);not null;default:'PROGRAM'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (d *Department) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

// ensureID проставляет UUID, если он не задан вызывающим кодом.
// Генерация на стороне приложения, чтобы схема одинаково работала в Postgres и SQLite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
