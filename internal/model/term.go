package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Semester string

const (
	SemesterFirst  Semester = "1ST"
	SemesterSecond Semester = "2ND"
	SemesterSummer Semester = "SUMMER"
)

// academic_terms — учебный период (семестр конкретного учебного года).
type AcademicTerm struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Semester     Semester `gorm:"type:varchar(16);not null"`
	AcademicYear string   `gorm:"type:varchar(16);not null"` // "2024-2025"
	Label        string   `gorm:"type:varchar(255)"`

	// Создавать и менять расписания можно только в активном периоде.
	IsActive bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (t *AcademicTerm) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
