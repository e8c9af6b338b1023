package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// classes — учебная группа (секция) конкретной программы.
type Class struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	ClassName      string `gorm:"type:varchar(255);not null"`
	ProgramName    string `gorm:"type:varchar(255)"`
	Section        string `gorm:"type:varchar(32)"`
	YearLevelLabel string `gorm:"type:varchar(64)"`

	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Период по умолчанию для расписаний группы, если в запросе он не указан.
	AcademicTermID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (c *Class) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// subjects — дисциплина учебного плана. Департамент дисциплины владеет её расписаниями.
type Subject struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	CourseCode  string `gorm:"type:varchar(32);not null;index"`
	Description string `gorm:"type:text"`
	Units       int    `gorm:"not null;default:0"`

	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Общеобразовательная дисциплина: её расписанием управляет GenEd-декан.
	IsGenEd bool `gorm:"column:is_gened;not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (s *Subject) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
