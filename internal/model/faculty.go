package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// faculty — преподаватель. Привязан к пользователю приложения через UserID (если есть учётка).
type Faculty struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	EmployeeNo string `gorm:"type:varchar(64)"`
	FirstName  string `gorm:"type:varchar(255);not null"`
	LastName   string `gorm:"type:varchar(255);not null"`

	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive     bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName: таблица исторически называется в единственном числе.
func (Faculty) TableName() string { return "faculty" }

func (f *Faculty) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

func (f *Faculty) FullName() string {
	return f.FirstName + " " + f.LastName
}
