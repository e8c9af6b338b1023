package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Статус учётной записи.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBlocked  UserStatus = "blocked"
)

// users — пользователь приложения. AuthUserID — subject из токена провайдера идентификации.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	AuthUserID string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Email      string `gorm:"type:varchar(255)"`

	// Хранимая роль: ADMIN / DEAN / FACULTY. GENED вычисляется на лету по типу департамента.
	Role         string     `gorm:"type:varchar(32);not null"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`

	Status UserStatus `gorm:"type:varchar(16);not null;default:'active'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}
