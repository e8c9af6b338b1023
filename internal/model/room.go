package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Политика совместного использования аудитории.
type RoomSharing string

const (
	RoomSharingPrivate RoomSharing = "PRIVATE"
	RoomSharingShared  RoomSharing = "SHARED"
)

// rooms
type Room struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name string `gorm:"type:varchar(255);not null"`

	// nil — общая аудитория кампуса без департамента-владельца.
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`

	RoomSharing RoomSharing `gorm:"type:varchar(16);not null;default:'PRIVATE'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (r *Room) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	if r.RoomSharing == "" {
		r.RoomSharing = RoomSharingPrivate
	}
	return nil
}

// IsShared: всё, что не SHARED, считается PRIVATE (значение по умолчанию).
func (r *Room) IsShared() bool {
	return r != nil && strings.EqualFold(string(r.RoomSharing), string(RoomSharingShared))
}
