package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Действие в журнале расписаний.
type HistoryAction string

const (
	HistoryActionCreate       HistoryAction = "CREATE"
	HistoryActionUpdate       HistoryAction = "UPDATE"
	HistoryActionDelete       HistoryAction = "DELETE"
	HistoryActionUndoCreate   HistoryAction = "UNDO_CREATE"
	HistoryActionForceReplace HistoryAction = "FORCE_REPLACE"
)

// schedule_history — журнал аудита, только добавление.
type ScheduleHistory struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	ScheduleID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Action     HistoryAction `gorm:"type:varchar(32);not null;index"`

	// Снимки строки до и после изменения (JSON / JSONB в Postgres).
	OldData datatypes.JSON
	NewData datatypes.JSON

	PerformedBy *uuid.UUID `gorm:"type:uuid;index"`
	PerformedAt time.Time  `gorm:"not null;index"`

	// Журнал не ссылается на физически удалённые строки: удаление каскадное.
	Schedule *Schedule `gorm:"foreignKey:ScheduleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName: имя таблицы без множественного числа, как в исходной схеме.
func (ScheduleHistory) TableName() string { return "schedule_history" }

func (h *ScheduleHistory) BeforeCreate(*gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
