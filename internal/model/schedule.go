package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// День недели в каноническом виде.
type Day string

const (
	Monday    Day = "MONDAY"
	Tuesday   Day = "TUESDAY"
	Wednesday Day = "WEDNESDAY"
	Thursday  Day = "THURSDAY"
	Friday    Day = "FRIDAY"
	Saturday  Day = "SATURDAY"
	Sunday    Day = "SUNDAY"
)

var dayOrder = map[Day]int{
	Monday: 1, Tuesday: 2, Wednesday: 3, Thursday: 4, Friday: 5, Saturday: 6, Sunday: 7,
}

// Ordinal возвращает порядковый номер дня (понедельник = 1), 0 для неизвестного значения.
func (d Day) Ordinal() int { return dayOrder[d] }

func (d Day) Valid() bool { return dayOrder[d] > 0 }

// Формат проведения занятия.
type DeliveryMode string

const (
	ModeF2F    DeliveryMode = "F2F"
	ModeOnline DeliveryMode = "ONLINE"
	ModeAsync  DeliveryMode = "ASYNC"
)

// schedules — размещение занятия в сетке.
type Schedule struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	ClassID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	SubjectID uuid.UUID  `gorm:"type:uuid;not null;index"`
	FacultyID *uuid.UUID `gorm:"type:uuid;index"`
	RoomID    *uuid.UUID `gorm:"type:uuid;index"`

	// Всегда департамент дисциплины, а не группы.
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index"`

	Day  Day          `gorm:"type:varchar(16);not null;index:idx_schedules_term_day,priority:2"`
	Mode DeliveryMode `gorm:"type:varchar(16);not null;default:'F2F'"`

	AcademicTermID uuid.UUID `gorm:"type:uuid;not null;index:idx_schedules_term_day,priority:1"`

	PeriodStartID uuid.UUID `gorm:"type:uuid;not null"`
	PeriodEndID   uuid.UUID `gorm:"type:uuid;not null"`

	IsDeleted bool `gorm:"not null;default:false;index"`

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`

	// Навигационные поля для Preload в списках.
	Class       *Class   `gorm:"foreignKey:ClassID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Subject     *Subject `gorm:"foreignKey:SubjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Faculty     *Faculty `gorm:"foreignKey:FacultyID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Room        *Room    `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	PeriodStart *Period  `gorm:"foreignKey:PeriodStartID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	PeriodEnd   *Period  `gorm:"foreignKey:PeriodEndID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (s *Schedule) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	if s.Mode == "" {
		s.Mode = ModeF2F
	}
	return nil
}

// schedule_periods — развёрнутая проекция: по строке на каждый покрытый период.
// Не источник истины; пересобирается целиком при изменении диапазона.
// Уникальный индекс по (группа, период обучения, день, период) — последняя линия защиты
// от двойного бронирования группы при гонке двух запросов.
type SchedulePeriod struct {
	ScheduleID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PeriodID   uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:idx_schedule_periods_class_slot,priority:4"`

	Day            Day       `gorm:"type:varchar(16);not null;uniqueIndex:idx_schedule_periods_class_slot,priority:3"`
	ClassID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_periods_class_slot,priority:1"`
	AcademicTermID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_periods_class_slot,priority:2"`

	Schedule *Schedule `gorm:"foreignKey:ScheduleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
