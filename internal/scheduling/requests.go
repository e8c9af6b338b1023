package scheduling

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Leganyst/class-scheduler/internal/calendar"
	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/repository"
)

// Actor — аутентифицированный пользователь в том виде, в каком его отдаёт провайдер идентичности.
// Эффективная роль вычисляется ядром на каждый запрос.
type Actor struct {
	UserID       uuid.UUID
	StoredRole   string
	DepartmentID *uuid.UUID
}

// PlacementRequest — создание (ID == nil) или изменение расписания.
type PlacementRequest struct {
	ID             *uuid.UUID         `json:"id"`
	ClassID        uuid.UUID          `json:"class_id" validate:"required"`
	SubjectID      uuid.UUID          `json:"subject_id" validate:"required"`
	FacultyID      *uuid.UUID         `json:"faculty_id"`
	RoomID         *uuid.UUID         `json:"room_id"`
	Day            model.Day          `json:"day" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	Mode           model.DeliveryMode `json:"mode" validate:"omitempty,oneof=F2F ONLINE ASYNC"`
	AcademicTermID *uuid.UUID         `json:"academic_term_id"`
	PeriodStartID  uuid.UUID          `json:"period_start_id" validate:"required"`
	PeriodEndID    uuid.UUID          `json:"period_end_id" validate:"required"`
	Force          bool               `json:"force"`
}

func (r *PlacementRequest) normalize() {
	r.Day = model.Day(strings.ToUpper(strings.TrimSpace(string(r.Day))))
	r.Mode = model.DeliveryMode(strings.ToUpper(strings.TrimSpace(string(r.Mode))))
	if r.Mode == "" {
		r.Mode = model.ModeF2F
	}
}

type ListRequest struct {
	View           repository.ViewKind `json:"view" validate:"required,oneof=CLASS FACULTY ROOM"`
	TargetID       uuid.UUID           `json:"target_id" validate:"required"`
	AcademicTermID *uuid.UUID          `json:"academic_term_id"`
	Page           int                 `json:"page"`
	PageSize       int                 `json:"page_size"`
}

type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusBlocked  Status = "BLOCKED"
)

type ConflictType string

const (
	ConflictRoomPrivate ConflictType = "ROOM_PRIVATE"
	ConflictHard        ConflictType = "HARD"
	ConflictSoft        ConflictType = "SOFT"
)

// ConflictReport — блокирующие расписания, которые вызывающий может заменить с force=true.
type ConflictReport struct {
	Type    ConflictType
	Message string
	Class   []model.Schedule
	Room    []model.Schedule
	Faculty []model.Schedule
}

// Outcome — результат Propose. Blocked не ошибка, а ответ с конфликтами.
type Outcome struct {
	Status        Status
	Schedule      *model.Schedule
	Conflict      *ConflictReport
	Replaced      []uuid.UUID
	Warnings      []string
	UndoExpiresAt time.Time
}

type RemoveResult struct {
	ID       uuid.UUID
	Warnings []string
}

type UndoResult struct {
	ID       uuid.UUID
	Warnings []string
}

type PreviewResult struct {
	Conflicts  Conflicts
	RoomPolicy []model.Schedule
	// nil — размещение не блокируется.
	Blocking *ConflictReport
}

// ListedSchedule: строка сетки с пометкой, может ли вызывающий её редактировать.
type ListedSchedule struct {
	Schedule model.Schedule
	CanEdit  bool
}

type ListResult = calendar.Page[ListedSchedule]

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return validationError("", "%v", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return validationError(fe.Field(), "%s is required", fe.Field())
	case "oneof":
		return validationError(fe.Field(), "%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return validationError(fe.Field(), "%s is invalid", fe.Field())
	}
}
