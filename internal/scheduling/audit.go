package scheduling

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/Leganyst/class-scheduler/internal/metrics"
	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/repository"
)

// scheduleImage — снимок строки schedules для old_data/new_data журнала.
type scheduleImage struct {
	ID             uuid.UUID          `json:"id"`
	ClassID        uuid.UUID          `json:"class_id"`
	SubjectID      uuid.UUID          `json:"subject_id"`
	FacultyID      *uuid.UUID         `json:"faculty_id"`
	RoomID         *uuid.UUID         `json:"room_id"`
	DepartmentID   uuid.UUID          `json:"department_id"`
	Day            model.Day          `json:"day"`
	Mode           model.DeliveryMode `json:"mode"`
	AcademicTermID uuid.UUID          `json:"academic_term_id"`
	PeriodStartID  uuid.UUID          `json:"period_start_id"`
	PeriodEndID    uuid.UUID          `json:"period_end_id"`
	IsDeleted      bool               `json:"is_deleted"`
	CreatedBy      *uuid.UUID         `json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func imageOf(s *model.Schedule) datatypes.JSON {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(scheduleImage{
		ID:             s.ID,
		ClassID:        s.ClassID,
		SubjectID:      s.SubjectID,
		FacultyID:      s.FacultyID,
		RoomID:         s.RoomID,
		DepartmentID:   s.DepartmentID,
		Day:            s.Day,
		Mode:           s.Mode,
		AcademicTermID: s.AcademicTermID,
		PeriodStartID:  s.PeriodStartID,
		PeriodEndID:    s.PeriodEndID,
		IsDeleted:      s.IsDeleted,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func historyEntry(action model.HistoryAction, id uuid.UUID, before, after *model.Schedule, actor *uuid.UUID, at time.Time) *model.ScheduleHistory {
	return &model.ScheduleHistory{
		ScheduleID:  id,
		Action:      action,
		OldData:     imageOf(before),
		NewData:     imageOf(after),
		PerformedBy: actor,
		PerformedAt: at,
	}
}

func deletedCopy(s *model.Schedule, at time.Time) *model.Schedule {
	c := *s
	c.IsDeleted = true
	c.UpdatedAt = at
	return &c
}

// AuditSink дописывает журнал после фиксации изменения. Ошибка записи
// не откатывает изменение и возвращается вызывающему как предупреждение.
type AuditSink struct {
	log     *logrus.Entry
	metrics *metrics.Metrics
}

func NewAuditSink(log *logrus.Entry, m *metrics.Metrics) *AuditSink {
	return &AuditSink{log: log, metrics: m}
}

// Record возвращает текст предупреждения или пустую строку.
func (a *AuditSink) Record(ctx context.Context, store *repository.Store, entry *model.ScheduleHistory) string {
	if err := store.History.Append(ctx, entry); err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{
			"schedule_id": entry.ScheduleID,
			"action":      entry.Action,
		}).Warn("audit write failed")
		a.metrics.Warning("audit")
		return "Audit log entry could not be written"
	}
	return ""
}
