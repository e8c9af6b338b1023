package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/class-scheduler/internal/model"
)

// CandidateQuery — выборка потенциальных конфликтов: те же период обучения и день,
// не удалённые, совпадающие по группе, преподавателю или аудитории.
type CandidateQuery struct {
	AcademicTermID uuid.UUID
	Day            model.Day
	ClassID        uuid.UUID
	FacultyID      *uuid.UUID
	RoomID         *uuid.UUID
	ExcludeID      *uuid.UUID
}

// ViewKind — срез сетки для списка расписаний.
type ViewKind string

const (
	ViewClass   ViewKind = "CLASS"
	ViewFaculty ViewKind = "FACULTY"
	ViewRoom    ViewKind = "ROOM"
)

type ListQuery struct {
	View           ViewKind
	TargetID       uuid.UUID
	AcademicTermID uuid.UUID
	// Ограничение по департаменту расписания (для деканов).
	DepartmentID *uuid.UUID
	Limit        int
	Offset       int
}

type ScheduleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	FindCandidates(ctx context.Context, q CandidateQuery) ([]model.Schedule, error)
	Create(ctx context.Context, s *model.Schedule) error
	Update(ctx context.Context, s *model.Schedule) error
	// SoftDelete помечает строку удалённой, только если она ещё активна.
	// Возвращает false, если строка уже удалена или отсутствует.
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// ReplacePeriods пересобирает проекцию schedule_periods для расписания.
	ReplacePeriods(ctx context.Context, scheduleID uuid.UUID, rows []model.SchedulePeriod) error
	DeletePeriods(ctx context.Context, scheduleIDs ...uuid.UUID) error
	ListPeriods(ctx context.Context, scheduleID uuid.UUID) ([]model.SchedulePeriod, error)
	List(ctx context.Context, q ListQuery) ([]model.Schedule, int64, error)
}

type GormScheduleRepository struct {
	db *gorm.DB
}

func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

func (r *GormScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	s, err := first[model.Schedule](ctx, r.db, id)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "get schedule %s", id)
	}
	return s, nil
}

func (r *GormScheduleRepository) FindCandidates(ctx context.Context, q CandidateQuery) ([]model.Schedule, error) {
	match := r.db.Where("class_id = ?", q.ClassID)
	if q.FacultyID != nil {
		match = match.Or("faculty_id = ?", *q.FacultyID)
	}
	if q.RoomID != nil {
		match = match.Or("room_id = ?", *q.RoomID)
	}

	tx := r.db.WithContext(ctx).
		Where("academic_term_id = ? AND day = ? AND is_deleted = ?", q.AcademicTermID, q.Day, false).
		Where(match)
	if q.ExcludeID != nil {
		tx = tx.Where("id <> ?", *q.ExcludeID)
	}

	var out []model.Schedule
	if err := tx.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "find conflict candidates")
	}
	return out, nil
}

func (r *GormScheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	return pkgerrors.Wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error, "create schedule")
}

func (r *GormScheduleRepository) Update(ctx context.Context, s *model.Schedule) error {
	err := r.db.WithContext(ctx).
		Model(s).
		Select(
			"class_id", "subject_id", "faculty_id", "room_id", "department_id",
			"day", "mode", "academic_term_id", "period_start_id", "period_end_id", "updated_at",
		).
		Updates(s).Error
	return pkgerrors.Wrapf(err, "update schedule %s", s.ID)
}

func (r *GormScheduleRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "updated_at": at})
	if res.Error != nil {
		return false, pkgerrors.Wrapf(res.Error, "soft delete schedule %s", id)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormScheduleRepository) ReplacePeriods(ctx context.Context, scheduleID uuid.UUID, rows []model.SchedulePeriod) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("schedule_id = ?", scheduleID).Delete(&model.SchedulePeriod{}).Error; err != nil {
		return pkgerrors.Wrap(err, "clear schedule periods")
	}
	if len(rows) == 0 {
		return nil
	}
	// Ошибку не оборачиваем текстом, чтобы IsDuplicate видел исходное нарушение уникальности.
	return pkgerrors.WithStack(db.Omit(clause.Associations).Create(&rows).Error)
}

func (r *GormScheduleRepository) DeletePeriods(ctx context.Context, scheduleIDs ...uuid.UUID) error {
	if len(scheduleIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("schedule_id IN ?", scheduleIDs).Delete(&model.SchedulePeriod{}).Error
	return pkgerrors.Wrap(err, "delete schedule periods")
}

func (r *GormScheduleRepository) ListPeriods(ctx context.Context, scheduleID uuid.UUID) ([]model.SchedulePeriod, error) {
	var rows []model.SchedulePeriod
	if err := r.db.WithContext(ctx).Where("schedule_id = ?", scheduleID).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list schedule periods")
	}
	return rows, nil
}

func (r *GormScheduleRepository) List(ctx context.Context, q ListQuery) ([]model.Schedule, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Schedule{}).
		Where("schedules.academic_term_id = ? AND schedules.is_deleted = ?", q.AcademicTermID, false)

	switch q.View {
	case ViewClass:
		base = base.Where("schedules.class_id = ?", q.TargetID)
	case ViewFaculty:
		base = base.Where("schedules.faculty_id = ?", q.TargetID)
	case ViewRoom:
		base = base.Where("schedules.room_id = ?", q.TargetID)
	default:
		return nil, 0, pkgerrors.Errorf("unknown view %q", q.View)
	}
	if q.DepartmentID != nil {
		base = base.Where("schedules.department_id = ?", *q.DepartmentID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count schedules")
	}

	var out []model.Schedule
	tx := base.Session(&gorm.Session{}).
		Joins("JOIN periods ps ON ps.id = schedules.period_start_id").
		Preload("Class").Preload("Subject").Preload("Faculty").Preload("Room").
		Preload("PeriodStart").Preload("PeriodEnd").
		Order(dayOrderSQL + ", ps.slot_index ASC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}
	if err := tx.Find(&out).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list schedules")
	}
	return out, total, nil
}

// Порядок дней недели в SQL; лексикографическая сортировка строк дней неверна.
const dayOrderSQL = `CASE schedules.day
	WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3
	WHEN 'THURSDAY' THEN 4 WHEN 'FRIDAY' THEN 5 WHEN 'SATURDAY' THEN 6
	ELSE 7 END`
