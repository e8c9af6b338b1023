package repository

import (
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Leganyst/class-scheduler/internal/model"
)

// HistoryRepository — журнал schedule_history, только добавление.
type HistoryRepository interface {
	Append(ctx context.Context, h *model.ScheduleHistory) error
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.ScheduleHistory, error)
}

type GormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Append(ctx context.Context, h *model.ScheduleHistory) error {
	err := r.db.WithContext(ctx).Omit("Schedule").Create(h).Error
	return pkgerrors.Wrapf(err, "append history %s for %s", h.Action, h.ScheduleID)
}

func (r *GormHistoryRepository) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.ScheduleHistory, error) {
	var out []model.ScheduleHistory
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("performed_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list history")
	}
	return out, nil
}
