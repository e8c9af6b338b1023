package repository

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Leganyst/class-scheduler/internal/model"
)

type PeriodRepository interface {
	// Все периоды дня по возрастанию slot_index.
	List(ctx context.Context) ([]model.Period, error)
	Count(ctx context.Context) (int64, error)
	// Полная замена сетки периодов (генерация).
	ReplaceAll(ctx context.Context, periods []model.Period) error
	Create(ctx context.Context, periods []model.Period) error
}

type GormPeriodRepository struct {
	db *gorm.DB
}

func NewGormPeriodRepository(db *gorm.DB) *GormPeriodRepository {
	return &GormPeriodRepository{db: db}
}

func (r *GormPeriodRepository) List(ctx context.Context) ([]model.Period, error) {
	var periods []model.Period
	if err := r.db.WithContext(ctx).Order("slot_index ASC").Find(&periods).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list periods")
	}
	return periods, nil
}

func (r *GormPeriodRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Period{}).Count(&n).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "count periods")
	}
	return n, nil
}

func (r *GormPeriodRepository) ReplaceAll(ctx context.Context, periods []model.Period) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Period{}).Error; err != nil {
			return pkgerrors.Wrap(err, "delete periods")
		}
		if len(periods) == 0 {
			return nil
		}
		return pkgerrors.Wrap(tx.Create(&periods).Error, "insert periods")
	})
}

func (r *GormPeriodRepository) Create(ctx context.Context, periods []model.Period) error {
	if len(periods) == 0 {
		return nil
	}
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(&periods).Error, "insert periods")
}
