package repository

import (
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Leganyst/class-scheduler/internal/model"
)

// ReferenceRepository — справочники, на которые ссылаются расписания.
type ReferenceRepository interface {
	GetClass(ctx context.Context, id uuid.UUID) (*model.Class, error)
	GetSubject(ctx context.Context, id uuid.UUID) (*model.Subject, error)
	GetFaculty(ctx context.Context, id uuid.UUID) (*model.Faculty, error)
	// FindFacultyByUserID возвращает запись преподавателя, привязанную к учётке.
	FindFacultyByUserID(ctx context.Context, userID uuid.UUID) (*model.Faculty, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*model.Room, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error)
	GetTerm(ctx context.Context, id uuid.UUID) (*model.AcademicTerm, error)
	// ActiveTerm — текущий активный учебный период (если их несколько, самый поздний).
	ActiveTerm(ctx context.Context) (*model.AcademicTerm, error)
}

type GormReferenceRepository struct {
	db *gorm.DB
}

func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

func (r *GormReferenceRepository) GetClass(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	v, err := first[model.Class](ctx, r.db, id)
	return v, pkgerrors.Wrapf(err, "get class %s", id)
}

func (r *GormReferenceRepository) GetSubject(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	v, err := first[model.Subject](ctx, r.db, id)
	return v, pkgerrors.Wrapf(err, "get subject %s", id)
}

func (r *GormReferenceRepository) GetFaculty(ctx context.Context, id uuid.UUID) (*model.Faculty, error) {
	v, err := first[model.Faculty](ctx, r.db, id)
	return v, pkgerrors.Wrapf(err, "get faculty %s", id)
}

func (r *GormReferenceRepository) FindFacultyByUserID(ctx context.Context, userID uuid.UUID) (*model.Faculty, error) {
	var f model.Faculty
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&f).Error; err != nil {
		return nil, pkgerrors.Wrapf(err, "faculty for user %s", userID)
	}
	return &f, nil
}

func (r *GormReferenceRepository) GetRoom(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	v, err := first[model.Room](ctx, r.db, id)
	return v, pkgerrors.Wrapf(err, "get room %s", id)
}

func (r *GormReferenceRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	v, err := first[model.Department](ctx, r.db, id)
	return v, pkgerrors.Wrapf(err, "get department %s", id)
}

func (r *GormReferenceRepository) GetTerm(ctx context.Context, id uuid.UUID) (*model.AcademicTerm, error) {
	v, err := first[model.AcademicTerm](ctx, r.db, id)
	return v, pkgerrors.Wrapf(err, "get academic term %s", id)
}

func (r *GormReferenceRepository) ActiveTerm(ctx context.Context) (*model.AcademicTerm, error) {
	var t model.AcademicTerm
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&t).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "active academic term")
	}
	return &t, nil
}
