package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Leganyst/class-scheduler/internal/model"
)

type UserRepository interface {
	FindByAuthUserID(ctx context.Context, authUserID string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	SetRole(ctx context.Context, userID uuid.UUID, role string) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByAuthUserID(ctx context.Context, authUserID string) (*model.User, error) {
	authUserID = strings.TrimSpace(authUserID)
	if authUserID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var u model.User
	if err := r.db.WithContext(ctx).Where("auth_user_id = ?", authUserID).First(&u).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "find user by auth id")
	}
	return &u, nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := first[model.User](ctx, r.db, id)
	return u, pkgerrors.Wrapf(err, "get user %s", id)
}

func (r *GormUserRepository) Create(ctx context.Context, u *model.User) error {
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(u).Error, "create user")
}

// SetRole хранит роль в каноническом верхнем регистре.
func (r *GormUserRepository) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("role", strings.ToUpper(strings.TrimSpace(role)))
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "set role")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
