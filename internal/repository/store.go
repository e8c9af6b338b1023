package repository

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store — явный дескриптор хранилища, который передаётся во все вызовы ядра.
// Внутри транзакции создаётся новый Store поверх *gorm.DB транзакции.
type Store struct {
	db *gorm.DB

	Periods    PeriodRepository
	Schedules  ScheduleRepository
	History    HistoryRepository
	References ReferenceRepository
	Users      UserRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Periods:    NewGormPeriodRepository(db),
		Schedules:  NewGormScheduleRepository(db),
		History:    NewGormHistoryRepository(db),
		References: NewGormReferenceRepository(db),
		Users:      NewGormUserRepository(db),
	}
}

// DB отдаёт исходный *gorm.DB (для миграций и health-check).
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction выполняет fn в одной транзакции БД.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// SavePoint / RollbackTo имеют смысл только для Store внутри Transaction.
func (s *Store) SavePoint(name string) error {
	return pkgerrors.Wrapf(s.db.SavePoint(name).Error, "savepoint %s", name)
}

func (s *Store) RollbackTo(name string) error {
	return pkgerrors.Wrapf(s.db.RollbackTo(name).Error, "rollback to %s", name)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return pkgerrors.Wrap(err, "sql DB")
	}
	return sqlDB.PingContext(ctx)
}

// IsNotFound сообщает, что запись не найдена (с учётом обёрток).
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate распознаёт нарушение уникальности. GORM переводит его в ErrDuplicatedKey
// при TranslateError; строковые проверки — для драйверов без переводчика.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func first[T any](ctx context.Context, db *gorm.DB, id any) (*T, error) {
	var v T
	if err := db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}
