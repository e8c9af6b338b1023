package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра расписаний.
// Порядок важен: справочники раньше расписаний, расписания раньше проекции и журнала.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Department{},
		&AcademicTerm{},
		&Period{},
		&User{},
		&Class{},
		&Subject{},
		&Faculty{},
		&Room{},
		&Schedule{},
		&SchedulePeriod{},
		&ScheduleHistory{},
	)
}
