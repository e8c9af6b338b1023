// Package testdb поднимает SQLite в памяти со схемой ядра и даёт фикстуры для тестов.
package testdb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Leganyst/class-scheduler/internal/calendar"
	"github.com/Leganyst/class-scheduler/internal/model"
)

// Open открывает отдельную in-memory базу и мигрирует схему.
// Одно соединение: иначе каждое новое соединение видит свою пустую базу.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, model.AutoMigrate(db), "migrate")
	return db
}

// Fixture — минимальный набор справочников: сетка периодов, активный учебный период,
// два программных департамента (X, Y) и GenEd-департамент.
type Fixture struct {
	DB *gorm.DB

	Periods []model.Period
	Term    model.AcademicTerm

	DeptX model.Department
	DeptY model.Department
	GenEd model.Department
}

func Seed(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{DB: db}

	periods, err := calendar.BuildDayGrid(calendar.DefaultGrid())
	require.NoError(t, err)
	require.NoError(t, db.Create(&periods).Error)
	f.Periods = periods

	f.Term = model.AcademicTerm{Semester: model.SemesterFirst, AcademicYear: "2025-2026", Label: "1st 2025-2026", IsActive: true}
	require.NoError(t, db.Create(&f.Term).Error)

	f.DeptX = model.Department{Code: "CS", Name: "Computer Science", Type: model.DepartmentTypeProgram}
	f.DeptY = model.Department{Code: "EE", Name: "Electrical Engineering", Type: model.DepartmentTypeProgram}
	f.GenEd = model.Department{Code: "GE", Name: "General Education", Type: model.DepartmentTypeGenEd}
	require.NoError(t, db.Create(&f.DeptX).Error)
	require.NoError(t, db.Create(&f.DeptY).Error)
	require.NoError(t, db.Create(&f.GenEd).Error)

	return f
}

// Slot возвращает ID периода по slot_index (с 1).
func (f *Fixture) Slot(index int) uuid.UUID {
	return f.Periods[index-1].ID
}

func (f *Fixture) InactiveTerm(t testing.TB) model.AcademicTerm {
	t.Helper()
	term := model.AcademicTerm{Semester: model.SemesterSecond, AcademicYear: "2024-2025", Label: "2nd 2024-2025"}
	require.NoError(t, f.DB.Create(&term).Error)
	return term
}

func (f *Fixture) Class(t testing.TB, dept uuid.UUID, name string) model.Class {
	t.Helper()
	termID := f.Term.ID
	c := model.Class{ClassName: name, ProgramName: "BS", Section: "A", DepartmentID: dept, AcademicTermID: &termID}
	require.NoError(t, f.DB.Create(&c).Error)
	return c
}

func (f *Fixture) Subject(t testing.TB, dept uuid.UUID, code string, genEd bool) model.Subject {
	t.Helper()
	s := model.Subject{CourseCode: code, Description: code, Units: 3, DepartmentID: dept, IsGenEd: genEd}
	require.NoError(t, f.DB.Create(&s).Error)
	return s
}

func (f *Fixture) Faculty(t testing.TB, dept uuid.UUID, last string) model.Faculty {
	t.Helper()
	fc := model.Faculty{FirstName: "Test", LastName: last, DepartmentID: dept, IsActive: true}
	require.NoError(t, f.DB.Create(&fc).Error)
	return fc
}

func (f *Fixture) Room(t testing.TB, dept *uuid.UUID, name string, sharing model.RoomSharing) model.Room {
	t.Helper()
	r := model.Room{Name: name, DepartmentID: dept, RoomSharing: sharing}
	require.NoError(t, f.DB.Create(&r).Error)
	return r
}

func (f *Fixture) User(t testing.TB, role string, dept *uuid.UUID) model.User {
	t.Helper()
	u := model.User{AuthUserID: uuid.NewString(), Email: role + "@example.edu", Role: role, DepartmentID: dept}
	require.NoError(t, f.DB.Create(&u).Error)
	return u
}

// Placement описывает уже существующее расписание для посева.
type Placement struct {
	Class     model.Class
	Subject   model.Subject
	FacultyID *uuid.UUID
	RoomID    *uuid.UUID
	Day       model.Day
	From, To  int
}

// Schedule вставляет активное расписание вместе с проекцией schedule_periods, минуя оркестратор.
func (f *Fixture) Schedule(t testing.TB, p Placement) model.Schedule {
	t.Helper()
	if p.Day == "" {
		p.Day = model.Monday
	}
	s := model.Schedule{
		ClassID:        p.Class.ID,
		SubjectID:      p.Subject.ID,
		FacultyID:      p.FacultyID,
		RoomID:         p.RoomID,
		DepartmentID:   p.Subject.DepartmentID,
		Day:            p.Day,
		Mode:           model.ModeF2F,
		AcademicTermID: f.Term.ID,
		PeriodStartID:  f.Slot(p.From),
		PeriodEndID:    f.Slot(p.To),
	}
	require.NoError(t, f.DB.Create(&s).Error)

	lo, hi := p.From, p.To
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		row := model.SchedulePeriod{ScheduleID: s.ID, PeriodID: f.Slot(i), Day: s.Day, ClassID: s.ClassID, AcademicTermID: s.AcademicTermID}
		require.NoError(t, f.DB.Create(&row).Error)
	}
	return s
}

func Ptr[T any](v T) *T { return &v }
