package scheduling

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/notify"
	"github.com/Leganyst/class-scheduler/internal/repository"
	"github.com/Leganyst/class-scheduler/internal/testdb"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type env struct {
	f     *testdb.Fixture
	store *repository.Store
	orch  *Orchestrator
	clock *fakeClock
	pub   *notify.Recorder

	deanX    model.User
	deanY    model.User
	genEd    model.User
	admin    model.User
	lecturer model.User

	classX model.Class
	classY model.Class
	subjX  model.Subject
	subjY  model.Subject
	subjGE model.Subject
	facX   model.Faculty
	facX2  model.Faculty
	roomX  model.Room
	shared model.Room
	campus model.Room
}

func newEnv(t *testing.T, tweak ...func(*Options)) *env {
	t.Helper()

	db := testdb.Open(t)
	f := testdb.Seed(t, db)

	e := &env{
		f:     f,
		store: repository.NewStore(db),
		clock: &fakeClock{now: time.Date(2025, 8, 4, 8, 0, 0, 0, time.UTC)},
		pub:   &notify.Recorder{},
	}

	e.deanX = f.User(t, "DEAN", &f.DeptX.ID)
	e.deanY = f.User(t, "DEAN", &f.DeptY.ID)
	e.genEd = f.User(t, "dean", &f.GenEd.ID)
	e.admin = f.User(t, "ADMIN", nil)
	e.lecturer = f.User(t, "FACULTY", &f.DeptX.ID)

	e.classX = f.Class(t, f.DeptX.ID, "BSCS 1A")
	e.classY = f.Class(t, f.DeptY.ID, "BSEE 1A")
	e.subjX = f.Subject(t, f.DeptX.ID, "CS101", false)
	e.subjY = f.Subject(t, f.DeptY.ID, "EE101", false)
	e.subjGE = f.Subject(t, f.GenEd.ID, "GE101", true)
	e.facX = f.Faculty(t, f.DeptX.ID, "Turing")
	e.facX2 = f.Faculty(t, f.DeptX.ID, "Hopper")
	require.NoError(t, db.Model(&e.facX).Update("user_id", e.lecturer.ID).Error)
	e.roomX = f.Room(t, &f.DeptX.ID, "CS-201", model.RoomSharingPrivate)
	e.shared = f.Room(t, &f.DeptX.ID, "Hall A", model.RoomSharingShared)
	e.campus = f.Room(t, nil, "Gym", model.RoomSharingPrivate)

	opts := Options{
		Now:       e.clock.Now,
		Logger:    quietLogger(),
		Publisher: e.pub,
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	e.orch = NewOrchestrator(e.store, opts)
	return e
}

func actorOf(u model.User) Actor {
	return Actor{UserID: u.ID, StoredRole: u.Role, DepartmentID: u.DepartmentID}
}

// req собирает запрос на создание в понедельник со слотами [from, to].
func (e *env) req(class model.Class, subj model.Subject, from, to int) PlacementRequest {
	return PlacementRequest{
		ClassID:       class.ID,
		SubjectID:     subj.ID,
		Day:           model.Monday,
		PeriodStartID: e.f.Slot(from),
		PeriodEndID:   e.f.Slot(to),
	}
}

func (e *env) reload(t *testing.T, id uuid.UUID) *model.Schedule {
	t.Helper()
	s, err := e.store.Schedules.GetByID(t.Context(), id)
	require.NoError(t, err)
	return s
}

func (e *env) history(t *testing.T, id uuid.UUID) []model.ScheduleHistory {
	t.Helper()
	h, err := e.store.History.ListBySchedule(t.Context(), id)
	require.NoError(t, err)
	return h
}

func (e *env) projection(t *testing.T, id uuid.UUID) []model.SchedulePeriod {
	t.Helper()
	rows, err := e.store.Schedules.ListPeriods(t.Context(), id)
	require.NoError(t, err)
	return rows
}

// assertNoClassOverlap проверяет, что активные расписания одной группы не пересекаются.
func (e *env) assertNoClassOverlap(t *testing.T) {
	t.Helper()
	var all []model.Schedule
	require.NoError(t, e.f.DB.Where("is_deleted = ?", false).Find(&all).Error)

	slots, err := LoadSlotIndex(t.Context(), e.store)
	require.NoError(t, err)

	for i := range all {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.ClassID != b.ClassID || a.Day != b.Day || a.AcademicTermID != b.AcademicTermID {
				continue
			}
			ra, err := slots.RangeOf(a.PeriodStartID, a.PeriodEndID)
			require.NoError(t, err)
			rb, err := slots.RangeOf(b.PeriodStartID, b.PeriodEndID)
			require.NoError(t, err)
			require.Falsef(t, ra.Overlaps(rb), "class %s double-booked: %s vs %s", a.ClassID, ra, rb)
		}
	}
}

func ids(list []model.Schedule) []uuid.UUID { return idsOf(list) }
