package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/class-scheduler/internal/metrics"
	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/repository"
)

type Placement struct {
	ClassID        uuid.UUID
	FacultyID      *uuid.UUID
	RoomID         *uuid.UUID
	Day            model.Day
	PeriodStartID  uuid.UUID
	PeriodEndID    uuid.UUID
	AcademicTermID uuid.UUID
	// Расписание, которое сейчас редактируется; само с собой не конфликтует.
	ExcludeID *uuid.UUID
}

// Conflicts — пересекающиеся активные расписания по измерениям ресурса.
// Одно расписание может попасть сразу в несколько списков.
type Conflicts struct {
	Class   []model.Schedule
	Faculty []model.Schedule
	Room    []model.Schedule
}

// Hard: группа ∪ аудитория, без повторов.
func (c Conflicts) Hard() []model.Schedule { return unionByID(c.Class, c.Room) }

// Soft: только преподаватель.
func (c Conflicts) Soft() []model.Schedule { return c.Faculty }

func (c Conflicts) Empty() bool {
	return len(c.Class) == 0 && len(c.Faculty) == 0 && len(c.Room) == 0
}

func unionByID(lists ...[]model.Schedule) []model.Schedule {
	seen := make(map[uuid.UUID]struct{})
	var out []model.Schedule
	for _, l := range lists {
		for _, s := range l {
			if _, ok := seen[s.ID]; ok {
				continue
			}
			seen[s.ID] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func idsOf(list []model.Schedule) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	return ids
}

type Engine struct {
	log     *logrus.Entry
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewEngine(log *logrus.Entry, m *metrics.Metrics, now func() time.Time) *Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{log: log, metrics: m, now: now}
}

// Evaluation — одна оценка конфликтов поверх снимка индексов слотов.
// Снимок загружается один раз и живёт только в рамках запроса.
type Evaluation struct {
	engine *Engine
	store  *repository.Store
	slots  *SlotIndex
	rooms  map[uuid.UUID]*model.Room
}

func (e *Engine) Begin(ctx context.Context, store *repository.Store) (*Evaluation, error) {
	slots, err := LoadSlotIndex(ctx, store)
	if err != nil {
		return nil, err
	}
	return &Evaluation{engine: e, store: store, slots: slots, rooms: make(map[uuid.UUID]*model.Room)}, nil
}

func (ev *Evaluation) Slots() *SlotIndex { return ev.slots }

func (ev *Evaluation) room(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	if r, ok := ev.rooms[id]; ok {
		return r, nil
	}
	r, err := ev.store.References.GetRoom(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("room", id)
		}
		return nil, persistence("load room", err)
	}
	ev.rooms[id] = r
	return r, nil
}

// FindConflicts ищет активные расписания того же периода обучения и дня, которые
// совпадают хотя бы по одному ресурсу и пересекаются по слотам.
// Аудитории SHARED конфликтов по аудитории не дают.
func (ev *Evaluation) FindConflicts(ctx context.Context, p Placement) (Conflicts, error) {
	want, err := ev.slots.RangeOf(p.PeriodStartID, p.PeriodEndID)
	if err != nil {
		return Conflicts{}, err
	}

	roomBlocks := false
	if p.RoomID != nil {
		r, err := ev.room(ctx, *p.RoomID)
		if err != nil {
			return Conflicts{}, err
		}
		roomBlocks = !r.IsShared()
	}

	candidates, err := ev.store.Schedules.FindCandidates(ctx, repository.CandidateQuery{
		AcademicTermID: p.AcademicTermID,
		Day:            p.Day,
		ClassID:        p.ClassID,
		FacultyID:      p.FacultyID,
		RoomID:         p.RoomID,
		ExcludeID:      p.ExcludeID,
	})
	if err != nil {
		return Conflicts{}, persistence("load conflict candidates", err)
	}

	var out Conflicts
	for _, c := range candidates {
		if p.ExcludeID != nil && c.ID == *p.ExcludeID {
			continue
		}
		have, err := ev.slots.RangeOf(c.PeriodStartID, c.PeriodEndID)
		if err != nil {
			ev.engine.log.WithField("schedule_id", c.ID).Warn("schedule references unknown period, skipped")
			continue
		}
		if !want.Overlaps(have) {
			continue
		}

		if c.ClassID == p.ClassID {
			out.Class = append(out.Class, c)
		}
		if p.FacultyID != nil && c.FacultyID != nil && *c.FacultyID == *p.FacultyID {
			out.Faculty = append(out.Faculty, c)
		}
		if roomBlocks && c.RoomID != nil && *c.RoomID == *p.RoomID {
			out.Room = append(out.Room, c)
		}
	}
	return out, nil
}

// ValidateRoomSharingPolicy проверяет только пересечения по аудитории.
// Пустой результат — аудитория свободна или SHARED.
func (ev *Evaluation) ValidateRoomSharingPolicy(ctx context.Context, roomID uuid.UUID, p Placement) ([]model.Schedule, error) {
	r, err := ev.room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if r.IsShared() {
		return nil, nil
	}

	// uuid.Nil не совпадает ни с одной группой.
	probe := Placement{
		ClassID:        uuid.Nil,
		RoomID:         &roomID,
		Day:            p.Day,
		PeriodStartID:  p.PeriodStartID,
		PeriodEndID:    p.PeriodEndID,
		AcademicTermID: p.AcademicTermID,
		ExcludeID:      p.ExcludeID,
	}
	c, err := ev.FindConflicts(ctx, probe)
	if err != nil {
		return nil, err
	}
	return c.Room, nil
}

// ReplaceResult — итог принудительной замены; частичный успех допустим.
type ReplaceResult struct {
	Replaced []uuid.UUID
	Warnings []string
}

// SoftDeleteConflicts мягко удаляет расписания и пишет FORCE_REPLACE в журнал.
// Флаг, очистка проекции и запись журнала атомарны для каждого расписания, но не для всей пачки:
// ошибки превращаются в предупреждения, обработка продолжается.
func (e *Engine) SoftDeleteConflicts(ctx context.Context, store *repository.Store, ids []uuid.UUID, actor *uuid.UUID) ReplaceResult {
	var res ReplaceResult
	for _, id := range ids {
		at := e.now()
		var gone bool
		err := store.Transaction(ctx, func(tx *repository.Store) error {
			before, err := tx.Schedules.GetByID(ctx, id)
			if err != nil {
				return err
			}
			ok, err := tx.Schedules.SoftDelete(ctx, id, at)
			if err != nil {
				return err
			}
			if !ok {
				gone = true
				return nil
			}
			if err := tx.Schedules.DeletePeriods(ctx, id); err != nil {
				return err
			}
			return tx.History.Append(ctx, historyEntry(model.HistoryActionForceReplace, id, before, deletedCopy(before, at), actor, at))
		})

		log := e.log.WithFields(logrus.Fields{"stage": "replacing", "schedule_id": id})
		switch {
		case err != nil:
			log.WithError(err).Warn("force replace failed")
			e.metrics.Warning("replace")
			res.Warnings = append(res.Warnings, fmt.Sprintf("Could not replace schedule %s", id))
			continue
		case gone:
			res.Warnings = append(res.Warnings, fmt.Sprintf("Schedule %s was already removed", id))
			continue
		}

		res.Replaced = append(res.Replaced, id)
	}
	e.metrics.Replaced(len(res.Replaced))
	return res
}
