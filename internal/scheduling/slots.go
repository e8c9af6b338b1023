package scheduling

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/repository"
)

// SlotRange — включительный диапазон индексов периодов [Min, Max].
type SlotRange struct {
	Min int
	Max int
}

// NewSlotRange упорядочивает границы.
func NewSlotRange(a, b int) SlotRange {
	if a > b {
		a, b = b, a
	}
	return SlotRange{Min: a, Max: b}
}

// Overlaps: включительное пересечение, касание одним слотом считается конфликтом.
func (r SlotRange) Overlaps(o SlotRange) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

func (r SlotRange) Len() int { return r.Max - r.Min + 1 }

func (r SlotRange) String() string { return fmt.Sprintf("[%d,%d]", r.Min, r.Max) }

// SlotIndex — снимок periods на время одной оценки конфликтов.
type SlotIndex struct {
	byID    map[uuid.UUID]model.Period
	ordered []model.Period
}

func NewSlotIndex(periods []model.Period) *SlotIndex {
	x := &SlotIndex{
		byID:    make(map[uuid.UUID]model.Period, len(periods)),
		ordered: make([]model.Period, len(periods)),
	}
	copy(x.ordered, periods)
	sort.Slice(x.ordered, func(i, j int) bool { return x.ordered[i].SlotIndex < x.ordered[j].SlotIndex })
	for _, p := range x.ordered {
		x.byID[p.ID] = p
	}
	return x
}

func LoadSlotIndex(ctx context.Context, store *repository.Store) (*SlotIndex, error) {
	periods, err := store.Periods.List(ctx)
	if err != nil {
		return nil, persistence("load periods", err)
	}
	return NewSlotIndex(periods), nil
}

func (x *SlotIndex) Period(id uuid.UUID) (model.Period, bool) {
	p, ok := x.byID[id]
	return p, ok
}

// RangeOf переводит пару периодов в упорядоченный диапазон слотов.
func (x *SlotIndex) RangeOf(startID, endID uuid.UUID) (SlotRange, error) {
	start, ok := x.byID[startID]
	if !ok {
		return SlotRange{}, validationError("period_start_id", "InvalidPeriod: unknown period %s", startID)
	}
	end, ok := x.byID[endID]
	if !ok {
		return SlotRange{}, validationError("period_end_id", "InvalidPeriod: unknown period %s", endID)
	}
	return NewSlotRange(start.SlotIndex, end.SlotIndex), nil
}

// PeriodsIn возвращает периоды диапазона по возрастанию slot_index.
func (x *SlotIndex) PeriodsIn(r SlotRange) []model.Period {
	var out []model.Period
	for _, p := range x.ordered {
		if p.SlotIndex >= r.Min && p.SlotIndex <= r.Max {
			out = append(out, p)
		}
	}
	return out
}
