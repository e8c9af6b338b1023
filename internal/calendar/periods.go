package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrSlotDuration     = errors.New("slot duration must be positive")
	ErrPeriodsExist     = errors.New("periods already exist")
)

const clockLayout = "15:04:05"

// TimeRange представляет временной интервал [Start, End) внутри учебного дня.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// GridOptions задаёт сетку учебного дня.
type GridOptions struct {
	DayStart     string // "06:00"
	DayEnd       string // "21:00"
	SlotDuration time.Duration
}

// DefaultGrid: 06:00–21:00 по 30 минут, 30 периодов.
func DefaultGrid() GridOptions {
	return GridOptions{DayStart: "06:00", DayEnd: "21:00", SlotDuration: 30 * time.Minute}
}

// ParseClock разбирает время дня "15:04" или "15:04:05" на фиксированной нулевой дате.
func ParseClock(s string) (time.Time, error) {
	for _, layout := range []string{clockLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q", s)
}

// SplitToTimeSlots разбивает интервал на слоты фиксированной длительности.
// "Хвост" меньшей длительности, чем slotDuration, отбрасывается.
func SplitToTimeSlots(tr TimeRange, slotDuration time.Duration) ([]TimeRange, error) {
	if slotDuration <= 0 {
		return nil, ErrSlotDuration
	}
	if !tr.End.After(tr.Start) {
		return nil, ErrInvalidTimeRange
	}

	var slots []TimeRange
	for cur := tr.Start; !cur.Add(slotDuration).After(tr.End); cur = cur.Add(slotDuration) {
		slots = append(slots, TimeRange{Start: cur, End: cur.Add(slotDuration)})
	}
	return slots, nil
}

// BuildDayGrid строит периоды дня с плотными slot_index начиная с 1.
func BuildDayGrid(opts GridOptions) ([]model.Period, error) {
	start, err := ParseClock(opts.DayStart)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(opts.DayEnd)
	if err != nil {
		return nil, err
	}

	slots, err := SplitToTimeSlots(TimeRange{Start: start, End: end}, opts.SlotDuration)
	if err != nil {
		return nil, err
	}

	periods := make([]model.Period, 0, len(slots))
	for i, s := range slots {
		periods = append(periods, model.Period{
			SlotIndex:       i + 1,
			StartTime:       s.Start.Format(clockLayout),
			EndTime:         s.End.Format(clockLayout),
			IsAutoGenerated: true,
		})
	}
	return periods, nil
}

// GeneratePeriods записывает сетку дня. Если периоды уже есть, без overwrite возвращает ErrPeriodsExist.
// overwrite заменяет сетку целиком; периоды, на которые ссылаются расписания, удалить не получится.
func GeneratePeriods(ctx context.Context, repo repository.PeriodRepository, opts GridOptions, overwrite bool) ([]model.Period, error) {
	periods, err := BuildDayGrid(opts)
	if err != nil {
		return nil, err
	}

	n, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && !overwrite {
		return nil, ErrPeriodsExist
	}

	if n > 0 {
		err = repo.ReplaceAll(ctx, periods)
	} else {
		err = repo.Create(ctx, periods)
	}
	if err != nil {
		return nil, err
	}
	return periods, nil
}
