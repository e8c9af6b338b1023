package service

import (
	"github.com/google/uuid"

	timetablepb "github.com/Leganyst/class-scheduler/internal/api/timetable/v1"
	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/scheduling"
)

func mapSchedule(s *model.Schedule) *timetablepb.Schedule {
	if s == nil {
		return nil
	}
	return &timetablepb.Schedule{
		ID:             s.ID.String(),
		ClassID:        s.ClassID.String(),
		SubjectID:      s.SubjectID.String(),
		FacultyID:      optionalString(s.FacultyID),
		RoomID:         optionalString(s.RoomID),
		DepartmentID:   s.DepartmentID.String(),
		Day:            string(s.Day),
		Mode:           string(s.Mode),
		AcademicTermID: s.AcademicTermID.String(),
		PeriodStartID:  s.PeriodStartID.String(),
		PeriodEndID:    s.PeriodEndID.String(),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func mapSchedules(list []model.Schedule) []*timetablepb.Schedule {
	out := make([]*timetablepb.Schedule, 0, len(list))
	for i := range list {
		out = append(out, mapSchedule(&list[i]))
	}
	return out
}

func mapConflict(c *scheduling.ConflictReport) *timetablepb.Conflict {
	if c == nil {
		return nil
	}
	return &timetablepb.Conflict{
		Type:    string(c.Type),
		Message: c.Message,
		Class:   mapSchedules(c.Class),
		Room:    mapSchedules(c.Room),
		Faculty: mapSchedules(c.Faculty),
	}
}

func mapIDs(ids []uuid.UUID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func optionalString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
