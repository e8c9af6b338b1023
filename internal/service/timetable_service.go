package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	timetablepb "github.com/Leganyst/class-scheduler/internal/api/timetable/v1"
	"github.com/Leganyst/class-scheduler/internal/auth"
	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/repository"
	"github.com/Leganyst/class-scheduler/internal/scheduling"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

type TimetableService struct {
	timetablepb.UnimplementedTimetableServiceServer

	orch    *scheduling.Orchestrator
	auth    Authenticator
	log     *logrus.Entry
	timeout time.Duration
}

func NewTimetableService(orch *scheduling.Orchestrator, authn Authenticator, log *logrus.Entry, timeout time.Duration) *TimetableService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &TimetableService{
		orch:    orch,
		auth:    authn,
		log:     log.WithField("component", "grpc"),
		timeout: timeout,
	}
}

// begin применяет таймаут запроса и аутентифицирует вызывающего.
func (s *TimetableService) begin(ctx context.Context) (context.Context, context.CancelFunc, scheduling.Actor, error) {
	cancel := context.CancelFunc(func() {})
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	}
	token, err := auth.BearerFromMetadata(ctx)
	if err != nil {
		cancel()
		return nil, nil, scheduling.Actor{}, authStatus(err)
	}
	id, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		cancel()
		if !isAuthError(err) {
			s.log.WithError(err).Error("authenticate")
		}
		return nil, nil, scheduling.Actor{}, authStatus(err)
	}
	return ctx, cancel, id.Actor(), nil
}

// ProposeSchedule создаёт (id пуст) или изменяет расписание.
func (s *TimetableService) ProposeSchedule(ctx context.Context, req *timetablepb.ProposeScheduleRequest) (*timetablepb.ProposeScheduleResponse, error) {
	ctx, cancel, actor, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	preq, err := placementRequest(req.ID, req.Placement)
	if err != nil {
		return nil, err
	}
	preq.Force = req.Force

	out, err := s.orch.Propose(ctx, actor, preq)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &timetablepb.ProposeScheduleResponse{
		Status:      string(out.Status),
		Schedule:    mapSchedule(out.Schedule),
		Conflict:    mapConflict(out.Conflict),
		ReplacedIDs: mapIDs(out.Replaced),
		Warnings:    out.Warnings,
	}
	if !out.UndoExpiresAt.IsZero() {
		left := out.UndoExpiresAt.Sub(s.orch.Now())
		if left > 0 {
			resp.UndoExpiresInSeconds = int64(math.Ceil(left.Seconds()))
		}
	}
	return resp, nil
}

func (s *TimetableService) RemoveSchedule(ctx context.Context, req *timetablepb.RemoveScheduleRequest) (*timetablepb.RemoveScheduleResponse, error) {
	ctx, cancel, actor, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	id, err := requiredUUID("id", req.ID)
	if err != nil {
		return nil, err
	}
	res, err := s.orch.Remove(ctx, actor, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &timetablepb.RemoveScheduleResponse{ID: res.ID.String(), Warnings: res.Warnings}, nil
}

func (s *TimetableService) UndoCreate(ctx context.Context, req *timetablepb.UndoCreateRequest) (*timetablepb.UndoCreateResponse, error) {
	ctx, cancel, actor, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	id, err := requiredUUID("id", req.ID)
	if err != nil {
		return nil, err
	}
	res, err := s.orch.Undo(ctx, actor, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &timetablepb.UndoCreateResponse{ID: res.ID.String(), Undone: true, Warnings: res.Warnings}, nil
}

// PreviewConflicts показывает, что заблокирует размещение, ничего не записывая.
func (s *TimetableService) PreviewConflicts(ctx context.Context, req *timetablepb.PreviewConflictsRequest) (*timetablepb.PreviewConflictsResponse, error) {
	ctx, cancel, actor, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	preq, err := placementRequest(req.ID, req.Placement)
	if err != nil {
		return nil, err
	}
	res, err := s.orch.Preview(ctx, actor, preq)
	if err != nil {
		return nil, toStatus(err)
	}
	return &timetablepb.PreviewConflictsResponse{
		Class:      mapSchedules(res.Conflicts.Class),
		Room:       mapSchedules(res.Conflicts.Room),
		Faculty:    mapSchedules(res.Conflicts.Faculty),
		RoomPolicy: mapSchedules(res.RoomPolicy),
		Blocking:   mapConflict(res.Blocking),
	}, nil
}

func (s *TimetableService) ListSchedules(ctx context.Context, req *timetablepb.ListSchedulesRequest) (*timetablepb.ListSchedulesResponse, error) {
	ctx, cancel, actor, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	target, err := requiredUUID("target_id", req.TargetID)
	if err != nil {
		return nil, err
	}
	term, err := optionalUUID("academic_term_id", req.AcademicTermID)
	if err != nil {
		return nil, err
	}

	page, err := s.orch.List(ctx, actor, scheduling.ListRequest{
		View:           repository.ViewKind(strings.ToUpper(strings.TrimSpace(req.View))),
		TargetID:       target,
		AcademicTermID: term,
		Page:           int(req.Page),
		PageSize:       int(req.PageSize),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &timetablepb.ListSchedulesResponse{
		Items:    make([]*timetablepb.ListedSchedule, 0, len(page.Items)),
		Page:     int32(page.Page),
		PageSize: int32(page.PageSize),
		Total:    int64(page.Total),
		HasNext:  page.HasNext,
		HasPrev:  page.HasPrev,
	}
	for i := range page.Items {
		resp.Items = append(resp.Items, &timetablepb.ListedSchedule{
			Schedule: mapSchedule(&page.Items[i].Schedule),
			CanEdit:  page.Items[i].CanEdit,
		})
	}
	return resp, nil
}

func placementRequest(id string, p timetablepb.Placement) (scheduling.PlacementRequest, error) {
	var (
		req scheduling.PlacementRequest
		err error
	)
	if req.ID, err = optionalUUID("id", id); err != nil {
		return req, err
	}
	// пустые обязательные поля остаются uuid.Nil, их отклонит валидация ядра
	if req.ClassID, err = uuidOrNil("class_id", p.ClassID); err != nil {
		return req, err
	}
	if req.SubjectID, err = uuidOrNil("subject_id", p.SubjectID); err != nil {
		return req, err
	}
	if req.PeriodStartID, err = uuidOrNil("period_start_id", p.PeriodStartID); err != nil {
		return req, err
	}
	if req.PeriodEndID, err = uuidOrNil("period_end_id", p.PeriodEndID); err != nil {
		return req, err
	}
	if req.FacultyID, err = optionalUUID("faculty_id", p.FacultyID); err != nil {
		return req, err
	}
	if req.RoomID, err = optionalUUID("room_id", p.RoomID); err != nil {
		return req, err
	}
	if req.AcademicTermID, err = optionalUUID("academic_term_id", p.AcademicTermID); err != nil {
		return req, err
	}
	req.Day = model.Day(p.Day)
	req.Mode = model.DeliveryMode(p.Mode)
	return req, nil
}

func uuidOrNil(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidArgument(field, field+" must be a UUID")
	}
	return id, nil
}

func requiredUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuidOrNil(field, raw)
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, invalidArgument(field, field+" is required")
	}
	return id, nil
}

func optionalUUID(field, raw string) (*uuid.UUID, error) {
	id, err := uuidOrNil(field, raw)
	if err != nil || id == uuid.Nil {
		return nil, err
	}
	return &id, nil
}
