package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/class-scheduler/internal/calendar"
	"github.com/Leganyst/class-scheduler/internal/metrics"
	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/notify"
	"github.com/Leganyst/class-scheduler/internal/repository"
)

type stage string

const (
	stageValidating  stage = "validating"
	stageAuthorizing stage = "authorizing"
	stageChecking    stage = "checking_conflicts"
	stageBlocked     stage = "blocked"
	stageReplacing   stage = "replacing"
	stagePersisting  stage = "persisting"
	stageAudit       stage = "logging_audit"
	stageDone        stage = "done"
	stageRejected    stage = "rejected"
)

const projectionSavepoint = "schedule_periods"

type Options struct {
	Policy Policy
	// 0 означает DefaultUndoWindow.
	UndoWindow time.Duration
	// Отменять создание может только его автор.
	UndoOwnerOnly bool

	Now       func() time.Time
	Logger    *logrus.Entry
	Metrics   *metrics.Metrics
	Publisher notify.Publisher
}

// Orchestrator проводит изменение расписания через проверку, авторизацию,
// поиск конфликтов, принудительную замену, запись и журнал.
type Orchestrator struct {
	store         *repository.Store
	engine        *Engine
	audit         *AuditSink
	policy        Policy
	validate      *validator.Validate
	log           *logrus.Entry
	metrics       *metrics.Metrics
	publisher     notify.Publisher
	now           func() time.Time
	undoWindow    time.Duration
	undoOwnerOnly bool
}

func NewOrchestrator(store *repository.Store, opts Options) *Orchestrator {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = DefaultUndoWindow
	}
	log := opts.Logger.WithField("component", "scheduling")
	return &Orchestrator{
		store:         store,
		engine:        NewEngine(log, opts.Metrics, opts.Now),
		audit:         NewAuditSink(log, opts.Metrics),
		policy:        opts.Policy,
		validate:      newValidator(),
		log:           log,
		metrics:       opts.Metrics,
		publisher:     opts.Publisher,
		now:           opts.Now,
		undoWindow:    opts.UndoWindow,
		undoOwnerOnly: opts.UndoOwnerOnly,
	}
}

func (o *Orchestrator) Policy() Policy { return o.policy }

// Now: по этим часам считаются окно отмены и журнал.
func (o *Orchestrator) Now() time.Time { return o.now() }

// ResolveCaller проверяет актёра и вычисляет эффективную роль.
func (o *Orchestrator) ResolveCaller(ctx context.Context, a Actor) (Caller, error) {
	if a.UserID == uuid.Nil {
		return Caller{}, unauthorized("Authentication required")
	}
	role, err := ResolveRole(ctx, o.store.References, a.StoredRole, a.DepartmentID)
	if err != nil {
		return Caller{}, err
	}
	c := Caller{UserID: a.UserID, Role: role, DepartmentID: a.DepartmentID}
	if role == RoleFaculty {
		f, err := o.store.References.FindFacultyByUserID(ctx, a.UserID)
		switch {
		case err == nil:
			c.FacultyID = &f.ID
		case !repository.IsNotFound(err):
			return Caller{}, persistence("load faculty profile", err)
		}
	}
	return c, nil
}

func (o *Orchestrator) enter(log *logrus.Entry, s stage) {
	log.WithField("stage", s).Debug("stage transition")
}

func (o *Orchestrator) reject(log *logrus.Entry, err error) error {
	entry := log.WithField("stage", stageRejected).WithError(err)
	if KindOf(err) == KindPersistence || KindOf(err) == 0 {
		entry.Error("operation failed")
	} else {
		entry.Debug("operation rejected")
	}
	return err
}

func (o *Orchestrator) observe(op string, started time.Time, outcome string, err error) {
	if err != nil {
		outcome = strings.ToLower(KindOf(err).String())
	}
	o.metrics.ObserveOperation(op, outcome, time.Since(started))
}

// resolved — проверенный запрос вместе с загруженными справочниками.
type resolved struct {
	req      PlacementRequest
	class    *model.Class
	subject  *model.Subject
	term     *model.AcademicTerm
	faculty  *model.Faculty
	room     *model.Room
	slots    SlotRange
	existing *model.Schedule
	// Справочники текущей версии строки при изменении.
	existingSubject *model.Subject
	existingRoom    *model.Room
}

func (r *resolved) placement() Placement {
	return Placement{
		ClassID:        r.class.ID,
		FacultyID:      r.req.FacultyID,
		RoomID:         r.req.RoomID,
		Day:            r.req.Day,
		PeriodStartID:  r.req.PeriodStartID,
		PeriodEndID:    r.req.PeriodEndID,
		AcademicTermID: r.term.ID,
		ExcludeID:      r.req.ID,
	}
}

func (o *Orchestrator) lookupError(what string, id uuid.UUID, err error) error {
	if repository.IsNotFound(err) {
		return notFound(what, id)
	}
	return persistence("load "+what, err)
}

func (o *Orchestrator) validatePlacement(ctx context.Context, ev *Evaluation, req PlacementRequest) (*resolved, error) {
	req.normalize()
	if err := o.validate.Struct(req); err != nil {
		return nil, translateValidation(err)
	}
	if req.RoomID != nil && req.Mode != model.ModeF2F {
		return nil, validationError("room_id", "Room can only be assigned to F2F classes")
	}

	r := &resolved{req: req}
	refs := o.store.References

	if req.ID != nil {
		existing, err := o.store.Schedules.GetByID(ctx, *req.ID)
		if err != nil {
			return nil, o.lookupError("schedule", *req.ID, err)
		}
		if existing.IsDeleted {
			return nil, notFound("schedule", *req.ID)
		}
		r.existing = existing
		if r.existingSubject, err = refs.GetSubject(ctx, existing.SubjectID); err != nil {
			return nil, o.lookupError("subject", existing.SubjectID, err)
		}
		if existing.RoomID != nil {
			if r.existingRoom, err = ev.room(ctx, *existing.RoomID); err != nil {
				return nil, err
			}
		}
	}

	var err error
	if r.class, err = refs.GetClass(ctx, req.ClassID); err != nil {
		return nil, o.lookupError("class", req.ClassID, err)
	}
	if r.subject, err = refs.GetSubject(ctx, req.SubjectID); err != nil {
		return nil, o.lookupError("subject", req.SubjectID, err)
	}

	termID := req.AcademicTermID
	if termID == nil {
		termID = r.class.AcademicTermID
	}
	if termID == nil {
		return nil, validationError("academic_term_id", "Academic term is required")
	}
	if r.term, err = refs.GetTerm(ctx, *termID); err != nil {
		return nil, o.lookupError("academic term", *termID, err)
	}
	if !r.term.IsActive {
		return nil, &Error{Kind: KindInactiveTerm, Field: "academic_term_id", Message: "Academic term is not active"}
	}
	r.req.AcademicTermID = &r.term.ID

	if r.slots, err = ev.Slots().RangeOf(req.PeriodStartID, req.PeriodEndID); err != nil {
		return nil, err
	}

	if req.FacultyID != nil {
		if r.faculty, err = refs.GetFaculty(ctx, *req.FacultyID); err != nil {
			return nil, o.lookupError("faculty", *req.FacultyID, err)
		}
		if !r.faculty.IsActive {
			return nil, validationError("faculty_id", "Faculty is inactive")
		}
		if r.faculty.DepartmentID != r.subject.DepartmentID {
			return nil, validationError("faculty_id", "Faculty must belong to the subject's department")
		}
	}
	if req.RoomID != nil {
		if r.room, err = ev.room(ctx, *req.RoomID); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// authorize проверяет новую версию, а при изменении ещё и текущую:
// нельзя увести расписание из чужого департамента.
func (o *Orchestrator) authorize(c Caller, r *resolved) error {
	d := o.policy.CanMutate(c.Role, c.DepartmentID, MutationTarget{
		Subject:           r.subject,
		ClassDepartmentID: r.class.DepartmentID,
		Room:              r.room,
	})
	if !d.Allowed {
		return forbidden(d.Reason)
	}
	if r.existing == nil {
		return nil
	}
	d = o.policy.CanMutate(c.Role, c.DepartmentID, MutationTarget{
		Subject: r.existingSubject,
		Room:    r.existingRoom,
	})
	if !d.Allowed {
		return forbidden(d.Reason)
	}
	return nil
}

func (o *Orchestrator) checkConflicts(ctx context.Context, ev *Evaluation, r *resolved) (Conflicts, []model.Schedule, error) {
	p := r.placement()
	var roomPolicy []model.Schedule
	if p.RoomID != nil {
		var err error
		if roomPolicy, err = ev.ValidateRoomSharingPolicy(ctx, *p.RoomID, p); err != nil {
			return Conflicts{}, nil, err
		}
	}
	c, err := ev.FindConflicts(ctx, p)
	if err != nil {
		return Conflicts{}, nil, err
	}
	return c, roomPolicy, nil
}

// blocking: ROOM_PRIVATE, затем HARD, затем SOFT.
func blocking(c Conflicts, roomPolicy []model.Schedule) *ConflictReport {
	switch {
	case len(roomPolicy) > 0:
		return &ConflictReport{
			Type:    ConflictRoomPrivate,
			Message: "Room is private and already booked for this time",
			Class:   c.Class, Room: roomPolicy, Faculty: c.Faculty,
		}
	case len(c.Hard()) > 0:
		return &ConflictReport{
			Type:    ConflictHard,
			Message: "Class or room is already booked for this time",
			Class:   c.Class, Room: c.Room, Faculty: c.Faculty,
		}
	case len(c.Soft()) > 0:
		return &ConflictReport{
			Type:    ConflictSoft,
			Message: "Faculty is already teaching at this time",
			Faculty: c.Faculty,
		}
	}
	return nil
}

// Propose создаёт или изменяет расписание.
func (o *Orchestrator) Propose(ctx context.Context, actor Actor, req PlacementRequest) (out *Outcome, err error) {
	started := time.Now()
	op := "create"
	if req.ID != nil {
		op = "update"
	}
	defer func() {
		outcome := ""
		if out != nil {
			outcome = strings.ToLower(string(out.Status))
		}
		o.observe(op, started, outcome, err)
	}()

	log := o.log.WithFields(logrus.Fields{"operation": op, "actor": actor.UserID})
	if req.ID != nil {
		log = log.WithField("schedule_id", *req.ID)
	}

	caller, err := o.ResolveCaller(ctx, actor)
	if err != nil {
		return nil, o.reject(log, err)
	}

	o.enter(log, stageValidating)
	ev, err := o.engine.Begin(ctx, o.store)
	if err != nil {
		return nil, o.reject(log, err)
	}
	r, err := o.validatePlacement(ctx, ev, req)
	if err != nil {
		return nil, o.reject(log, err)
	}

	o.enter(log, stageAuthorizing)
	if err := o.authorize(caller, r); err != nil {
		return nil, o.reject(log, err)
	}

	o.enter(log, stageChecking)
	conflicts, roomPolicy, err := o.checkConflicts(ctx, ev, r)
	if err != nil {
		return nil, o.reject(log, err)
	}

	out = &Outcome{Status: StatusAccepted}
	if report := blocking(conflicts, roomPolicy); report != nil {
		if !r.req.Force {
			o.enter(log, stageBlocked)
			o.metrics.Blocked(string(report.Type))
			return &Outcome{Status: StatusBlocked, Conflict: report}, nil
		}

		o.enter(log, stageReplacing)
		peers := idsOf(unionByID(roomPolicy, conflicts.Hard(), conflicts.Soft()))
		res := o.engine.SoftDeleteConflicts(ctx, o.store, peers, &caller.UserID)
		out.Replaced = res.Replaced
		out.Warnings = append(out.Warnings, res.Warnings...)
		for _, id := range res.Replaced {
			o.publish(ctx, log, notify.EventReplaced, id, r)
		}
	}

	o.enter(log, stagePersisting)
	saved, warnings, err := o.persist(ctx, ev, r, caller)
	if err != nil {
		return nil, o.reject(log, err)
	}
	out.Schedule = saved
	out.Warnings = append(out.Warnings, warnings...)
	log = log.WithField("schedule_id", saved.ID)

	o.enter(log, stageAudit)
	action, event := model.HistoryActionCreate, notify.EventCreated
	if r.existing != nil {
		action, event = model.HistoryActionUpdate, notify.EventUpdated
	}
	if w := o.audit.Record(ctx, o.store, historyEntry(action, saved.ID, r.existing, saved, &caller.UserID, saved.UpdatedAt)); w != "" {
		out.Warnings = append(out.Warnings, w)
	}
	o.publish(ctx, log, event, saved.ID, r)

	if r.existing == nil {
		out.UndoExpiresAt = saved.CreatedAt.Add(o.undoWindow)
	}
	o.enter(log, stageDone)
	return out, nil
}

// persist пишет строку и пересобирает проекцию в одной транзакции.
// Нарушение уникальности проекции — гонка за слот группы, откатываем всё.
// Прочие ошибки проекции откатываются до savepoint и становятся предупреждением.
func (o *Orchestrator) persist(ctx context.Context, ev *Evaluation, r *resolved, c Caller) (*model.Schedule, []string, error) {
	now := o.now()

	var s model.Schedule
	if r.existing != nil {
		s = *r.existing
	} else {
		s = model.Schedule{CreatedBy: &c.UserID, CreatedAt: now}
	}
	s.ClassID = r.class.ID
	s.SubjectID = r.subject.ID
	s.FacultyID = r.req.FacultyID
	s.RoomID = r.req.RoomID
	s.DepartmentID = r.subject.DepartmentID
	s.Day = r.req.Day
	s.Mode = r.req.Mode
	s.AcademicTermID = r.term.ID
	s.PeriodStartID = r.req.PeriodStartID
	s.PeriodEndID = r.req.PeriodEndID
	s.UpdatedAt = now

	var warnings []string
	err := o.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if r.existing != nil {
			err = tx.Schedules.Update(ctx, &s)
		} else {
			err = tx.Schedules.Create(ctx, &s)
		}
		if err != nil {
			return err
		}

		if err := tx.SavePoint(projectionSavepoint); err != nil {
			return err
		}
		rows := projectionRows(&s, ev.Slots().PeriodsIn(r.slots))
		if err := tx.Schedules.ReplacePeriods(ctx, s.ID, rows); err != nil {
			if repository.IsDuplicate(err) {
				return &Error{Kind: KindConflict, Message: "Class is already booked for this time", Err: err}
			}
			if rbErr := tx.RollbackTo(projectionSavepoint); rbErr != nil {
				return rbErr
			}
			o.log.WithError(err).WithFields(logrus.Fields{"stage": stagePersisting, "schedule_id": s.ID}).
				Warn("expanded periods rebuild failed")
			o.metrics.Warning("projection")
			warnings = append(warnings, "Expanded periods could not be rebuilt")
		}
		return nil
	})
	if err != nil {
		if KindOf(err) == KindConflict {
			return nil, nil, err
		}
		return nil, nil, persistence("save schedule", err)
	}
	return &s, warnings, nil
}

func projectionRows(s *model.Schedule, periods []model.Period) []model.SchedulePeriod {
	rows := make([]model.SchedulePeriod, 0, len(periods))
	for _, p := range periods {
		rows = append(rows, model.SchedulePeriod{
			ScheduleID:     s.ID,
			PeriodID:       p.ID,
			Day:            s.Day,
			ClassID:        s.ClassID,
			AcademicTermID: s.AcademicTermID,
		})
	}
	return rows
}

func (o *Orchestrator) publish(ctx context.Context, log *logrus.Entry, t notify.EventType, id uuid.UUID, r *resolved) {
	if o.publisher == nil {
		return
	}
	ev := notify.Event{
		Type:       t,
		ScheduleID: id,
		TermID:     r.term.ID,
		Day:        string(r.req.Day),
		ClassID:    r.class.ID,
		At:         o.now(),
	}
	o.publishEvent(ctx, log, ev)
}

func (o *Orchestrator) publishEvent(ctx context.Context, log *logrus.Entry, ev notify.Event) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.Publish(ctx, ev); err != nil {
		log.WithError(err).WithField("event", ev.Type).Warn("change notification failed")
		o.metrics.Warning("notify")
	}
}

func eventFor(t notify.EventType, s *model.Schedule, at time.Time) notify.Event {
	return notify.Event{
		Type:       t,
		ScheduleID: s.ID,
		TermID:     s.AcademicTermID,
		Day:        string(s.Day),
		ClassID:    s.ClassID,
		At:         at,
	}
}

// Preview выполняет проверку, авторизацию и поиск конфликтов без записи.
func (o *Orchestrator) Preview(ctx context.Context, actor Actor, req PlacementRequest) (*PreviewResult, error) {
	log := o.log.WithFields(logrus.Fields{"operation": "preview", "actor": actor.UserID})

	caller, err := o.ResolveCaller(ctx, actor)
	if err != nil {
		return nil, o.reject(log, err)
	}
	ev, err := o.engine.Begin(ctx, o.store)
	if err != nil {
		return nil, o.reject(log, err)
	}
	r, err := o.validatePlacement(ctx, ev, req)
	if err != nil {
		return nil, o.reject(log, err)
	}
	if err := o.authorize(caller, r); err != nil {
		return nil, o.reject(log, err)
	}
	conflicts, roomPolicy, err := o.checkConflicts(ctx, ev, r)
	if err != nil {
		return nil, o.reject(log, err)
	}
	return &PreviewResult{
		Conflicts:  conflicts,
		RoomPolicy: roomPolicy,
		Blocking:   blocking(conflicts, roomPolicy),
	}, nil
}

// loadSchedule возвращает строку для удаления или отмены, в том числе удалённую.
func (o *Orchestrator) loadSchedule(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	s, err := o.store.Schedules.GetByID(ctx, id)
	if err != nil {
		return nil, o.lookupError("schedule", id, err)
	}
	return s, nil
}

// softDelete снимает флаг активности и чистит проекцию в одной транзакции:
// строки проекции удалённого расписания не должны держать уникальный индекс слотов группы.
func (o *Orchestrator) softDelete(ctx context.Context, s *model.Schedule, at time.Time) error {
	var gone bool
	err := o.store.Transaction(ctx, func(tx *repository.Store) error {
		ok, err := tx.Schedules.SoftDelete(ctx, s.ID, at)
		if err != nil {
			return err
		}
		if !ok {
			gone = true
			return nil
		}
		return tx.Schedules.DeletePeriods(ctx, s.ID)
	})
	if err != nil {
		return persistence("delete schedule", err)
	}
	if gone {
		return &Error{Kind: KindAlreadyDeleted, Message: "Schedule is already deleted"}
	}
	return nil
}

// Remove мягко удаляет расписание.
func (o *Orchestrator) Remove(ctx context.Context, actor Actor, id uuid.UUID) (res *RemoveResult, err error) {
	started := time.Now()
	defer func() { o.observe("delete", started, "accepted", err) }()
	log := o.log.WithFields(logrus.Fields{"operation": "delete", "actor": actor.UserID, "schedule_id": id})

	caller, err := o.ResolveCaller(ctx, actor)
	if err != nil {
		return nil, o.reject(log, err)
	}

	o.enter(log, stageValidating)
	s, err := o.loadSchedule(ctx, id)
	if err != nil {
		return nil, o.reject(log, err)
	}
	if s.IsDeleted {
		return nil, o.reject(log, &Error{Kind: KindAlreadyDeleted, Message: "Schedule is already deleted"})
	}
	subject, err := o.store.References.GetSubject(ctx, s.SubjectID)
	if err != nil {
		return nil, o.reject(log, o.lookupError("subject", s.SubjectID, err))
	}
	target := MutationTarget{Subject: subject}
	if s.RoomID != nil {
		if target.Room, err = o.store.References.GetRoom(ctx, *s.RoomID); err != nil && !repository.IsNotFound(err) {
			return nil, o.reject(log, persistence("load room", err))
		}
	}

	o.enter(log, stageAuthorizing)
	if d := o.policy.CanMutate(caller.Role, caller.DepartmentID, target); !d.Allowed {
		return nil, o.reject(log, forbidden(d.Reason))
	}

	o.enter(log, stagePersisting)
	at := o.now()
	if err := o.softDelete(ctx, s, at); err != nil {
		return nil, o.reject(log, err)
	}
	var warnings []string

	o.enter(log, stageAudit)
	if w := o.audit.Record(ctx, o.store, historyEntry(model.HistoryActionDelete, s.ID, s, deletedCopy(s, at), &caller.UserID, at)); w != "" {
		warnings = append(warnings, w)
	}
	o.publishEvent(ctx, log, eventFor(notify.EventDeleted, s, at))

	o.enter(log, stageDone)
	return &RemoveResult{ID: s.ID, Warnings: warnings}, nil
}

// Undo отменяет создание в пределах окна отмены.
func (o *Orchestrator) Undo(ctx context.Context, actor Actor, id uuid.UUID) (res *UndoResult, err error) {
	started := time.Now()
	defer func() { o.observe("undo", started, "accepted", err) }()
	log := o.log.WithFields(logrus.Fields{"operation": "undo", "actor": actor.UserID, "schedule_id": id})

	if _, err := o.ResolveCaller(ctx, actor); err != nil {
		return nil, o.reject(log, err)
	}

	o.enter(log, stageValidating)
	s, err := o.loadSchedule(ctx, id)
	if err != nil {
		return nil, o.reject(log, err)
	}
	at := o.now()
	if err := checkUndoable(s, at, o.undoWindow); err != nil {
		return nil, o.reject(log, err)
	}
	if o.undoOwnerOnly && (s.CreatedBy == nil || *s.CreatedBy != actor.UserID) {
		return nil, o.reject(log, forbidden("Only the creator can undo this schedule"))
	}

	o.enter(log, stagePersisting)
	if err := o.softDelete(ctx, s, at); err != nil {
		return nil, o.reject(log, err)
	}
	var warnings []string

	o.enter(log, stageAudit)
	if w := o.audit.Record(ctx, o.store, historyEntry(model.HistoryActionUndoCreate, s.ID, s, deletedCopy(s, at), &actor.UserID, at)); w != "" {
		warnings = append(warnings, w)
	}
	o.publishEvent(ctx, log, eventFor(notify.EventUndone, s, at))

	o.enter(log, stageDone)
	return &UndoResult{ID: s.ID, Warnings: warnings}, nil
}

// List возвращает сетку группы, преподавателя или аудитории за учебный период.
func (o *Orchestrator) List(ctx context.Context, actor Actor, req ListRequest) (*ListResult, error) {
	log := o.log.WithFields(logrus.Fields{"operation": "list", "actor": actor.UserID})

	caller, err := o.ResolveCaller(ctx, actor)
	if err != nil {
		return nil, o.reject(log, err)
	}
	req.View = repository.ViewKind(strings.ToUpper(strings.TrimSpace(string(req.View))))
	if err := o.validate.Struct(req); err != nil {
		return nil, o.reject(log, translateValidation(err))
	}

	target := ViewTarget{View: req.View, TargetID: req.TargetID}
	refs := o.store.References
	switch req.View {
	case repository.ViewClass:
		c, err := refs.GetClass(ctx, req.TargetID)
		if err != nil {
			return nil, o.reject(log, o.lookupError("class", req.TargetID, err))
		}
		target.DepartmentID = &c.DepartmentID
	case repository.ViewFaculty:
		f, err := refs.GetFaculty(ctx, req.TargetID)
		if err != nil {
			return nil, o.reject(log, o.lookupError("faculty", req.TargetID, err))
		}
		target.DepartmentID = &f.DepartmentID
	case repository.ViewRoom:
		r, err := refs.GetRoom(ctx, req.TargetID)
		if err != nil {
			return nil, o.reject(log, o.lookupError("room", req.TargetID, err))
		}
		target.DepartmentID = r.DepartmentID
	}
	if !o.policy.CanView(caller, target) {
		return nil, o.reject(log, forbidden("Not allowed to view this schedule"))
	}

	var termID uuid.UUID
	if req.AcademicTermID != nil {
		termID = *req.AcademicTermID
	} else {
		term, err := refs.ActiveTerm(ctx)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, o.reject(log, &Error{Kind: KindNotFound, Message: "No active academic term"})
			}
			return nil, o.reject(log, persistence("load active term", err))
		}
		termID = term.ID
	}

	page, size, offset := calendar.Window(req.Page, req.PageSize)
	q := repository.ListQuery{
		View:           req.View,
		TargetID:       req.TargetID,
		AcademicTermID: termID,
		Limit:          size,
		Offset:         offset,
	}
	// Сетку группы DEAN видит целиком (GenEd-строки тоже), редактируемость помечает CanEdit.
	if caller.Role == RoleDean && req.View != repository.ViewClass {
		q.DepartmentID = caller.DepartmentID
	}

	rows, total, err := o.store.Schedules.List(ctx, q)
	if err != nil {
		return nil, o.reject(log, persistence("list schedules", err))
	}

	items := make([]ListedSchedule, 0, len(rows))
	for _, s := range rows {
		items = append(items, ListedSchedule{
			Schedule: s,
			CanEdit:  o.policy.CanEdit(caller.Role, caller.DepartmentID, &s, s.Subject),
		})
	}
	result := calendar.NewPage(items, page, size, int(total))
	return &result, nil
}
