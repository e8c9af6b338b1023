package scheduling

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/class-scheduler/internal/metrics"
	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/notify"
	"github.com/Leganyst/class-scheduler/internal/repository"
	"github.com/Leganyst/class-scheduler/internal/testdb"
)

func TestPropose_CreateAccepted(t *testing.T) {
	e := newEnv(t)
	facID, roomID := e.facX.ID, e.roomX.ID

	req := e.req(e.classY, e.subjX, 2, 4)
	req.FacultyID = &facID
	req.RoomID = &roomID

	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), req)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, out.Status)
	require.NotNil(t, out.Schedule)
	assert.Empty(t, out.Warnings)
	assert.Nil(t, out.Conflict)

	s := e.reload(t, out.Schedule.ID)
	assert.Equal(t, e.f.DeptX.ID, s.DepartmentID, "owned by the subject's department, not the class's")
	assert.Equal(t, model.ModeF2F, s.Mode)
	assert.Equal(t, e.f.Term.ID, s.AcademicTermID, "term defaults to the class term")
	require.NotNil(t, s.CreatedBy)
	assert.Equal(t, e.deanX.ID, *s.CreatedBy)
	assert.True(t, s.CreatedAt.Equal(e.clock.Now()))
	assert.True(t, out.UndoExpiresAt.Equal(e.clock.Now().Add(DefaultUndoWindow)))

	rows := e.projection(t, s.ID)
	assert.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, e.classY.ID, r.ClassID)
		assert.Equal(t, model.Monday, r.Day)
	}

	h := e.history(t, s.ID)
	require.Len(t, h, 1)
	assert.Equal(t, model.HistoryActionCreate, h[0].Action)
	assert.Nil(t, h[0].OldData)
	assert.NotEmpty(t, h[0].NewData)

	require.Len(t, e.pub.Events, 1)
	assert.Equal(t, notify.EventCreated, e.pub.Events[0].Type)
	assert.Equal(t, s.ID, e.pub.Events[0].ScheduleID)
	assert.Equal(t, "MONDAY", e.pub.Events[0].Day)
}

func TestPropose_HardClassConflictBlocked(t *testing.T) {
	e := newEnv(t)
	existing := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, From: 3, To: 4})

	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), e.req(e.classX, e.subjX, 4, 5))
	require.NoError(t, err)
	require.Equal(t, StatusBlocked, out.Status)
	require.NotNil(t, out.Conflict)
	assert.Equal(t, ConflictHard, out.Conflict.Type)
	assert.Equal(t, []uuid.UUID{existing.ID}, ids(out.Conflict.Class))
	assert.Nil(t, out.Schedule)
	assert.Empty(t, e.pub.Events)

	var n int64
	require.NoError(t, e.f.DB.Model(&model.Schedule{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "blocked proposal writes nothing")
}

func TestPropose_SoftFacultyConflict_BlockedThenForced(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newEnv(t, func(o *Options) { o.Metrics = metrics.New(reg) })
	facID := e.facX.ID

	overlapping := e.f.Schedule(t, testdb.Placement{Class: e.classY, Subject: e.subjX, FacultyID: &facID, From: 1, To: 2})
	elsewhere := e.f.Schedule(t, testdb.Placement{Class: e.classY, Subject: e.subjX, FacultyID: &facID, From: 8, To: 9})

	req := e.req(e.classX, e.subjX, 2, 3)
	req.FacultyID = &facID

	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), req)
	require.NoError(t, err)
	require.Equal(t, StatusBlocked, out.Status)
	assert.Equal(t, ConflictSoft, out.Conflict.Type)
	assert.Equal(t, []uuid.UUID{overlapping.ID}, ids(out.Conflict.Faculty))

	req.Force = true
	out, err = e.orch.Propose(t.Context(), actorOf(e.deanX), req)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, out.Status)
	assert.Equal(t, []uuid.UUID{overlapping.ID}, out.Replaced)
	assert.Empty(t, out.Warnings)

	assert.True(t, e.reload(t, overlapping.ID).IsDeleted)
	assert.False(t, e.reload(t, elsewhere.ID).IsDeleted, "non-overlapping faculty schedule untouched")
	assert.Len(t, e.projection(t, elsewhere.ID), 2)

	h := e.history(t, overlapping.ID)
	require.Len(t, h, 1)
	assert.Equal(t, model.HistoryActionForceReplace, h[0].Action)
	assert.Empty(t, e.history(t, elsewhere.ID))

	types := map[notify.EventType]int{}
	for _, ev := range e.pub.Events {
		types[ev.Type]++
	}
	assert.Equal(t, 1, types[notify.EventReplaced])
	assert.Equal(t, 1, types[notify.EventCreated])
}

func TestPropose_ForceReplacesHardConflict(t *testing.T) {
	e := newEnv(t)
	existing := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, From: 3, To: 4})

	req := e.req(e.classX, e.subjX, 4, 5)
	req.Force = true
	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), req)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, out.Status)
	assert.Equal(t, []uuid.UUID{existing.ID}, out.Replaced)
	assert.True(t, e.reload(t, existing.ID).IsDeleted)
	assert.Empty(t, e.projection(t, existing.ID))
	assert.Len(t, e.projection(t, out.Schedule.ID), 2)

	e.assertNoClassOverlap(t)
}

func TestPropose_RoomPrivateTakesPrecedence(t *testing.T) {
	e := newEnv(t)
	roomID := e.roomX.ID
	roomPeer := e.f.Schedule(t, testdb.Placement{Class: e.classY, Subject: e.subjY, RoomID: &roomID, From: 1, To: 3})
	classPeer := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, From: 3, To: 3})

	req := e.req(e.classX, e.subjX, 2, 3)
	req.RoomID = &roomID
	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), req)
	require.NoError(t, err)
	require.Equal(t, StatusBlocked, out.Status)
	assert.Equal(t, ConflictRoomPrivate, out.Conflict.Type)
	assert.Equal(t, []uuid.UUID{roomPeer.ID}, ids(out.Conflict.Room))
	assert.Equal(t, []uuid.UUID{classPeer.ID}, ids(out.Conflict.Class))

	req.Force = true
	out, err = e.orch.Propose(t.Context(), actorOf(e.deanX), req)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, out.Status)
	assert.ElementsMatch(t, []uuid.UUID{roomPeer.ID, classPeer.ID}, out.Replaced)
	e.assertNoClassOverlap(t)
}

func TestPropose_SharedRoomNotBlocked(t *testing.T) {
	e := newEnv(t)
	roomID := e.shared.ID
	e.f.Schedule(t, testdb.Placement{Class: e.classY, Subject: e.subjY, RoomID: &roomID, From: 1, To: 3})

	req := e.req(e.classX, e.subjX, 2, 3)
	req.RoomID = &roomID
	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), req)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
}

func TestPropose_Authorization(t *testing.T) {
	e := newEnv(t)

	t.Run("dean of another subject department", func(t *testing.T) {
		_, err := e.orch.Propose(t.Context(), actorOf(e.deanX), e.req(e.classX, e.subjY, 1, 1))
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Contains(t, err.Error(), ReasonSubjectDepartment)
	})

	t.Run("dean with room of another department", func(t *testing.T) {
		roomY := e.f.Room(t, &e.f.DeptY.ID, "EE-101", model.RoomSharingPrivate)
		req := e.req(e.classX, e.subjX, 1, 1)
		req.RoomID = &roomY.ID
		_, err := e.orch.Propose(t.Context(), actorOf(e.deanX), req)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("gened with non-gened subject", func(t *testing.T) {
		_, err := e.orch.Propose(t.Context(), actorOf(e.genEd), e.req(e.classX, e.subjX, 1, 1))
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Contains(t, err.Error(), ReasonNotGenEdSubject)
	})

	t.Run("gened subject in another department's class", func(t *testing.T) {
		out, err := e.orch.Propose(t.Context(), actorOf(e.genEd), e.req(e.classY, e.subjGE, 6, 7))
		require.NoError(t, err)
		require.Equal(t, StatusAccepted, out.Status)
		assert.Equal(t, e.f.GenEd.ID, out.Schedule.DepartmentID)
	})

	t.Run("faculty", func(t *testing.T) {
		_, err := e.orch.Propose(t.Context(), actorOf(e.lecturer), e.req(e.classX, e.subjX, 1, 1))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin by default", func(t *testing.T) {
		_, err := e.orch.Propose(t.Context(), actorOf(e.admin), e.req(e.classX, e.subjX, 1, 1))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := e.orch.Propose(t.Context(), Actor{}, e.req(e.classX, e.subjX, 1, 1))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestPropose_AdminFlag(t *testing.T) {
	e := newEnv(t, func(o *Options) { o.Policy.AdminCanMutateSchedules = true })
	out, err := e.orch.Propose(t.Context(), actorOf(e.admin), e.req(e.classX, e.subjY, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
}

func TestPropose_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	dean := actorOf(e.deanX)

	fieldOf := func(t *testing.T, err error) string {
		t.Helper()
		var de *Error
		require.ErrorAs(t, err, &de)
		return de.Field
	}

	t.Run("missing class", func(t *testing.T) {
		req := e.req(e.classX, e.subjX, 1, 1)
		req.ClassID = uuid.Nil
		_, err := e.orch.Propose(ctx, dean, req)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "class_id", fieldOf(t, err))
	})

	t.Run("unknown day", func(t *testing.T) {
		req := e.req(e.classX, e.subjX, 1, 1)
		req.Day = "FUNDAY"
		_, err := e.orch.Propose(ctx, dean, req)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "day", fieldOf(t, err))
	})

	t.Run("room only for F2F", func(t *testing.T) {
		req := e.req(e.classX, e.subjX, 1, 1)
		req.Mode = model.ModeOnline
		req.RoomID = &e.roomX.ID
		_, err := e.orch.Propose(ctx, dean, req)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "room_id", fieldOf(t, err))
	})

	t.Run("unknown class", func(t *testing.T) {
		req := e.req(e.classX, e.subjX, 1, 1)
		req.ClassID = uuid.New()
		_, err := e.orch.Propose(ctx, dean, req)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("inactive term", func(t *testing.T) {
		term := e.f.InactiveTerm(t)
		req := e.req(e.classX, e.subjX, 1, 1)
		req.AcademicTermID = &term.ID
		_, err := e.orch.Propose(ctx, dean, req)
		assert.ErrorIs(t, err, ErrInactiveTerm)
	})

	t.Run("class without term", func(t *testing.T) {
		c := model.Class{ClassName: "orphan", DepartmentID: e.f.DeptX.ID}
		require.NoError(t, e.f.DB.Create(&c).Error)
		_, err := e.orch.Propose(ctx, dean, e.req(c, e.subjX, 1, 1))
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "academic_term_id", fieldOf(t, err))
	})

	t.Run("unknown period", func(t *testing.T) {
		req := e.req(e.classX, e.subjX, 1, 1)
		req.PeriodEndID = uuid.New()
		_, err := e.orch.Propose(ctx, dean, req)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "InvalidPeriod")
	})

	t.Run("inactive faculty", func(t *testing.T) {
		f := e.f.Faculty(t, e.f.DeptX.ID, "Retired")
		require.NoError(t, e.f.DB.Model(&f).Update("is_active", false).Error)
		req := e.req(e.classX, e.subjX, 1, 1)
		req.FacultyID = &f.ID
		_, err := e.orch.Propose(ctx, dean, req)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "faculty_id", fieldOf(t, err))
	})

	t.Run("faculty of another department", func(t *testing.T) {
		f := e.f.Faculty(t, e.f.DeptY.ID, "Tesla")
		req := e.req(e.classX, e.subjX, 1, 1)
		req.FacultyID = &f.ID
		_, err := e.orch.Propose(ctx, dean, req)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "subject's department")
	})

	t.Run("lowercase day is accepted", func(t *testing.T) {
		req := e.req(e.classX, e.subjX, 12, 12)
		req.Day = "friday"
		out, err := e.orch.Propose(ctx, dean, req)
		require.NoError(t, err)
		assert.Equal(t, model.Friday, out.Schedule.Day)
	})
}

func TestPropose_Update(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	created, err := e.orch.Propose(ctx, actorOf(e.deanX), e.req(e.classX, e.subjX, 1, 2))
	require.NoError(t, err)
	id := created.Schedule.ID

	e.clock.Advance(time.Minute)
	req := e.req(e.classX, e.subjX, 2, 4)
	req.ID = &id
	out, err := e.orch.Propose(ctx, actorOf(e.deanX), req)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, out.Status, "a schedule never conflicts with itself")
	assert.Equal(t, id, out.Schedule.ID)
	assert.True(t, out.UndoExpiresAt.IsZero())

	s := e.reload(t, id)
	assert.Equal(t, e.f.Slot(2), s.PeriodStartID)
	assert.Equal(t, e.f.Slot(4), s.PeriodEndID)
	assert.Len(t, e.projection(t, id), 3)

	h := e.history(t, id)
	require.Len(t, h, 2)
	assert.Equal(t, model.HistoryActionUpdate, h[1].Action)
	var before map[string]any
	require.NoError(t, json.Unmarshal(h[1].OldData, &before))
	assert.Equal(t, e.f.Slot(2).String(), before["period_end_id"])

	e.assertNoClassOverlap(t)
}

func TestPropose_UpdateOtherDepartmentsSchedule(t *testing.T) {
	e := newEnv(t)
	foreign := e.f.Schedule(t, testdb.Placement{Class: e.classY, Subject: e.subjY, From: 1, To: 1})

	req := e.req(e.classY, e.subjX, 1, 1)
	req.ID = &foreign.ID
	_, err := e.orch.Propose(t.Context(), actorOf(e.deanX), req)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, e.subjY.ID, e.reload(t, foreign.ID).SubjectID)
}

func TestPropose_UpdateDeletedSchedule(t *testing.T) {
	e := newEnv(t)
	s := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, From: 1, To: 1})
	require.NoError(t, e.f.DB.Model(&s).Update("is_deleted", true).Error)

	req := e.req(e.classX, e.subjX, 1, 1)
	req.ID = &s.ID
	_, err := e.orch.Propose(t.Context(), actorOf(e.deanX), req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPropose_ProjectionUniqueBackstop(t *testing.T) {
	e := newEnv(t)
	// Удалённое расписание с неочищенной проекцией имитирует параллельную вставку,
	// которую проверка конфликтов не увидела.
	stale := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, From: 7, To: 7})
	require.NoError(t, e.f.DB.Model(&stale).Update("is_deleted", true).Error)

	_, err := e.orch.Propose(t.Context(), actorOf(e.deanX), e.req(e.classX, e.subjX, 7, 8))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var active int64
	require.NoError(t, e.f.DB.Model(&model.Schedule{}).Where("is_deleted = ?", false).Count(&active).Error)
	assert.Zero(t, active, "schedule row rolled back together with the projection")
}

func TestPropose_AuditFailureIsWarning(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.f.DB.Migrator().DropTable(&model.ScheduleHistory{}))

	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), e.req(e.classX, e.subjX, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
	assert.Contains(t, out.Warnings, "Audit log entry could not be written")
	assert.False(t, e.reload(t, out.Schedule.ID).IsDeleted)
}

func TestWithinUndoWindow_Boundary(t *testing.T) {
	created := time.Date(2025, 8, 4, 8, 0, 0, 0, time.UTC)
	assert.True(t, WithinUndoWindow(created, created, DefaultUndoWindow))
	assert.True(t, WithinUndoWindow(created, created.Add(10000*time.Millisecond), DefaultUndoWindow))
	assert.False(t, WithinUndoWindow(created, created.Add(10001*time.Millisecond), DefaultUndoWindow))
}

func TestUndo_WithinWindow(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	out, err := e.orch.Propose(ctx, actorOf(e.deanX), e.req(e.classX, e.subjX, 1, 2))
	require.NoError(t, err)
	id := out.Schedule.ID

	e.clock.Advance(10000 * time.Millisecond)
	// Отмена не проверяет владельца по умолчанию.
	res, err := e.orch.Undo(ctx, actorOf(e.deanY), id)
	require.NoError(t, err)
	assert.Equal(t, id, res.ID)
	assert.Empty(t, res.Warnings)

	assert.True(t, e.reload(t, id).IsDeleted)
	assert.Empty(t, e.projection(t, id))

	h := e.history(t, id)
	require.Len(t, h, 2)
	undo := h[1]
	assert.Equal(t, model.HistoryActionUndoCreate, undo.Action)
	require.NotNil(t, undo.PerformedBy)
	assert.Equal(t, e.deanY.ID, *undo.PerformedBy)

	var pre map[string]any
	require.NoError(t, json.Unmarshal(undo.OldData, &pre))
	assert.Equal(t, false, pre["is_deleted"])
	assert.Equal(t, id.String(), pre["id"])

	assert.Equal(t, notify.EventUndone, e.pub.Events[len(e.pub.Events)-1].Type)

	_, err = e.orch.Undo(ctx, actorOf(e.deanX), id)
	assert.ErrorIs(t, err, ErrAlreadyDeleted)
}

func TestUndo_Expired(t *testing.T) {
	e := newEnv(t)
	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), e.req(e.classX, e.subjX, 1, 2))
	require.NoError(t, err)

	e.clock.Advance(10001 * time.Millisecond)
	_, err = e.orch.Undo(t.Context(), actorOf(e.deanX), out.Schedule.ID)
	assert.ErrorIs(t, err, ErrUndoExpired)
	assert.False(t, e.reload(t, out.Schedule.ID).IsDeleted)
}

func TestUndo_DeletedAlwaysFails(t *testing.T) {
	e := newEnv(t)
	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), e.req(e.classX, e.subjX, 1, 2))
	require.NoError(t, err)

	_, err = e.orch.Remove(t.Context(), actorOf(e.deanX), out.Schedule.ID)
	require.NoError(t, err)

	_, err = e.orch.Undo(t.Context(), actorOf(e.deanX), out.Schedule.ID)
	assert.ErrorIs(t, err, ErrAlreadyDeleted)
}

func TestUndo_OwnerOnly(t *testing.T) {
	e := newEnv(t, func(o *Options) { o.UndoOwnerOnly = true })
	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), e.req(e.classX, e.subjX, 1, 2))
	require.NoError(t, err)

	_, err = e.orch.Undo(t.Context(), actorOf(e.deanY), out.Schedule.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.orch.Undo(t.Context(), actorOf(e.deanX), out.Schedule.ID)
	assert.NoError(t, err)
}

func TestUndo_Errors(t *testing.T) {
	e := newEnv(t)
	_, err := e.orch.Undo(t.Context(), actorOf(e.deanX), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.orch.Undo(t.Context(), Actor{}, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRemove(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	roomID := e.roomX.ID
	s := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, RoomID: &roomID, From: 4, To: 5})

	_, err := e.orch.Remove(ctx, actorOf(e.deanY), s.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.orch.Remove(ctx, actorOf(e.lecturer), s.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	res, err := e.orch.Remove(ctx, actorOf(e.deanX), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, res.ID)
	assert.True(t, e.reload(t, s.ID).IsDeleted)
	assert.Empty(t, e.projection(t, s.ID))

	h := e.history(t, s.ID)
	require.Len(t, h, 1)
	assert.Equal(t, model.HistoryActionDelete, h[0].Action)
	assert.NotEmpty(t, h[0].OldData)
	assert.Equal(t, notify.EventDeleted, e.pub.Events[len(e.pub.Events)-1].Type)

	_, err = e.orch.Remove(ctx, actorOf(e.deanX), s.ID)
	assert.ErrorIs(t, err, ErrAlreadyDeleted)

	_, err = e.orch.Remove(ctx, actorOf(e.deanX), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_FreesSlotsForNewPlacement(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	s := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, From: 2, To: 4})

	_, err := e.orch.Remove(ctx, actorOf(e.deanX), s.ID)
	require.NoError(t, err)

	out, err := e.orch.Propose(ctx, actorOf(e.deanX), e.req(e.classX, e.subjX, 2, 4))
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
	assert.Len(t, e.projection(t, out.Schedule.ID), 3)
}

func TestRemove_ProjectionFailureKeepsScheduleActive(t *testing.T) {
	e := newEnv(t)
	s := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, From: 2, To: 3})
	require.NoError(t, e.f.DB.Migrator().DropTable(&model.SchedulePeriod{}))

	_, err := e.orch.Remove(t.Context(), actorOf(e.deanX), s.ID)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.False(t, e.reload(t, s.ID).IsDeleted, "flag flip rolled back together with the projection")

	// Слот освободился.
	out, err := e.orch.Propose(t.Context(), actorOf(e.deanX), e.req(e.classX, e.subjX, 4, 5))
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
}

func TestPreview_DoesNotWrite(t *testing.T) {
	e := newEnv(t)
	facID := e.facX.ID
	existing := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, FacultyID: &facID, From: 3, To: 4})

	req := e.req(e.classX, e.subjX, 4, 5)
	req.FacultyID = &facID
	req.Force = true
	res, err := e.orch.Preview(t.Context(), actorOf(e.deanX), req)
	require.NoError(t, err)
	require.NotNil(t, res.Blocking)
	assert.Equal(t, ConflictHard, res.Blocking.Type)
	assert.Equal(t, []uuid.UUID{existing.ID}, ids(res.Conflicts.Class))
	assert.Equal(t, []uuid.UUID{existing.ID}, ids(res.Conflicts.Faculty))

	assert.False(t, e.reload(t, existing.ID).IsDeleted)
	var n int64
	require.NoError(t, e.f.DB.Model(&model.Schedule{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	free, err := e.orch.Preview(t.Context(), actorOf(e.deanX), e.req(e.classX, e.subjX, 10, 11))
	require.NoError(t, err)
	assert.Nil(t, free.Blocking)
	assert.True(t, free.Conflicts.Empty())
}

func TestPropose_SequenceKeepsClassesExclusive(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	dean := actorOf(e.deanX)

	ranges := [][2]int{{1, 3}, {3, 5}, {4, 4}, {6, 8}, {2, 7}, {9, 9}, {8, 10}}
	for i, r := range ranges {
		req := e.req(e.classX, e.subjX, r[0], r[1])
		req.Force = i%2 == 1
		_, err := e.orch.Propose(ctx, dean, req)
		require.NoError(t, err)
		e.assertNoClassOverlap(t)
	}
}

func TestList(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	facID := e.facX.ID

	tue := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, Day: model.Tuesday, From: 1, To: 2})
	monLate := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, FacultyID: &facID, From: 5, To: 6})
	monGE := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjGE, From: 1, To: 1})
	removed := e.f.Schedule(t, testdb.Placement{Class: e.classX, Subject: e.subjX, Day: model.Wednesday, From: 1, To: 1})
	require.NoError(t, e.f.DB.Model(&removed).Update("is_deleted", true).Error)

	classView := ListRequest{View: repository.ViewClass, TargetID: e.classX.ID}

	t.Run("dean sees the whole class grid, edits own rows", func(t *testing.T) {
		page, err := e.orch.List(ctx, actorOf(e.deanX), classView)
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, []uuid.UUID{monGE.ID, monLate.ID, tue.ID}, []uuid.UUID{
			page.Items[0].Schedule.ID, page.Items[1].Schedule.ID, page.Items[2].Schedule.ID,
		})
		assert.False(t, page.Items[0].CanEdit, "GenEd row is shown but not editable by the dean")
		assert.True(t, page.Items[1].CanEdit)
		assert.True(t, page.Items[2].CanEdit)
		require.NotNil(t, page.Items[1].Schedule.PeriodStart)
		assert.Equal(t, 5, page.Items[1].Schedule.PeriodStart.SlotIndex)
		assert.Equal(t, 3, page.Total)
	})

	t.Run("gened sees everything, edits gened rows", func(t *testing.T) {
		page, err := e.orch.List(ctx, actorOf(e.genEd), classView)
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, []uuid.UUID{monGE.ID, monLate.ID, tue.ID}, []uuid.UUID{
			page.Items[0].Schedule.ID, page.Items[1].Schedule.ID, page.Items[2].Schedule.ID,
		})
		assert.True(t, page.Items[0].CanEdit)
		assert.False(t, page.Items[1].CanEdit)
	})

	t.Run("admin reads, never edits, paginated", func(t *testing.T) {
		req := classView
		req.Page, req.PageSize = 2, 1
		page, err := e.orch.List(ctx, actorOf(e.admin), req)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, monLate.ID, page.Items[0].Schedule.ID)
		assert.False(t, page.Items[0].CanEdit)
		assert.Equal(t, 3, page.Total)
		assert.True(t, page.HasNext)
		assert.True(t, page.HasPrev)
	})

	t.Run("faculty only own grid", func(t *testing.T) {
		page, err := e.orch.List(ctx, actorOf(e.lecturer), ListRequest{View: repository.ViewFaculty, TargetID: e.facX.ID})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, monLate.ID, page.Items[0].Schedule.ID)
		assert.False(t, page.Items[0].CanEdit)

		_, err = e.orch.List(ctx, actorOf(e.lecturer), ListRequest{View: repository.ViewFaculty, TargetID: e.facX2.ID})
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = e.orch.List(ctx, actorOf(e.lecturer), classView)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("dean of another department", func(t *testing.T) {
		_, err := e.orch.List(ctx, actorOf(e.deanY), classView)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("bad view", func(t *testing.T) {
		_, err := e.orch.List(ctx, actorOf(e.admin), ListRequest{View: "BUILDING", TargetID: e.classX.ID})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("no active term", func(t *testing.T) {
		require.NoError(t, e.f.DB.Model(&e.f.Term).Update("is_active", false).Error)
		t.Cleanup(func() { e.f.DB.Model(&e.f.Term).Update("is_active", true) })

		_, err := e.orch.List(ctx, actorOf(e.admin), classView)
		assert.ErrorIs(t, err, ErrNotFound)

		req := classView
		req.AcademicTermID = &e.f.Term.ID
		page, err := e.orch.List(ctx, actorOf(e.admin), req)
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
	})
}
