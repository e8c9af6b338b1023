package scheduling

import (
	"github.com/google/uuid"

	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/repository"
)

// Caller — аутентифицированный пользователь с уже вычисленной эффективной ролью.
type Caller struct {
	UserID       uuid.UUID
	Role         Role
	DepartmentID *uuid.UUID
	// Запись преподавателя, привязанная к учётке (для роли FACULTY).
	FacultyID *uuid.UUID
}

// Policy — правила доступа к расписаниям.
type Policy struct {
	// Разрешает ADMIN создавать, менять и удалять расписания. По умолчанию выключено.
	AdminCanMutateSchedules bool
}

// Decision: Reason заполняется только при отказе.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

type MutationTarget struct {
	Subject           *model.Subject
	ClassDepartmentID uuid.UUID
	// Room == nil — аудитория не указана.
	Room *model.Room
}

const (
	ReasonFacultyReadOnly   = "Faculty cannot modify schedules"
	ReasonAdminReadOnly     = "Admins cannot modify schedules"
	ReasonNoDepartment      = "Caller has no department"
	ReasonSubjectDepartment = "Subject belongs to another department"
	ReasonGenEdSubject      = "GenEd subjects are managed by the GenEd dean"
	ReasonRoomDepartment    = "Room belongs to another department"
	ReasonNotGenEdSubject   = "GenEd dean can only schedule GenEd subjects"
	ReasonUnknownRole       = "Role is not allowed to modify schedules"
)

// CanMutate решает, можно ли создать, изменить или удалить расписание. Первый отказ побеждает.
// Департамент группы не участвует в решении: владелец расписания — департамент дисциплины.
func (p Policy) CanMutate(role Role, callerDept *uuid.UUID, t MutationTarget) Decision {
	switch role {
	case RoleFaculty:
		return deny(ReasonFacultyReadOnly)
	case RoleAdmin:
		if p.AdminCanMutateSchedules {
			return allow()
		}
		return deny(ReasonAdminReadOnly)
	case RoleDean:
		if callerDept == nil {
			return deny(ReasonNoDepartment)
		}
		if t.Subject == nil || t.Subject.DepartmentID != *callerDept {
			return deny(ReasonSubjectDepartment)
		}
		if t.Subject.IsGenEd {
			return deny(ReasonGenEdSubject)
		}
		// Аудитория без департамента — общая аудитория кампуса.
		if t.Room != nil && t.Room.DepartmentID != nil && *t.Room.DepartmentID != *callerDept {
			return deny(ReasonRoomDepartment)
		}
		return allow()
	case RoleGenEd:
		if t.Subject == nil || !t.Subject.IsGenEd {
			return deny(ReasonNotGenEdSubject)
		}
		return allow()
	default:
		return deny(ReasonUnknownRole)
	}
}

type ViewTarget struct {
	View     repository.ViewKind
	TargetID uuid.UUID
	// Департамент целевой группы / преподавателя / аудитории; nil у аудиторий кампуса.
	DepartmentID *uuid.UUID
}

// CanView: ADMIN и GENED видят всё, DEAN — только свой департамент,
// FACULTY — только собственную сетку преподавателя.
func (p Policy) CanView(c Caller, t ViewTarget) bool {
	switch c.Role {
	case RoleAdmin, RoleGenEd:
		return true
	case RoleDean:
		if c.DepartmentID == nil {
			return false
		}
		if t.DepartmentID == nil {
			return t.View == repository.ViewRoom
		}
		return *t.DepartmentID == *c.DepartmentID
	case RoleFaculty:
		return t.View == repository.ViewFaculty && c.FacultyID != nil && *c.FacultyID == t.TargetID
	default:
		return false
	}
}

// CanEdit помечает строку для отображения, доступ не ограничивает.
func (p Policy) CanEdit(role Role, callerDept *uuid.UUID, row *model.Schedule, subject *model.Subject) bool {
	if row == nil || subject == nil {
		return false
	}
	switch role {
	case RoleGenEd:
		return subject.IsGenEd
	case RoleDean:
		return callerDept != nil &&
			row.DepartmentID == *callerDept &&
			subject.DepartmentID == *callerDept &&
			!subject.IsGenEd
	default:
		return false
	}
}
