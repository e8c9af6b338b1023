package scheduling

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/repository"
)

// Role — эффективная роль вызывающего.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDean    Role = "DEAN"
	RoleGenEd   Role = "GENED"
	RoleFaculty Role = "FACULTY"
)

type DepartmentLookup interface {
	GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error)
}

// ResolveRole вычисляет эффективную роль. DEAN повышается до GENED, если его
// департамент имеет тип GENED. Вызывается на каждый запрос, результат не кешируется.
func ResolveRole(ctx context.Context, depts DepartmentLookup, storedRole string, departmentID *uuid.UUID) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(storedRole)))
	if role != RoleDean || departmentID == nil {
		return role, nil
	}

	dept, err := depts.GetDepartment(ctx, *departmentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return RoleDean, nil
		}
		return "", persistence("resolve role", err)
	}
	if strings.EqualFold(string(dept.Type), string(model.DepartmentTypeGenEd)) {
		return RoleGenEd, nil
	}
	return RoleDean, nil
}
