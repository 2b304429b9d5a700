package tenant

import "context"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleOwner    Role = "owner"
)

// Scope is the resolved tenant context of a request. Every repository read
// and write below the handlers is parameterized by it.
type Scope struct {
	TenantID       string
	OrganizationID string
	UserID         string
	EmployeeID     string
	Role           Role
}

// IsSupervisor reports whether the caller may act on other employees'
// sessions and review approvals.
func (s Scope) IsSupervisor() bool {
	return s.Role == RoleManager || s.Role == RoleOwner
}

// TargetEmployee picks the employee an action applies to: the explicit
// target for supervisor-initiated actions, otherwise the caller's own
// employee id.
func (s Scope) TargetEmployee(explicit *string) (string, error) {
	if explicit == nil || *explicit == "" || *explicit == s.EmployeeID {
		if s.EmployeeID == "" {
			return "", ErrNoTenantContext
		}
		return s.EmployeeID, nil
	}
	if !s.IsSupervisor() {
		return "", ErrForbiddenTarget
	}
	return *explicit, nil
}

// Guard resolves the caller's tenant scope from the request context.
type Guard interface {
	FromContext(ctx context.Context) (Scope, error)
}
