package tenant

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/tenant"
)

// jwtGuard resolves the tenant scope from the verified JWT claims on the
// request context. The identity collaborator stamps tenant_id and
// organization_id into every access token it issues.
type jwtGuard struct{}

func NewGuard() tenant.Guard {
	return &jwtGuard{}
}

// FromContext implements tenant.Guard.
func (g *jwtGuard) FromContext(ctx context.Context) (tenant.Scope, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return tenant.Scope{}, tenant.ErrNoTenantContext
	}

	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		return tenant.Scope{}, tenant.ErrNoTenantContext
	}

	scope := tenant.Scope{
		TenantID: tenantID,
	}

	if orgID, ok := claims["organization_id"].(string); ok {
		scope.OrganizationID = orgID
	}
	if userID, ok := claims["user_id"].(string); ok {
		scope.UserID = userID
	}
	if employeeID, ok := claims["employee_id"].(string); ok {
		scope.EmployeeID = employeeID
	}
	if role, ok := claims["role"].(string); ok {
		scope.Role = tenant.Role(role)
	}

	return scope, nil
}
