package tenant

import "errors"

var (
	ErrNoTenantContext = errors.New("no tenant context resolved for caller")
	ErrTenantMismatch  = errors.New("entity does not belong to the caller's tenant")
	ErrForbiddenTarget = errors.New("not allowed to act for another employee")
)
