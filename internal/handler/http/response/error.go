package response

import (
	"errors"
	"net/http"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/approval"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/assignment"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/employee"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/tenant"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Tenant scope errors
	switch {
	case errors.Is(err, tenant.ErrNoTenantContext):
		Unauthorized(w, "Missing tenant context")
	case errors.Is(err, tenant.ErrTenantMismatch):
		NotFound(w, "Resource not found")
	case errors.Is(err, tenant.ErrForbiddenTarget):
		Forbidden(w, "Not allowed to act on this employee")

	// Session domain errors
	case errors.Is(err, session.ErrAlreadyClockedIn):
		Conflict(w, "An open session already exists")
	case errors.Is(err, session.ErrNoActiveSession):
		NotFound(w, "No active session")
	case errors.Is(err, session.ErrAlreadyOnBreak):
		Conflict(w, "A break is already open")
	case errors.Is(err, session.ErrNoActiveBreak):
		Conflict(w, "No open break to end")
	case errors.Is(err, session.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, session.ErrSessionCompleted):
		Conflict(w, "Session already completed")

	// Assignment domain errors
	case errors.Is(err, assignment.ErrAssignmentNotFound):
		BadRequest(w, "No shift assignment for today", nil)
	case errors.Is(err, assignment.ErrOutsideScheduleWindow):
		BadRequest(w, "Outside the scheduled clock-in window", nil)

	// Approval domain errors
	case errors.Is(err, approval.ErrSessionNotCompleted):
		Conflict(w, "Session must be completed before submission")
	case errors.Is(err, approval.ErrNotPending):
		Conflict(w, "Session is not pending approval")
	case errors.Is(err, approval.ErrAlreadyDecided):
		Conflict(w, "Session has already been decided")
	case errors.Is(err, approval.ErrRecordNotFound):
		NotFound(w, "Approval record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
