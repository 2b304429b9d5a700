package session

import (
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/validator"
)

// ========================================
// SESSION DTOs
// ========================================

// ClockInRequest starts a new session. EmployeeID is only honored for
// supervisor-initiated actions; everyone else clocks in as themselves.
// EnforceSchedule additionally requires an assignment for today and a
// clock-in inside the punctuality window around its start.
type ClockInRequest struct {
	EmployeeID      *string `json:"employee_id,omitempty"`
	EnforceSchedule bool    `json:"enforce_schedule,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ActionRequest covers break-start, break-end, clock-out and current-session
// reads, all of which only need an optional target employee.
type ActionRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (r *ActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionResponse struct {
	ID                 string   `json:"id"`
	EmployeeID         string   `json:"employee_id"`
	EmployeeName       *string  `json:"employee_name,omitempty"`
	AssignmentID       *string  `json:"assignment_id,omitempty"`
	Status             string   `json:"status"`
	ApprovalStatus     string   `json:"approval_status"`
	ClockInTime        string   `json:"clock_in_time"`
	ClockOutTime       *string  `json:"clock_out_time,omitempty"`
	BreakMinutes       int      `json:"break_minutes"`
	OnBreakSince       *string  `json:"on_break_since,omitempty"`
	WorkedMinutes      *int     `json:"worked_minutes,omitempty"`
	WorkedHours        *float64 `json:"worked_hours,omitempty"`
	BreakOverAllowance bool     `json:"break_over_allowance"`
	CloseReason        *string  `json:"close_reason,omitempty"`
}

type ListSessionsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Sessions   []SessionResponse `json:"sessions"`
}
