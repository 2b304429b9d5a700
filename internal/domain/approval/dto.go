package approval

import (
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/validator"
)

// ========================================
// APPROVAL DTOs
// ========================================

type SubmitRequest struct {
	SessionID string `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecideRequest struct {
	SessionID string   `json:"-"`
	Decision  Decision `json:"-"`
	Notes     *string  `json:"notes,omitempty"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id must be a valid UUID",
		})
	}

	if r.Decision != DecisionApproved && r.Decision != DecisionRejected {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be approved or rejected",
		})
	}

	if r.Decision == DecisionRejected && (r.Notes == nil || validator.IsEmpty(*r.Notes)) {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes are required when rejecting a session",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PendingFilter struct {
	TeamID *string
	Page   int
	Limit  int
}

func (f *PendingFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.TeamID != nil && !validator.IsValidUUID(*f.TeamID) {
		errs = append(errs, validator.ValidationError{
			Field:   "team_id",
			Message: "team_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PayableFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Page       int
	Limit      int
}

func (f *PayableFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID         string  `json:"id"`
	SessionID  string  `json:"session_id"`
	ApproverID string  `json:"approver_id"`
	Decision   string  `json:"decision"`
	Notes      *string `json:"notes,omitempty"`
	DecidedAt  string  `json:"decided_at"`
}
