package approval

import "errors"

// Approval gate errors
var (
	ErrNotPending          = errors.New("session is not pending approval")
	ErrAlreadyDecided      = errors.New("session has already been approved or rejected")
	ErrSessionNotCompleted = errors.New("only completed sessions can be submitted for approval")
	ErrRecordNotFound      = errors.New("approval record not found")
)
