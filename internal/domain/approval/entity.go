package approval

import "time"

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// Record is the reviewed outcome of a completed session. Payroll reads
// approved records as its only source of payable hours; raw session hours
// never reach payroll without passing through here.
type Record struct {
	ID         string
	TenantID   string
	SessionID  string
	ApproverID string
	Decision   Decision
	Notes      *string
	DecidedAt  time.Time
	CreatedAt  time.Time
}
