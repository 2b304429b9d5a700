package session

import "errors"

// Session domain errors
var (
	// Clock action preconditions
	ErrAlreadyClockedIn = errors.New("an open session already exists for this employee")
	ErrNoActiveSession  = errors.New("no open session exists for this employee")
	ErrAlreadyOnBreak   = errors.New("the session is already on break")
	ErrNoActiveBreak    = errors.New("no open break exists on this session")

	// General errors
	ErrSessionNotFound  = errors.New("attendance session not found")
	ErrSessionCompleted = errors.New("the session is already completed")
)
