package assignment

import "errors"

var (
	ErrAssignmentNotFound    = errors.New("no shift assignment found for this date")
	ErrOutsideScheduleWindow = errors.New("clock-in is outside the scheduled shift window")
)
