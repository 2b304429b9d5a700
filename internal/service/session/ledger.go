package session

import (
	"time"
)

// Duration bookkeeping is done in whole minutes, truncated. Truncating both
// the session span and each break keeps worked minutes non-negative: the
// sum of truncated breaks never exceeds the truncated span they fit inside.

func minutesBetween(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

func workedMinutes(clockIn, clockOut time.Time, breakMinutes int) int {
	worked := minutesBetween(clockIn, clockOut) - breakMinutes
	if worked < 0 {
		worked = 0
	}
	return worked
}

func overAllowance(totalBreakMinutes, allowanceMinutes int) bool {
	return allowanceMinutes > 0 && totalBreakMinutes > allowanceMinutes
}
