package models

import "time"

// WithinWindow reports whether at falls inside [from, to]. A nil bound leaves
// that side open. The upper bound is date-inclusive: validity extends through
// the end of the day named by to.
func WithinWindow(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil {
		end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
		if !at.Before(end) {
			return false
		}
	}
	return true
}
