package pica

import "time"

// toDate discards the time-of-day component after converting the instant into
// the given location, so that both sides of a date comparison share one
// calendar.
func toDate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DeriveStatus computes the status p should carry as of the given instant.
// Only progress records are ever promoted: a record whose due date (date-only)
// is strictly before the as-of date is overdue. A record due today is not yet
// overdue, and complete or overdue records are returned unchanged; there is
// no demotion path.
//
// Both instants are evaluated in asOf's location, so a due date persisted in a
// different zone cannot shift the comparison by a day at the boundary.
//
// The function is pure; persisting the derived status is a separate effect.
func DeriveStatus(p *Pica, asOf time.Time) Status {
	if p.Status() != StatusProgress {
		return p.Status()
	}
	loc := asOf.Location()
	if toDate(p.DueDate(), loc).Before(toDate(asOf, loc)) {
		return StatusOverdue
	}
	return StatusProgress
}
