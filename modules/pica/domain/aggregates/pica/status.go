package pica

// Status is the lifecycle state of a corrective-action record.
type Status string

const (
	StatusProgress Status = "progress"
	StatusComplete Status = "complete"
	StatusOverdue  Status = "overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusProgress, StatusComplete, StatusOverdue:
		return true
	}
	return false
}

// TransitionAllowed reports whether writing next over current is permitted.
// The policy is deliberately open: any valid status may overwrite any other,
// including reopening a complete record. Routing every status write through
// this function keeps that an explicit policy rather than an accident, and
// makes tightening it a one-line change.
func TransitionAllowed(current, next Status) bool {
	return current.Valid() && next.Valid()
}
