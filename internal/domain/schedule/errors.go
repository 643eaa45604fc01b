package schedule

import "errors"

var (
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrAssignmentNotFound = errors.New("schedule assignment not found")

	// ErrVersionConflict means the row changed since the caller read it.
	ErrVersionConflict = errors.New("schedule was modified by another request")

	ErrActorRequired = errors.New("actor is required for state transitions")
)
