package report

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPeriod = errors.New("period must be one of week, month, year, custom")
	ErrInvalidRange  = errors.New("invalid reporting range")
	ErrDataFetch     = errors.New("failed to load report data")
)

// RangeError rejects a custom window. It matches ErrInvalidRange with errors.Is.
type RangeError struct {
	Field  string
	Reason string
}

func (e *RangeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid reporting range: %s", e.Reason)
	}
	return fmt.Sprintf("invalid reporting range: %s %s", e.Field, e.Reason)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}
