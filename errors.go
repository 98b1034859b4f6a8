package groupjoin

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors. Match with errors.Is.
var (
	// ErrInvalidArgument is returned when maxGroup is not positive
	ErrInvalidArgument = errors.New("groupjoin: invalid argument")

	// ErrInvalidGroupLabel is returned when a label lies outside [0, maxGroup)
	ErrInvalidGroupLabel = errors.New("groupjoin: invalid group label")

	// ErrAllocation is returned when an output or bucket buffer cannot be allocated
	ErrAllocation = errors.New("groupjoin: allocation failure")
)

// Side identifies which input sequence of a join a label came from
type Side int

const (
	// SideUnknown is used by the single-sequence helpers (CountGroups, Partition)
	SideUnknown Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "sequence"
	}
}

// LabelError reports an out-of-range or null group label.
type LabelError struct {
	Side     Side
	Position int
	Value    int64
	Null     bool
	MaxGroup int
}

func (e *LabelError) Error() string {
	if e.Null {
		return fmt.Sprintf("groupjoin: %s label at position %d is null", e.Side, e.Position)
	}
	return fmt.Sprintf("groupjoin: %s label %d at position %d is outside [0, %d)",
		e.Side, e.Value, e.Position, e.MaxGroup)
}

// Is makes LabelError match ErrInvalidGroupLabel.
func (e *LabelError) Is(target error) bool {
	return target == ErrInvalidGroupLabel
}

// AllocationError reports an output or label-space buffer that cannot be
// materialized.
// Overflow is set when the size does not fit in an int; Rows is then zero.
type AllocationError struct {
	What     string
	Rows     int
	Limit    int
	Overflow bool
	Cause    error
}

func (e *AllocationError) Error() string {
	switch {
	case e.Overflow:
		return fmt.Sprintf("groupjoin: %s size overflows int", e.What)
	case e.Cause != nil:
		return fmt.Sprintf("groupjoin: cannot allocate %s of %d entries: %v", e.What, e.Rows, e.Cause)
	default:
		return fmt.Sprintf("groupjoin: %s of %d rows exceeds limit %d", e.What, e.Rows, e.Limit)
	}
}

// Is makes AllocationError match ErrAllocation.
func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocation
}

func (e *AllocationError) Unwrap() error { return e.Cause }

func invalidMaxGroup(maxGroup int) error {
	return errors.Wrapf(ErrInvalidArgument, "max_group must be positive, got %d", maxGroup)
}
