package scheduling

import (
	"errors"
	"fmt"
)

// Error codes for the scheduling core.
const (
	CodeInvalidSchedule   = "invalidSchedule"
	CodeInvalidDuration   = "invalidDuration"
	CodeSlotConflict      = "slotConflict"
	CodeInvalidTransition = "invalidTransition"
	CodeHoldNotFound      = "holdNotFound"
	CodeNotFound          = "notFound"
)

// ScheduleError is a typed error carrying a stable machine-readable code.
type ScheduleError struct {
	Code    string
	Message string
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidScheduleError(format string, args ...interface{}) error {
	return &ScheduleError{Code: CodeInvalidSchedule, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidDurationError(format string, args ...interface{}) error {
	return &ScheduleError{Code: CodeInvalidDuration, Message: fmt.Sprintf(format, args...)}
}

func NewSlotConflictError(format string, args ...interface{}) error {
	return &ScheduleError{Code: CodeSlotConflict, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidTransitionError(format string, args ...interface{}) error {
	return &ScheduleError{Code: CodeInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) error {
	return &ScheduleError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewHoldNotFoundError(format string, args ...interface{}) error {
	return &ScheduleError{Code: CodeHoldNotFound, Message: fmt.Sprintf(format, args...)}
}

func hasCode(err error, code string) bool {
	var se *ScheduleError
	return errors.As(err, &se) && se.Code == code
}

// IsInvalidSchedule reports malformed working-hours input.
func IsInvalidSchedule(err error) bool { return hasCode(err, CodeInvalidSchedule) }

// IsInvalidDuration reports a non-positive or missing service duration.
func IsInvalidDuration(err error) bool { return hasCode(err, CodeInvalidDuration) }

// IsSlotConflict reports that the requested interval was no longer free at
// commit time. This is an expected, recoverable condition, not a bug.
func IsSlotConflict(err error) bool { return hasCode(err, CodeSlotConflict) }

// IsInvalidTransition reports an illegal appointment status change.
func IsInvalidTransition(err error) bool { return hasCode(err, CodeInvalidTransition) }

// IsNotFound reports a missing appointment or session.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsHoldNotFound reports a release of an unknown hold. Release itself is
// idempotent; this only ever surfaces in diagnostics.
func IsHoldNotFound(err error) bool { return hasCode(err, CodeHoldNotFound) }
