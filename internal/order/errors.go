package order

import "errors"

var (
	// ErrInvalidTransition means the requested status change is not
	// reachable from the current status at all.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPreconditionFailed means the transition exists but a business
	// rule blocks it (cancel after confirmation, expired return window,
	// return on a xerox line).
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrValidationFailed means required input for the transition is
	// missing, e.g. a rejection without a reason.
	ErrValidationFailed = errors.New("validation failed")
)
