package domain

import "errors"

// ErrNotFound is returned when an operation references a node ID that does not exist.
var ErrNotFound = errors.New("node not found")

// ErrInvalidOperation is returned for structurally disallowed edits
// (e.g. removing the root) and selection policy violations.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrNoSelection is returned when an edit requires exactly one selected node
// and the current selection is empty or ambiguous.
var ErrNoSelection = errors.New("no selection")

// ErrInvariantViolation signals an internal consistency failure, such as a stale
// selection reference or a dangling child reference. It is always a bug.
var ErrInvariantViolation = errors.New("invariant violation")

// IsRecoverable reports whether err is an expected condition that callers may
// surface as a no-op or a message. Invariant violations are never recoverable.
func IsRecoverable(err error) bool {
	if err == nil || errors.Is(err, ErrInvariantViolation) {
		return false
	}
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrNoSelection)
}
