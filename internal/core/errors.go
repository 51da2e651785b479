package core

import "errors"

// Error taxonomy. Callers test with errors.Is; concrete errors wrap one of
// these with context via fmt.Errorf("...: %w", ...).
var (
	// ErrFetchFailed marks a transport, status or decoding failure talking to
	// the catalog. Previously loaded state is left untouched.
	ErrFetchFailed = errors.New("catalog fetch failed")

	// ErrNotFound marks a requested firm that the catalog does not have.
	ErrNotFound = errors.New("firm not found")

	// ErrValidationRejected marks input refused before any state change.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrSelectionLimitReached is returned by SelectionSet.Toggle when the set
	// is already full.
	ErrSelectionLimitReached = &validationError{msg: "selection limit reached: at most 4 firms can be compared"}

	// ErrStaleResponse marks a filter response that a newer request superseded.
	// It is dropped, never shown to users.
	ErrStaleResponse = errors.New("stale response discarded")
)

// validationError is a named validation failure that also matches
// ErrValidationRejected.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool {
	return target == ErrValidationRejected
}

// IsStale reports whether err only signals a superseded response.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleResponse)
}
