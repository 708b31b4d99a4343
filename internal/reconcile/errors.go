package reconcile

import (
	"errors"
	"fmt"
)

// ErrSkip tells the engine to drop a fetched record silently: the record is
// real but outside the scope of the job, such as a sub-account of a vendor
// or a job filed under a foreign parent.
var ErrSkip = errors.New("record out of scope")

// ErrMismatch marks two records as the same entity with differing content.
// Adapters wrap or return it from Equal to route the pair to the update
// path instead of the create path.
var ErrMismatch = errors.New("records differ")

// ParseError marks a fetched record that should belong to the job but
// cannot be decoded, usually because its composite name no longer resolves
// against the docket catalog.  The engine reports it and continues.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return e.msg }

// Parsef builds a ParseError.
func Parsef(format string, args ...any) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}
