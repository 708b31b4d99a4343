package reconcile

import (
	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
)

// Item pairs a decoded value with the raw accounting record it came from.
// The raw record carries the server-issued identifiers an update must echo
// back.
type Item[T any] struct {
	Value T
	Raw   *quickbooks.Record
}

// Adapter translates one accounting list kind between its wire records and
// the docket-side values the engine compares.
//
// The two type parameters separate the granularity of comparison from the
// granularity of transfer: C is the unit the engine matches (an expense
// line), R is the unit fetched and created (a whole bill).  Flat kinds use
// the same type for both and embed Ungrouped.
type Adapter[C, R any] interface {
	// Kind names the accounting list this adapter serves, e.g. "Vendor".
	Kind() string

	// Parse decodes a fetched record.  ErrSkip drops the record silently,
	// a *ParseError reports it and drops it, any other error aborts the
	// job.
	Parse(rec *quickbooks.Record) (R, error)

	// Format renders a new value as a create payload.  Soft per-line
	// problems go to report; a returned error skips the whole value.
	Format(value R, report func(error)) (*quickbooks.Record, error)

	// Equal tests a candidate against a decoded record.  (true, nil)
	// means matched, (false, nil) means unrelated, ErrMismatch means the
	// same entity with differing content.
	Equal(candidate, old C) (bool, error)

	// Expand splits fetched units into comparison units; Collapse groups
	// new comparison units back into transfer units.
	Expand(items []Item[R]) []Item[C]
	Collapse(values []C) []R
}

// Updater is implemented by adapters whose kind supports in-place
// modification.  The engine merges the server identifiers into the
// returned payload before sending it.
type Updater[C any] interface {
	Update(candidate C, report func(error)) (*quickbooks.Record, error)
}

// Ungrouped provides identity Expand/Collapse for kinds whose comparison
// unit is the transfer unit.
type Ungrouped[T any] struct{}

func (Ungrouped[T]) Expand(items []Item[T]) []Item[T] { return items }
func (Ungrouped[T]) Collapse(values []T) []T          { return values }
