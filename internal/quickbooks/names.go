package quickbooks

import (
	"fmt"
	"strings"
)

// NameSeparator joins the components of a composite display name.  It must
// never contain a colon: the accounting system reserves ":" as its
// parent:child hierarchy delimiter, so the separator is the only other
// structure a name can carry.
const NameSeparator = "; "

// Field length caps published by the accounting system.  Anything longer is
// truncated on the way out; the name codec is deliberately lossy beyond
// these caps.
const (
	ListNameMax   = 41
	VendorNameMax = 41
	MemoMax       = 4095
)

// Truncate returns s cut to at most max bytes.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// ComposeName builds the composite display name for a record from its
// component fields.  Separator occurrences inside a component are replaced
// with a single space, the joined result is truncated to the list-name cap,
// literal colons are stripped, and surrounding space is trimmed.
//
// ComposeName is not exactly invertible by SplitName when inputs exceed the
// cap or contain the separator; that is an accepted bounded loss, not a bug.
func ComposeName(parts ...string) string {
	cleaned := make([]string, len(parts))
	for i, p := range parts {
		cleaned[i] = strings.ReplaceAll(p, NameSeparator, " ")
	}
	name := Truncate(strings.Join(cleaned, NameSeparator), ListNameMax)
	name = strings.ReplaceAll(name, ":", "")
	return strings.TrimSpace(name)
}

// SplitName inverts ComposeName, returning exactly n space-trimmed parts.
//
// The truncation in ComposeName can eat trailing empty components, so a name
// that splits into fewer than n parts but ends in the right-trimmed
// separator is accepted: the trailing separator is stripped, the remainder
// is re-split, and the missing fields come back empty.  Any other shortfall
// is a parse failure.  The fallback fires only on that trailing separator:
// a bare single-component name like "ACME" does not split into ("ACME", ""),
// it fails, because such names are never produced by ComposeName with a
// blank second component ("ACME;" is).
func SplitName(name string, n int) ([]string, error) {
	parts := strings.Split(name, NameSeparator)
	if len(parts) >= n {
		out := make([]string, n)
		for i := 0; i < n; i++ {
			out[i] = strings.TrimSpace(parts[i])
		}
		return out, nil
	}

	rtrimmed := strings.TrimRight(NameSeparator, " ")
	if !strings.HasSuffix(name, rtrimmed) {
		return nil, fmt.Errorf("could not split name=%s into %d parts", name, n)
	}
	rest := strings.TrimSuffix(name, rtrimmed)
	sub := strings.Split(rest, NameSeparator)
	out := make([]string, n)
	for i := 0; i < n-1 && i < len(sub); i++ {
		out[i] = strings.TrimSpace(sub[i])
	}
	return out, nil
}
