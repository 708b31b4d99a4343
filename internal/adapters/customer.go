package adapters

import (
	"strings"

	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	"github.com/turtacn/IPBooks-Bridge/internal/reconcile"
)

// Customer mirrors technologies onto the customer list.  Jobs live on the
// same list but carry a ParentRef, so records with a parent are skipped
// here.  Identity is the case-insensitive technology case code; a casing or
// title difference is a mismatch.
type Customer struct {
	reconcile.Ungrouped[*docket.Technology]
}

// NewCustomer returns the technology customer adapter.
func NewCustomer() *Customer { return &Customer{} }

func (*Customer) Kind() string { return "Customer" }

func (*Customer) Parse(rec *quickbooks.Record) (*docket.Technology, error) {
	if rec.Has("ParentRef") {
		return nil, reconcile.ErrSkip
	}
	return parseTechnologyName(rec.Text("Name"))
}

func parseTechnologyName(name string) (*docket.Technology, error) {
	parts, err := quickbooks.SplitName(name, 2)
	if err != nil {
		return nil, reconcile.Parsef("cannot parse customer name %q", name)
	}
	return &docket.Technology{Case: parts[0], Title: parts[1]}, nil
}

func (*Customer) Format(t *docket.Technology, report func(error)) (*quickbooks.Record, error) {
	return quickbooks.NewRecord().Set("Name", technologyName(t)), nil
}

// Equal pushes both sides through the name codec so that truncation and
// colon stripping cannot masquerade as differences.
func (a *Customer) Equal(candidate, old *docket.Technology) (bool, error) {
	cn, err := parseTechnologyName(technologyName(candidate))
	if err != nil {
		return false, nil
	}
	on, err := parseTechnologyName(technologyName(old))
	if err != nil {
		return false, nil
	}
	if !strings.EqualFold(cn.Case, on.Case) {
		return false, nil
	}
	if cn.Case != on.Case {
		return false, reconcile.ErrMismatch
	}
	if cn.Title != on.Title {
		return false, reconcile.ErrMismatch
	}
	return true, nil
}

func (a *Customer) Update(candidate *docket.Technology, report func(error)) (*quickbooks.Record, error) {
	return a.Format(candidate, report)
}
