package adapters

import (
	"strings"

	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	"github.com/turtacn/IPBooks-Bridge/internal/reconcile"
)

// Vendor mirrors law firms onto the vendor list.  Identity is the
// case-insensitive name after truncation; a case-only difference is a
// mismatch fixed by rewriting the name.
type Vendor struct {
	reconcile.Ungrouped[*docket.LawFirm]
}

// NewVendor returns the law-firm vendor adapter.
func NewVendor() *Vendor { return &Vendor{} }

func (*Vendor) Kind() string { return "Vendor" }

func (*Vendor) Parse(rec *quickbooks.Record) (*docket.LawFirm, error) {
	return &docket.LawFirm{Name: rec.Text("Name")}, nil
}

func (*Vendor) Format(firm *docket.LawFirm, report func(error)) (*quickbooks.Record, error) {
	name := quickbooks.Truncate(firm.Name, quickbooks.VendorNameMax)
	return quickbooks.NewRecord().Set("Name", name), nil
}

func (a *Vendor) Equal(candidate, old *docket.LawFirm) (bool, error) {
	cn := quickbooks.Truncate(candidate.Name, quickbooks.VendorNameMax)
	on := quickbooks.Truncate(old.Name, quickbooks.VendorNameMax)
	if !strings.EqualFold(cn, on) {
		return false, nil
	}
	if cn != on {
		return false, reconcile.ErrMismatch
	}
	return true, nil
}

func (a *Vendor) Update(candidate *docket.LawFirm, report func(error)) (*quickbooks.Record, error) {
	return a.Format(candidate, report)
}
