// Package adapters translates between docket-side entities and the
// accounting lists that mirror them: law firms as vendors, technologies as
// customers, patents as jobs under their technology's customer, and invoice
// expenses as bill lines.  Each adapter plugs into the reconciliation
// engine and owns the naming and comparison rules of its list kind.
package adapters

import (
	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
)

// technologyName composes the customer display name for a technology.
func technologyName(t *docket.Technology) string {
	return quickbooks.ComposeName(t.Case, t.Title)
}

// patentName composes the job display name for a patent.  A zero type or
// country renders as an empty field.
func patentName(cat *docket.Catalog, p *docket.Patent) string {
	var typeName, countryName string
	if p.TypeID != 0 {
		if pt, ok := cat.PatentTypeByID[p.TypeID]; ok {
			typeName = pt.Name
		}
	}
	if p.CountryID != 0 {
		if co, ok := cat.CountryByID[p.CountryID]; ok {
			countryName = co.Name
		}
	}
	return quickbooks.ComposeName(typeName, p.Serial, countryName)
}
