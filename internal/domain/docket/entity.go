// Package docket defines the entities loaded from the IP-docket database
// (the system of record for technologies, patents, patent types, law firms,
// and countries) together with the per-run lookup tables used by the
// reconciliation adapters.  All records are immutable for the duration of a
// run: they are loaded once and used only for lookups.
package docket

import "context"

// Technology is a technology case record.  Case is the primary
// human-readable key.
type Technology struct {
	ID    int
	Case  string
	Title string
}

// Patent is a filed patent or application.  Docket is the law firm's
// reference number, the join key to invoice line items.  A patent is only
// usable for reconciliation when both Docket and Serial are non-empty; the
// repository drops records failing this before they reach the core.
type Patent struct {
	ID           int
	TechnologyID int
	LawFirmID    int
	Title        string
	Docket       string
	Serial       string
	StatusID     int
	TypeID       int
	CountryID    int
	FilingDate   string
}

// PatentType is a lookup-table record (utility, design, provisional, …).
type PatentType struct {
	ID   int
	Name string
}

// LawFirm is a company record of type law firm.  Name is case-insensitively
// unique within the table.
type LawFirm struct {
	ID   int
	Name string
}

// Country is a lookup-table record.
type Country struct {
	ID   int
	Name string
}

// Repository loads reference tables from the docket database.  Implementations
// must filter out patents with an empty Docket or Serial.
type Repository interface {
	LoadTechnologies(ctx context.Context) ([]*Technology, error)
	LoadPatents(ctx context.Context) ([]*Patent, error)
	LoadPatentTypes(ctx context.Context) ([]*PatentType, error)
	LoadLawFirms(ctx context.Context) ([]*LawFirm, error)
	LoadCountries(ctx context.Context) ([]*Country, error)
}
