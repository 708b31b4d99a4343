package adapters

import (
	"strings"

	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	"github.com/turtacn/IPBooks-Bridge/internal/reconcile"
)

// Job mirrors patents onto the customer list as jobs under their
// technology's customer.  Only records with a ParentRef are jobs; bare
// customers are skipped.  Identity is (serial, country) under the parent
// technology; a differing technology or patent type is a mismatch.
type Job struct {
	reconcile.Ungrouped[*docket.Patent]
	catalog *docket.Catalog
}

// NewJob returns the patent job adapter.
func NewJob(catalog *docket.Catalog) *Job {
	return &Job{catalog: catalog}
}

func (*Job) Kind() string { return "Customer" }

func (a *Job) Parse(rec *quickbooks.Record) (*docket.Patent, error) {
	parent := rec.Child("ParentRef")
	if parent == nil {
		return nil, reconcile.ErrSkip
	}
	name := rec.Text("Name")
	parts, err := quickbooks.SplitName(name, 3)
	if err != nil {
		return nil, reconcile.Parsef("cannot parse job name %q", name)
	}
	typeName, serial, countryPrefix := parts[0], parts[1], parts[2]

	parsed, err := parseTechnologyName(parent.Text("FullName"))
	if err != nil {
		return nil, err
	}
	tech, ok := a.catalog.Technology(parsed.Case)
	if !ok {
		return nil, reconcile.Parsef("no technology for case %q", parsed.Case)
	}

	var typeID int
	if typeName != "" {
		pt, ok := a.catalog.PatentType(typeName)
		if !ok {
			return nil, reconcile.Parsef("no patent type named %q", typeName)
		}
		typeID = pt.ID
	}

	var countryID int
	if countryPrefix != "" {
		if country, ok := a.catalog.CountryByPrefix(countryPrefix); ok {
			countryID = country.ID
		}
	}

	return &docket.Patent{
		TechnologyID: tech.ID,
		TypeID:       typeID,
		CountryID:    countryID,
		Serial:       serial,
	}, nil
}

func (a *Job) Format(p *docket.Patent, report func(error)) (*quickbooks.Record, error) {
	tech, ok := a.catalog.TechnologyByID[p.TechnologyID]
	if !ok {
		return nil, reconcile.Parsef("no technology with id %d", p.TechnologyID)
	}
	return quickbooks.NewRecord().
		Set("Name", patentName(a.catalog, p)).
		SetChild("ParentRef", quickbooks.NewRecord().Set("FullName", technologyName(tech))), nil
}

// Equal normalizes both sides through a format/parse round trip so both are
// reduced to what the name codec can carry, then compares the surviving
// fields.
func (a *Job) Equal(candidate, old *docket.Patent) (bool, error) {
	cn, err := a.normalize(candidate)
	if err != nil {
		return false, nil
	}
	on, err := a.normalize(old)
	if err != nil {
		return false, nil
	}
	if !strings.EqualFold(cn.Serial, on.Serial) {
		return false, nil
	}
	if cn.CountryID != on.CountryID {
		return false, nil
	}
	if cn.TechnologyID != on.TechnologyID {
		return false, reconcile.ErrMismatch
	}
	if cn.TypeID != on.TypeID {
		return false, reconcile.ErrMismatch
	}
	return true, nil
}

func (a *Job) normalize(p *docket.Patent) (*docket.Patent, error) {
	rec, err := a.Format(p, func(error) {})
	if err != nil {
		return nil, err
	}
	return a.Parse(rec)
}

func (a *Job) Update(candidate *docket.Patent, report func(error)) (*quickbooks.Record, error) {
	return a.Format(candidate, report)
}
