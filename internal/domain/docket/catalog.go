package docket

import "strings"

// Catalog indexes the reference tables for the lookups the adapters perform.
// Name and case keys are lowercased; on duplicate keys the last loaded record
// wins.  Countries additionally keep their load order because job names
// resolve countries by first case-insensitive prefix match.
type Catalog struct {
	TechnologyByID   map[int]*Technology
	TechnologyByCase map[string]*Technology
	PatentByID       map[int]*Patent
	PatentByDocket   map[string]*Patent
	PatentTypeByID   map[int]*PatentType
	PatentTypeByName map[string]*PatentType
	LawFirmByID      map[int]*LawFirm
	LawFirmByName    map[string]*LawFirm
	CountryByID      map[int]*Country

	// Countries preserves load order for prefix matching.
	Countries []*Country
}

// NewCatalog builds the lookup tables from loaded reference records.
func NewCatalog(
	technologies []*Technology,
	patents []*Patent,
	patentTypes []*PatentType,
	lawFirms []*LawFirm,
	countries []*Country,
) *Catalog {
	c := &Catalog{
		TechnologyByID:   make(map[int]*Technology, len(technologies)),
		TechnologyByCase: make(map[string]*Technology, len(technologies)),
		PatentByID:       make(map[int]*Patent, len(patents)),
		PatentByDocket:   make(map[string]*Patent, len(patents)),
		PatentTypeByID:   make(map[int]*PatentType, len(patentTypes)),
		PatentTypeByName: make(map[string]*PatentType, len(patentTypes)),
		LawFirmByID:      make(map[int]*LawFirm, len(lawFirms)),
		LawFirmByName:    make(map[string]*LawFirm, len(lawFirms)),
		CountryByID:      make(map[int]*Country, len(countries)),
		Countries:        countries,
	}
	for _, t := range technologies {
		c.TechnologyByID[t.ID] = t
		c.TechnologyByCase[strings.ToLower(t.Case)] = t
	}
	for _, p := range patents {
		c.PatentByID[p.ID] = p
		c.PatentByDocket[strings.ToLower(p.Docket)] = p
	}
	for _, pt := range patentTypes {
		c.PatentTypeByID[pt.ID] = pt
		c.PatentTypeByName[strings.ToLower(pt.Name)] = pt
	}
	for _, f := range lawFirms {
		c.LawFirmByID[f.ID] = f
		c.LawFirmByName[strings.ToLower(f.Name)] = f
	}
	for _, co := range countries {
		c.CountryByID[co.ID] = co
	}
	return c
}

// Technology returns the technology with the given case code,
// case-insensitively.
func (c *Catalog) Technology(caseCode string) (*Technology, bool) {
	t, ok := c.TechnologyByCase[strings.ToLower(caseCode)]
	return t, ok
}

// PatentType returns the patent type with the given name, case-insensitively.
func (c *Catalog) PatentType(name string) (*PatentType, bool) {
	pt, ok := c.PatentTypeByName[strings.ToLower(name)]
	return pt, ok
}

// LawFirm returns the law firm with the given name, case-insensitively.
func (c *Catalog) LawFirm(name string) (*LawFirm, bool) {
	f, ok := c.LawFirmByName[strings.ToLower(name)]
	return f, ok
}

// Patent returns the patent with the given docket reference,
// case-insensitively.
func (c *Catalog) Patent(docketRef string) (*Patent, bool) {
	p, ok := c.PatentByDocket[strings.ToLower(docketRef)]
	return p, ok
}

// CountryByPrefix returns the first loaded country whose name starts with
// prefix, case-insensitively.  An empty prefix matches the first country, so
// callers must treat empty as "no country" before calling.  Returns false
// when no country matches.
func (c *Catalog) CountryByPrefix(prefix string) (*Country, bool) {
	lower := strings.ToLower(prefix)
	for _, co := range c.Countries {
		if strings.HasPrefix(strings.ToLower(co.Name), lower) {
			return co, true
		}
	}
	return nil, false
}
