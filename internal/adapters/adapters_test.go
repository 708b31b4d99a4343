package adapters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	"github.com/turtacn/IPBooks-Bridge/internal/reconcile"
)

func testCatalog() *docket.Catalog {
	return docket.NewCatalog(
		[]*docket.Technology{
			{ID: 1, Case: "T-100", Title: "Widget Improvement"},
			{ID: 2, Case: "T-200", Title: "Gene Splicer"},
		},
		[]*docket.Patent{
			{ID: 1, TechnologyID: 1, LawFirmID: 1, Docket: "P-4501-US",
				Serial: "12/345,678", TypeID: 1, CountryID: 1},
		},
		[]*docket.PatentType{
			{ID: 1, Name: "Utility"},
			{ID: 2, Name: "Design"},
		},
		[]*docket.LawFirm{
			{ID: 1, Name: "ACME Intellectual Property Law"},
			{ID: 2, Name: "Birch & Maple LLP"},
		},
		[]*docket.Country{
			{ID: 1, Name: "United States"},
			{ID: 2, Name: "United Kingdom"},
			{ID: 3, Name: "Germany"},
		},
	)
}

func isParseError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var parseErr *reconcile.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

// Vendor

func TestVendorParseFormatRoundTrip(t *testing.T) {
	a := NewVendor()
	firm := &docket.LawFirm{Name: "Birch & Maple LLP"}

	rec, err := a.Format(firm, nil)
	require.NoError(t, err)
	parsed, err := a.Parse(rec)
	require.NoError(t, err)
	assert.Equal(t, firm.Name, parsed.Name)
}

func TestVendorFormatTruncates(t *testing.T) {
	a := NewVendor()
	long := &docket.LawFirm{Name: strings.Repeat("A", 60)}

	rec, err := a.Format(long, nil)
	require.NoError(t, err)
	assert.Len(t, rec.Text("Name"), quickbooks.VendorNameMax)
}

func TestVendorEqual(t *testing.T) {
	a := NewVendor()
	firm := &docket.LawFirm{Name: "Birch & Maple LLP"}

	same, err := a.Equal(firm, &docket.LawFirm{Name: "Birch & Maple LLP"})
	require.NoError(t, err)
	assert.True(t, same)

	// Case-only difference is the same vendor needing a rename.
	_, err = a.Equal(firm, &docket.LawFirm{Name: "BIRCH & MAPLE llp"})
	assert.ErrorIs(t, err, reconcile.ErrMismatch)

	same, err = a.Equal(firm, &docket.LawFirm{Name: "Cedar Partners"})
	require.NoError(t, err)
	assert.False(t, same)

	// Differences beyond the name cap are invisible.
	a1 := &docket.LawFirm{Name: strings.Repeat("A", 41) + "X"}
	a2 := &docket.LawFirm{Name: strings.Repeat("A", 41) + "Y"}
	same, err = a.Equal(a1, a2)
	require.NoError(t, err)
	assert.True(t, same)
}

// Customer

func TestCustomerParse(t *testing.T) {
	a := NewCustomer()

	tech, err := a.Parse(quickbooks.NewRecord().Set("Name", "T-100; Widget Improvement"))
	require.NoError(t, err)
	assert.Equal(t, "T-100", tech.Case)
	assert.Equal(t, "Widget Improvement", tech.Title)

	// Jobs share the customer list; anything with a parent is not ours.
	job := quickbooks.NewRecord().
		Set("Name", "Utility; 123; US").
		SetChild("ParentRef", quickbooks.NewRecord().Set("FullName", "T-100; Widget Improvement"))
	_, err = a.Parse(job)
	assert.ErrorIs(t, err, reconcile.ErrSkip)

	_, err = a.Parse(quickbooks.NewRecord().Set("Name", "Some Stray Customer"))
	isParseError(t, err)
}

func TestCustomerParseTruncatedName(t *testing.T) {
	a := NewCustomer()
	tech, err := a.Parse(quickbooks.NewRecord().Set("Name", "T-100;"))
	require.NoError(t, err)
	assert.Equal(t, "T-100", tech.Case)
	assert.Equal(t, "", tech.Title)
}

func TestCustomerEqual(t *testing.T) {
	a := NewCustomer()
	tech := &docket.Technology{Case: "T-100", Title: "Widget Improvement"}

	same, err := a.Equal(tech, &docket.Technology{Case: "T-100", Title: "Widget Improvement"})
	require.NoError(t, err)
	assert.True(t, same)

	_, err = a.Equal(tech, &docket.Technology{Case: "t-100", Title: "Widget Improvement"})
	assert.ErrorIs(t, err, reconcile.ErrMismatch)

	_, err = a.Equal(tech, &docket.Technology{Case: "T-100", Title: "Widget"})
	assert.ErrorIs(t, err, reconcile.ErrMismatch)

	same, err = a.Equal(tech, &docket.Technology{Case: "T-200", Title: "Gene Splicer"})
	require.NoError(t, err)
	assert.False(t, same)
}

func TestCustomerEqualIgnoresTruncatedTitleTail(t *testing.T) {
	a := NewCustomer()
	// Both titles render to the same 41-character name.
	t1 := &docket.Technology{Case: "T-100", Title: strings.Repeat("x", 50)}
	t2 := &docket.Technology{Case: "T-100", Title: strings.Repeat("x", 60)}

	same, err := a.Equal(t1, t2)
	require.NoError(t, err)
	assert.True(t, same)
}

// Job

func jobRecord(name, parent string) *quickbooks.Record {
	return quickbooks.NewRecord().
		Set("Name", name).
		SetChild("ParentRef", quickbooks.NewRecord().Set("FullName", parent))
}

func TestJobParse(t *testing.T) {
	a := NewJob(testCatalog())

	p, err := a.Parse(jobRecord("Utility; 12/345,678; United States", "T-100; Widget Improvement"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.TechnologyID)
	assert.Equal(t, 1, p.TypeID)
	assert.Equal(t, 1, p.CountryID)
	assert.Equal(t, "12/345,678", p.Serial)

	// A bare customer is not a job.
	_, err = a.Parse(quickbooks.NewRecord().Set("Name", "T-100; Widget Improvement"))
	assert.ErrorIs(t, err, reconcile.ErrSkip)
}

func TestJobParseCountryPrefix(t *testing.T) {
	a := NewJob(testCatalog())

	p, err := a.Parse(jobRecord("Utility; 123; United St", "T-100; Widget Improvement"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.CountryID)

	// The ambiguous prefix resolves to the first country in load order.
	p, err = a.Parse(jobRecord("Utility; 123; United", "T-100; Widget Improvement"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.CountryID)

	// No match and no country both map to zero.
	p, err = a.Parse(jobRecord("Utility; 123; Atlantis", "T-100; Widget Improvement"))
	require.NoError(t, err)
	assert.Equal(t, 0, p.CountryID)

	p, err = a.Parse(jobRecord("Utility; 123;", "T-100; Widget Improvement"))
	require.NoError(t, err)
	assert.Equal(t, 0, p.CountryID)
}

func TestJobParseFailures(t *testing.T) {
	a := NewJob(testCatalog())

	_, err := a.Parse(jobRecord("Utility; 123; US", "T-999; Unknown"))
	isParseError(t, err)

	_, err = a.Parse(jobRecord("Hovercraft; 123; US", "T-100; Widget Improvement"))
	isParseError(t, err)

	_, err = a.Parse(jobRecord("Plain Name", "T-100; Widget Improvement"))
	isParseError(t, err)
}

func TestJobFormat(t *testing.T) {
	a := NewJob(testCatalog())
	p := &docket.Patent{TechnologyID: 1, TypeID: 1, CountryID: 1, Serial: "12/345,678"}

	rec, err := a.Format(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "Utility; 12/345,678; United States", rec.Text("Name"))
	assert.Equal(t, "T-100; Widget Improvement", rec.Child("ParentRef").Text("FullName"))
}

func TestJobEqual(t *testing.T) {
	a := NewJob(testCatalog())
	p := &docket.Patent{TechnologyID: 1, TypeID: 1, CountryID: 1, Serial: "12/345,678"}

	same, err := a.Equal(p, &docket.Patent{TechnologyID: 1, TypeID: 1, CountryID: 1, Serial: "12/345,678"})
	require.NoError(t, err)
	assert.True(t, same)

	// A different serial or country is a different patent.
	same, err = a.Equal(p, &docket.Patent{TechnologyID: 1, TypeID: 1, CountryID: 1, Serial: "99/999,999"})
	require.NoError(t, err)
	assert.False(t, same)

	same, err = a.Equal(p, &docket.Patent{TechnologyID: 1, TypeID: 1, CountryID: 3, Serial: "12/345,678"})
	require.NoError(t, err)
	assert.False(t, same)

	// The same filing under another technology or type needs fixing.
	_, err = a.Equal(p, &docket.Patent{TechnologyID: 2, TypeID: 1, CountryID: 1, Serial: "12/345,678"})
	assert.ErrorIs(t, err, reconcile.ErrMismatch)

	_, err = a.Equal(p, &docket.Patent{TechnologyID: 1, TypeID: 2, CountryID: 1, Serial: "12/345,678"})
	assert.ErrorIs(t, err, reconcile.ErrMismatch)
}

// Account

func TestAccountAdapter(t *testing.T) {
	a := NewAccount()

	name, err := a.Parse(quickbooks.NewRecord().Set("FullName", "6100 - Patent Related Expenses"))
	require.NoError(t, err)
	assert.Equal(t, "6100 - Patent Related Expenses", name)

	same, err := a.Equal("6100 - Patent Related Expenses", "6100 - PATENT RELATED EXPENSES")
	require.NoError(t, err)
	assert.True(t, same)

	rec, err := a.Format("6100 - Patent Related Expenses", nil)
	require.NoError(t, err)
	assert.Equal(t, "6100 - Patent Related Expenses", rec.Text("Name"))
	assert.Equal(t, "Expense", rec.Text("AccountType"))

	// Accounts are never modified in place.
	_, updatable := any(a).(reconcile.Updater[string])
	assert.False(t, updatable)
}
