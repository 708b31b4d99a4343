package adapters

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/domain/invoice"
	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	"github.com/turtacn/IPBooks-Bridge/internal/reconcile"
)

// memoPattern inverts the memo layout written by formatLine.  The four
// spaces between the docket reference and the description are the field
// boundary; the docket reference itself may contain single spaces.
var memoPattern = regexp.MustCompile(`^Inv (.*) Ref (.*)    (.*)`)

// Bill mirrors spreadsheet expenses onto the bill list.  Bills are fetched
// and created whole, one per law firm and invoice date, but matched line by
// line: a candidate expense is the same line as a recorded one when the
// invoice number appears in the recorded memo, and a date or content
// difference re-emits the whole bill as an update.
type Bill struct {
	catalog        *docket.Catalog
	expenseAccount string
}

// NewBill returns the expense bill adapter posting against the given
// expense account.
func NewBill(catalog *docket.Catalog, expenseAccount string) *Bill {
	return &Bill{catalog: catalog, expenseAccount: expenseAccount}
}

func (*Bill) Kind() string { return "Bill" }

func (a *Bill) Parse(rec *quickbooks.Record) (*invoice.Bill, error) {
	firmName := rec.Child("VendorRef").Text("FullName")
	firm, ok := a.catalog.LawFirm(firmName)
	if !ok {
		return nil, reconcile.Parsef("no law firm named %q", firmName)
	}
	date, err := time.Parse(invoice.DateLayout, rec.Text("TxnDate"))
	if err != nil {
		return nil, reconcile.Parsef("cannot parse bill date %q", rec.Text("TxnDate"))
	}

	bill := &invoice.Bill{LawFirmID: firm.ID, InvoiceDate: date}
	for _, line := range rec.List("ExpenseLineRet") {
		amount, err := decimal.NewFromString(line.Text("Amount"))
		if err != nil {
			return nil, reconcile.Parsef("cannot parse line amount %q", line.Text("Amount"))
		}
		bill.Lines = append(bill.Lines, &invoice.Expense{
			LawFirmID:   firm.ID,
			InvoiceDate: date,
			Amount:      amount,
			Memo:        line.Text("Memo"),
			TxnLineID:   line.Text("TxnLineID"),
		})
	}
	return bill, nil
}

// Expand flattens fetched bills to their lines, keeping a handle on the raw
// bill so an update can re-emit the sibling lines.
func (a *Bill) Expand(items []reconcile.Item[*invoice.Bill]) []reconcile.Item[*invoice.Expense] {
	var out []reconcile.Item[*invoice.Expense]
	for _, item := range items {
		for _, line := range item.Value.Lines {
			line.RawBill = item.Raw
			out = append(out, reconcile.Item[*invoice.Expense]{Value: line, Raw: item.Raw})
		}
	}
	return out
}

func (a *Bill) Collapse(expenses []*invoice.Expense) []*invoice.Bill {
	return invoice.GroupByBill(expenses)
}

func (a *Bill) Format(bill *invoice.Bill, report func(error)) (*quickbooks.Record, error) {
	firm, ok := a.catalog.LawFirmByID[bill.LawFirmID]
	if !ok {
		return nil, fmt.Errorf("no law firm with id %d", bill.LawFirmID)
	}
	rec := quickbooks.NewRecord().
		SetChild("VendorRef", quickbooks.NewRecord().Set("FullName", firm.Name)).
		Set("TxnDate", bill.InvoiceDate.Format(invoice.DateLayout))
	for _, line := range bill.Lines {
		rec.AddChild("ExpenseLineAdd", a.formatLine(line, report, false))
	}
	return rec, nil
}

// Equal matches a candidate expense against a recorded line.  A hit hands
// the recorded line's identifiers to the candidate so a later update can
// address it, then compares dates and rendered content.
func (a *Bill) Equal(candidate, old *invoice.Expense) (bool, error) {
	if candidate.LawFirmID != old.LawFirmID {
		return false, nil
	}
	if !strings.Contains(strings.ToLower(old.Memo), strings.ToLower(candidate.InvoiceNumber)) {
		return false, nil
	}
	candidate.TxnLineID = old.TxnLineID
	candidate.RawBill = old.RawBill
	if !candidate.InvoiceDate.Equal(old.InvoiceDate) {
		return false, reconcile.ErrMismatch
	}
	nop := func(error) {}
	if !a.formatLine(candidate, nop, false).Equal(a.formatLine(old, nop, false)) {
		return false, reconcile.ErrMismatch
	}
	return true, nil
}

// Update re-emits every line of the bill the matched line lives in,
// substituting the candidate for its recorded counterpart.
func (a *Bill) Update(candidate *invoice.Expense, report func(error)) (*quickbooks.Record, error) {
	old, err := a.Parse(candidate.RawBill)
	if err != nil {
		return nil, err
	}
	payload := quickbooks.NewRecord().
		Set("TxnDate", candidate.InvoiceDate.Format(invoice.DateLayout))
	for _, line := range old.Lines {
		src := line
		if line.TxnLineID == candidate.TxnLineID {
			src = candidate
		}
		payload.AddChild("ExpenseLineMod", a.formatLine(src, report, true))
	}
	return payload, nil
}

// formatLine renders one expense line.  A recorded line whose memo no
// longer matches the expected layout renders as an empty record, which can
// never equal a freshly rendered line and therefore forces an update.
func (a *Bill) formatLine(e *invoice.Expense, report func(error), withTxnLineID bool) *quickbooks.Record {
	var docketRef, memo string
	switch {
	case e.Memo != "":
		m := memoPattern.FindStringSubmatch(e.Memo)
		if m == nil {
			return quickbooks.NewRecord()
		}
		docketRef = m[2]
		memo = e.Memo
	case e.InvoiceNumber == "" && e.Docket == "":
		// A recorded line with a blank memo; force the update.
		return quickbooks.NewRecord()
	default:
		docketRef = e.Docket
		memo = fmt.Sprintf("Inv %s Ref %s    %s", e.InvoiceNumber, e.Docket, e.Description)
	}

	line := quickbooks.NewRecord()
	if withTxnLineID {
		line.Set("TxnLineID", e.TxnLineID)
	}
	line.SetChild("AccountRef", quickbooks.NewRecord().Set("FullName", a.expenseAccount))
	line.Set("Amount", e.Amount.StringFixed(2))
	line.Set("Memo", quickbooks.Truncate(memo, quickbooks.MemoMax))

	if patent, ok := a.catalog.Patent(docketRef); ok {
		if tech, ok := a.catalog.TechnologyByID[patent.TechnologyID]; ok {
			fullName := technologyName(tech) + ":" + patentName(a.catalog, patent)
			line.SetChild("CustomerRef", quickbooks.NewRecord().Set("FullName", fullName))
		} else {
			report(fmt.Errorf("no technology with id %d for docket %q", patent.TechnologyID, docketRef))
		}
	} else {
		report(fmt.Errorf("no matching patent for docket %q", docketRef))
	}
	return line
}
