// Package invoice defines the law-firm invoice entities: the expense line
// items ingested from LEDES spreadsheets and the bills that group them the
// way the accounting system stores them.  Expenses and bills are constructed
// per run, fed through the reconciliation engine, and discarded.
package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
)

// Expense is one line item from a law-firm invoice.  Expenses ingested from a
// spreadsheet carry InvoiceNumber/Docket/Description; expenses parsed back
// from the accounting system carry Memo (the encoded form) plus TxnLineID and
// RawBill, the raw record of the bill they belong to.
type Expense struct {
	LawFirmID     int
	Docket        string
	InvoiceDate   time.Time
	InvoiceNumber string
	Amount        decimal.Decimal
	Description   string

	// Memo is the raw memo text of a previously recorded line.
	Memo string

	// TxnLineID identifies the line within its bill on the accounting side.
	// The bill adapter copies it onto a candidate when the candidate is
	// matched against a previously recorded line.
	TxnLineID string

	// RawBill is the raw accounting record of the bill this line belongs
	// to, needed to re-emit sibling lines on update.
	RawBill *quickbooks.Record
}

// Bill aggregates the expenses of one law firm invoiced on one date, the
// granularity at which the accounting system stores bills.
type Bill struct {
	LawFirmID   int
	InvoiceDate time.Time
	Lines       []*Expense
}

// billKey groups expenses into bills.
type billKey struct {
	lawFirmID int
	date      time.Time
}

// GroupByBill collapses expense line items into bills keyed by
// (law firm, invoice date).  Line order within a bill and bill order both
// follow first appearance in the input.
func GroupByBill(expenses []*Expense) []*Bill {
	byKey := make(map[billKey]*Bill)
	var bills []*Bill
	for _, e := range expenses {
		k := billKey{lawFirmID: e.LawFirmID, date: e.InvoiceDate}
		b, ok := byKey[k]
		if !ok {
			b = &Bill{LawFirmID: e.LawFirmID, InvoiceDate: e.InvoiceDate}
			byKey[k] = b
			bills = append(bills, b)
		}
		b.Lines = append(b.Lines, e)
	}
	return bills
}

// DateLayout is the wire format for invoice dates on the accounting side.
const DateLayout = "2006-01-02"

// Date normalizes a timestamp to a date-only value in UTC so that dates
// compare with ==.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
