// Package ingest loads law-firm invoice spreadsheets in LEDES 1998B layout
// and turns their rows into expense line items.  Firms deliver the same
// layout in different containers, so both CSV and XLSX files are accepted;
// everything after the container is shared.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/turtacn/IPBooks-Bridge/internal/config"
	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/domain/invoice"
	"github.com/turtacn/IPBooks-Bridge/pkg/errors"
)

// ledesBanner opens LEDES 1998B files ahead of the header row.
const ledesBanner = "LEDES1998B"

// rowDateLayout is the date format of the INVOICE_DATE column.
const rowDateLayout = "20060102"

// Columns read from the spreadsheet.  The header row is located in-band by
// the presence of the amount column.
const (
	colReference   = "LAW_FIRM_REFERENCE_NUMBER"
	colDate        = "INVOICE_DATE"
	colNumber      = "INVOICE_NUMBER"
	colAmount      = "INVOICE_AMOUNT"
	colDescription = "DESCRIPTION_OF_EXPENSES"
)

// parenthetical matches annotations firms append to docket references.
var parenthetical = regexp.MustCompile(`\(.*\)`)

// Profile describes how one firm's spreadsheets are read.
type Profile struct {
	FirmName      string
	DocketPattern *regexp.Regexp
}

// NewProfile compiles a configured firm profile.
func NewProfile(cfg config.FirmProfile) (Profile, error) {
	pattern, err := regexp.Compile(cfg.DocketPattern)
	if err != nil {
		return Profile{}, errors.Wrap(err, errors.CodeInvoiceFormat,
			"invalid docket pattern").WithDetail(cfg.Name)
	}
	if pattern.NumSubexp() < 1 {
		return Profile{}, errors.Newf(errors.CodeInvoiceFormat,
			"docket pattern %q has no capture group", cfg.DocketPattern)
	}
	return Profile{FirmName: cfg.Name, DocketPattern: pattern}, nil
}

// Reader loads expense line items for one firm.
type Reader struct {
	profile Profile
	catalog *docket.Catalog
}

// NewReader returns a reader for the given firm profile.
func NewReader(profile Profile, catalog *docket.Catalog) *Reader {
	return &Reader{profile: profile, catalog: catalog}
}

// LoadExpenses reads the spreadsheet at path, dispatching on its extension.
func (r *Reader) LoadExpenses(path string) ([]*invoice.Expense, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return r.loadCSV(path)
	case ".xlsx":
		return r.loadXLSX(path)
	default:
		return nil, errors.Newf(errors.CodeInvoiceOpen,
			"unsupported spreadsheet type %q", filepath.Ext(path))
	}
}

func (r *Reader) loadCSV(path string) ([]*invoice.Expense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvoiceOpen, "open spreadsheet")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvoiceFormat, "read csv")
	}
	return r.expensesFromRows(rows)
}

func (r *Reader) loadXLSX(path string) ([]*invoice.Expense, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvoiceOpen, "open spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.CodeInvoiceFormat, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvoiceFormat, "read worksheet")
	}
	return r.expensesFromRows(rows)
}

// expensesFromRows walks the LEDES rows: banner and blank rows are skipped,
// the header row (spotted by the amount column) establishes the column
// index, and every later row becomes an expense.  Rows repeating an invoice
// number fold into one expense, keeping the longest description.
func (r *Reader) expensesFromRows(rows [][]string) ([]*invoice.Expense, error) {
	firm, ok := r.catalog.LawFirm(r.profile.FirmName)
	if !ok {
		return nil, errors.Newf(errors.CodeInvoiceFirm,
			"law firm %q not found in docket database", r.profile.FirmName)
	}

	var index map[string]int
	byNumber := make(map[string]*invoice.Expense)
	var expenses []*invoice.Expense
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		if strings.HasPrefix(row[0], ledesBanner) {
			continue
		}
		// Some exports pack the whole line into the first cell.
		if strings.Contains(row[0], "\t") {
			row = strings.Split(row[0], "\t")
		}
		if containsCell(row, colAmount) {
			index = make(map[string]int, len(row))
			for j, key := range row {
				index[strings.TrimSpace(key)] = j
			}
			continue
		}
		if index == nil {
			return nil, errors.Newf(errors.CodeInvoiceFormat,
				"row %d appears before the header row", i+1)
		}

		expense, err := r.expenseFromRow(row, index, firm.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvoiceFormat,
				fmt.Sprintf("row %d", i+1))
		}
		if prev, ok := byNumber[expense.InvoiceNumber]; ok {
			if len(expense.Description) > len(prev.Description) {
				prev.Description = expense.Description
			}
			continue
		}
		byNumber[expense.InvoiceNumber] = expense
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

func (r *Reader) expenseFromRow(row []string, index map[string]int, firmID int) (*invoice.Expense, error) {
	reference, err := cell(row, index, colReference)
	if err != nil {
		return nil, err
	}
	m := r.profile.DocketPattern.FindStringSubmatch(reference)
	if m == nil {
		return nil, fmt.Errorf("reference %q does not match docket pattern", reference)
	}
	docketRef := strings.TrimSpace(parenthetical.ReplaceAllString(m[1], ""))

	rawDate, err := cell(row, index, colDate)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(rowDateLayout, strings.TrimSpace(rawDate))
	if err != nil {
		return nil, fmt.Errorf("invoice date %q is not yyyymmdd", rawDate)
	}

	number, err := cell(row, index, colNumber)
	if err != nil {
		return nil, err
	}
	rawAmount, err := cell(row, index, colAmount)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil {
		return nil, fmt.Errorf("invoice amount %q is not a number", rawAmount)
	}
	description, err := cell(row, index, colDescription)
	if err != nil {
		return nil, err
	}

	return &invoice.Expense{
		LawFirmID:     firmID,
		Docket:        docketRef,
		InvoiceDate:   date,
		InvoiceNumber: strings.TrimSpace(number),
		Amount:        amount,
		Description:   strings.Trim(description, `" `),
	}, nil
}

func cell(row []string, index map[string]int, key string) (string, error) {
	i, ok := index[key]
	if !ok {
		return "", fmt.Errorf("header row has no %s column", key)
	}
	if i >= len(row) {
		return "", fmt.Errorf("row has no %s cell", key)
	}
	return row[i], nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func containsCell(row []string, want string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) == want {
			return true
		}
	}
	return false
}
