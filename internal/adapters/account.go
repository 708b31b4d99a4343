package adapters

import (
	"strings"

	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	"github.com/turtacn/IPBooks-Bridge/internal/reconcile"
)

// Account ensures the expense account the bills post against exists.  The
// account is matched case-insensitively by full name and never modified, so
// there is no update path.
type Account struct {
	reconcile.Ungrouped[string]
}

// NewAccount returns the expense-account adapter.
func NewAccount() *Account { return &Account{} }

func (*Account) Kind() string { return "Account" }

func (*Account) Parse(rec *quickbooks.Record) (string, error) {
	return rec.Text("FullName"), nil
}

func (*Account) Format(name string, report func(error)) (*quickbooks.Record, error) {
	return quickbooks.NewRecord().
		Set("Name", name).
		Set("AccountType", "Expense"), nil
}

func (*Account) Equal(candidate, old string) (bool, error) {
	return strings.EqualFold(candidate, old), nil
}
