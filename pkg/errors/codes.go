package errors

// ErrorCode is a string representation of a specific failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	CodeUnknown  ErrorCode = "COMMON_000"
	CodeInternal ErrorCode = "COMMON_001"
	CodeNotFound ErrorCode = "COMMON_002"
	CodeInvalid  ErrorCode = "COMMON_003"
	CodeCanceled ErrorCode = "COMMON_004"
)

// Docket database error codes
const (
	CodeDocketConnection ErrorCode = "DKT_001"
	CodeDocketQuery      ErrorCode = "DKT_002"
	CodeDocketScan       ErrorCode = "DKT_003"
)

// Accounting gateway error codes
const (
	CodeBooksConnection ErrorCode = "QB_001"
	CodeBooksRequest    ErrorCode = "QB_002"
	CodeBooksResponse   ErrorCode = "QB_003"
	CodeBooksStatus     ErrorCode = "QB_004"
)

// Invoice ingestion error codes
const (
	CodeInvoiceOpen   ErrorCode = "INV_001"
	CodeInvoiceFormat ErrorCode = "INV_002"
	CodeInvoiceFirm   ErrorCode = "INV_003"
)

// Reconciliation error codes
const (
	CodeSyncParse    ErrorCode = "SYNC_001"
	CodeSyncFormat   ErrorCode = "SYNC_002"
	CodeSyncDeclined ErrorCode = "SYNC_003"
)

// defaultMessages maps each code to a short human-readable description used
// when a caller constructs an error without its own message.
var defaultMessages = map[ErrorCode]string{
	CodeUnknown:          "unknown error",
	CodeInternal:         "internal error",
	CodeNotFound:         "not found",
	CodeInvalid:          "invalid input",
	CodeCanceled:         "operation canceled",
	CodeDocketConnection: "docket database connection failed",
	CodeDocketQuery:      "docket database query failed",
	CodeDocketScan:       "docket database row scan failed",
	CodeBooksConnection:  "accounting system connection failed",
	CodeBooksRequest:     "accounting system request failed",
	CodeBooksResponse:    "accounting system response unreadable",
	CodeBooksStatus:      "accounting system reported an error status",
	CodeInvoiceOpen:      "invoice spreadsheet could not be opened",
	CodeInvoiceFormat:    "invoice spreadsheet row malformed",
	CodeInvoiceFirm:      "law firm is not present in the docket database",
	CodeSyncParse:        "accounting record could not be parsed",
	CodeSyncFormat:       "record could not be formatted",
	CodeSyncDeclined:     "operator declined the requested change",
}

// DefaultMessageForCode returns the canonical description for a code, or
// "unknown error" for codes this package does not know about.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return "unknown error"
}
