package config

import "time"

// Default values applied to unset fields before validation.
const (
	defaultDocketPort      = 5432
	defaultDocketSSLMode   = "disable"
	defaultMaxOpenConns    = 4
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 30 * time.Minute
	defaultDialTimeout     = 5 * time.Second

	defaultQBXMLVersion    = "8.0"
	defaultApplicationName = "IPBooks-Bridge"
	defaultBooksTimeout    = 2 * time.Minute
	defaultExpenseAccount  = "6100 - Patent Related Expenses"

	defaultMetricsListenAddr = "127.0.0.1:9190"
)

// defaultDocketPattern extracts the docket reference from the law firm's
// reference column in LEDES exports.
const defaultDocketPattern = `OUR DOCKET: (.*)`

// ApplyDefaults fills in every unset field that has a sensible default.
// It never overrides a value the operator supplied.
func ApplyDefaults(c *Config) {
	if c.Docket.Port == 0 {
		c.Docket.Port = defaultDocketPort
	}
	if c.Docket.SSLMode == "" {
		c.Docket.SSLMode = defaultDocketSSLMode
	}
	if c.Docket.MaxOpenConns == 0 {
		c.Docket.MaxOpenConns = defaultMaxOpenConns
	}
	if c.Docket.MaxIdleConns == 0 {
		c.Docket.MaxIdleConns = defaultMaxIdleConns
	}
	if c.Docket.ConnMaxLifetime == 0 {
		c.Docket.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if c.Docket.DialTimeout == 0 {
		c.Docket.DialTimeout = defaultDialTimeout
	}

	if c.Books.QBXMLVersion == "" {
		c.Books.QBXMLVersion = defaultQBXMLVersion
	}
	if c.Books.ApplicationName == "" {
		c.Books.ApplicationName = defaultApplicationName
	}
	if c.Books.Timeout == 0 {
		c.Books.Timeout = defaultBooksTimeout
	}
	if c.Books.ExpenseAccount == "" {
		c.Books.ExpenseAccount = defaultExpenseAccount
	}

	for i := range c.Invoice.Firms {
		if c.Invoice.Firms[i].DocketPattern == "" {
			c.Invoice.Firms[i].DocketPattern = defaultDocketPattern
		}
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = defaultMetricsListenAddr
	}
}
