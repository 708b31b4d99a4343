// Package config defines all configuration structures for IPBooks-Bridge.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/monitoring/logging"
)

// DocketConfig holds connection parameters for the IP-docket database, the
// system of record for technologies, patents, and law firms.  The database is
// read-only from this tool's point of view.
type DocketConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
}

// BooksConfig holds parameters for the accounting-system bridge: the HTTP
// endpoint that accepts QBXML request envelopes and returns QBXML responses
// on behalf of the locally running accounting application.
type BooksConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	ApplicationName string        `mapstructure:"application_name"`
	QBXMLVersion    string        `mapstructure:"qbxml_version"`
	Timeout         time.Duration `mapstructure:"timeout"`

	// ExpenseAccount is the full name of the expense account every imported
	// line item is charged to.
	ExpenseAccount string `mapstructure:"expense_account"`
}

// FirmProfile describes how one law firm's invoice spreadsheets are read:
// the firm's name as it appears in the docket database, and the pattern that
// extracts the docket reference from the firm's reference column.
type FirmProfile struct {
	Name          string `mapstructure:"name"`
	DocketPattern string `mapstructure:"docket_pattern"`
}

// InvoiceConfig holds invoice-spreadsheet ingestion parameters.
type InvoiceConfig struct {
	Firms []FirmProfile `mapstructure:"firms"`
}

// MetricsConfig holds the optional Prometheus listener settings.  The
// listener only runs for the duration of a batch; it exists so long runs can
// be watched, not as a service endpoint.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// Config is the root configuration for the tool.
type Config struct {
	Log     logging.Config `mapstructure:"log"`
	Docket  DocketConfig   `mapstructure:"docket"`
	Books   BooksConfig    `mapstructure:"books"`
	Invoice InvoiceConfig  `mapstructure:"invoice"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
}

// Validate checks the configuration for values that would make a run fail
// at an awkward point later.  It returns the first problem found.
func (c *Config) Validate() error {
	if c.Docket.Host == "" {
		return fmt.Errorf("docket.host is required")
	}
	if c.Docket.Port <= 0 || c.Docket.Port > 65535 {
		return fmt.Errorf("docket.port %d is out of range", c.Docket.Port)
	}
	if c.Docket.DBName == "" {
		return fmt.Errorf("docket.db_name is required")
	}
	if c.Books.Endpoint == "" {
		return fmt.Errorf("books.endpoint is required")
	}
	if c.Books.ExpenseAccount == "" {
		return fmt.Errorf("books.expense_account is required")
	}
	for i, firm := range c.Invoice.Firms {
		if firm.Name == "" {
			return fmt.Errorf("invoice.firms[%d].name is required", i)
		}
		if firm.DocketPattern == "" {
			return fmt.Errorf("invoice.firms[%d].docket_pattern is required", i)
		}
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr is required when metrics.enabled")
	}
	return nil
}
