// Package cli defines the command-line interface: the root command with its
// global flags and the sync subcommand that runs a reconciliation batch.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/IPBooks-Bridge/internal/config"
	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Yes        bool

	cfg    *config.Config
	logger logging.Logger
}

// NewRootCommand creates the root command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ipbooks",
		Short: "Import law-firm invoice expenses into the accounting system",
		Long: "ipbooks reconciles an IP-docket database with the accounting system:\n" +
			"law firms become vendors, technologies become customers, patents become\n" +
			"jobs, and invoice spreadsheet lines become bill expenses.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.BoolVarP(&opts.Yes, "yes", "y", false, "answer yes to every confirmation prompt")

	cmd.AddCommand(newSyncCommand(opts))
	return cmd
}

// setup loads the configuration and builds the logger shared by every
// subcommand.
func (o *RootOptions) setup() error {
	var cfg *config.Config
	var err error
	if o.ConfigPath != "" {
		cfg, err = config.Load(o.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = logger
	return nil
}

// Execute runs the CLI.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
