package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/IPBooks-Bridge/internal/application/sync"
	"github.com/turtacn/IPBooks-Bridge/internal/config"
	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/database/postgres"
	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/ingest"
	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	"github.com/turtacn/IPBooks-Bridge/pkg/errors"
)

func newSyncCommand(opts *RootOptions) *cobra.Command {
	var firmName string

	cmd := &cobra.Command{
		Use:   "sync <spreadsheet>",
		Short: "Reconcile the docket database and one invoice spreadsheet into the accounting system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts, args[0], firmName)
		},
	}
	cmd.Flags().StringVar(&firmName, "firm", "",
		"law firm the spreadsheet belongs to (default: the only configured firm)")
	return cmd
}

func runSync(cmd *cobra.Command, opts *RootOptions, spreadsheetPath, firmName string) error {
	cfg, logger := opts.cfg, opts.logger
	ctx := cmd.Context()

	profile, err := selectFirm(cfg.Invoice.Firms, firmName)
	if err != nil {
		return err
	}

	conn, err := postgres.NewConnection(cfg.Docket, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	repo := postgres.NewDocketRepository(conn, logger)

	gateway := quickbooks.NewClient(quickbooks.ClientConfig{
		Endpoint:        cfg.Books.Endpoint,
		ApplicationName: cfg.Books.ApplicationName,
		QBXMLVersion:    cfg.Books.QBXMLVersion,
		Timeout:         cfg.Books.Timeout,
	})

	newLoader := func(catalog *docket.Catalog) (sync.ExpenseLoader, error) {
		p, err := ingest.NewProfile(profile)
		if err != nil {
			return nil, err
		}
		return ingest.NewReader(p, catalog), nil
	}

	var prompter sync.Prompter
	if opts.Yes {
		prompter = autoPrompter{out: cmd.OutOrStdout()}
	} else {
		prompter = newConsolePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	var metrics *prometheus.SyncMetrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.NewSyncMetrics()
		metricsCtx, stopMetrics := context.WithCancel(ctx)
		defer stopMetrics()
		go metrics.Serve(metricsCtx, cfg.Metrics.ListenAddr, logger)
	}

	service := sync.NewService(repo, gateway, newLoader, prompter, metrics,
		logger, cfg.Books.ExpenseAccount)

	started := time.Now()
	report, err := service.Run(ctx, spreadsheetPath)
	if err != nil {
		if errors.IsCode(err, errors.CodeSyncDeclined) {
			printReport(cmd, report, started)
			fmt.Fprintln(cmd.OutOrStdout(), "Stopped at your request; nothing further was written.")
			return nil
		}
		return err
	}

	printReport(cmd, report, started)
	fmt.Fprintln(cmd.OutOrStdout(), "Done.")
	return nil
}

// selectFirm resolves which configured firm profile the spreadsheet belongs
// to.  With a single configured firm the flag is optional.
func selectFirm(firms []config.FirmProfile, name string) (config.FirmProfile, error) {
	if name == "" {
		if len(firms) == 1 {
			return firms[0], nil
		}
		return config.FirmProfile{}, fmt.Errorf(
			"--firm is required when %d firms are configured", len(firms))
	}
	for _, f := range firms {
		if f.Name == name {
			return f, nil
		}
	}
	return config.FirmProfile{}, fmt.Errorf("no configured firm named %q", name)
}

func printReport(cmd *cobra.Command, report *sync.Report, started time.Time) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nRun %s (%s)\n", report.RunID, time.Since(started).Round(time.Millisecond))
	fmt.Fprintf(out, "%d expense line items loaded\n", report.Expenses)
	fmt.Fprintf(out, "%-10s %8s %10s %8s %10s %8s %8s %7s %7s\n",
		"KIND", "FETCHED", "CANDIDATE", "MATCHED", "MISMATCH", "UPDATED", "CREATED", "PARSE", "FORMAT")
	for _, s := range report.Summaries {
		fmt.Fprintf(out, "%-10s %8d %10d %8d %10d %8d %8d %7d %7d\n",
			s.Kind, s.Fetched, s.Candidates, s.Matched, s.Mismatched,
			s.Updated, s.Created, s.ParseErrors, s.FormatErrors)
	}
}
