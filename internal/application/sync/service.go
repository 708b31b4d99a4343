// Package sync orchestrates a reconciliation batch: load the docket
// reference tables, ingest the invoice spreadsheet, then run the five
// synchronization jobs against the accounting system in dependency order.
package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/turtacn/IPBooks-Bridge/internal/adapters"
	"github.com/turtacn/IPBooks-Bridge/internal/domain/docket"
	"github.com/turtacn/IPBooks-Bridge/internal/domain/invoice"
	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	"github.com/turtacn/IPBooks-Bridge/internal/reconcile"
)

// Prompter answers the engine's confirmation questions.  ConfirmUpdate is
// asked per mismatched pair before any update payload is built.
type Prompter interface {
	ConfirmUpdate(kind string, candidate any, old *quickbooks.Record) bool
	ConfirmCreate(kind string, pending int) bool
}

// ExpenseLoader loads the expense line items of one spreadsheet.
type ExpenseLoader interface {
	LoadExpenses(path string) ([]*invoice.Expense, error)
}

// LoaderFactory builds the spreadsheet loader once the docket catalog is
// available, since expenses resolve their law firm against it.
type LoaderFactory func(catalog *docket.Catalog) (ExpenseLoader, error)

// Report is the outcome of one batch.
type Report struct {
	RunID     string
	Expenses  int
	Summaries []*reconcile.Summary
}

// Service runs reconciliation batches.
type Service struct {
	repo           docket.Repository
	gateway        quickbooks.Gateway
	newLoader      LoaderFactory
	prompter       Prompter
	metrics        *prometheus.SyncMetrics
	logger         logging.Logger
	expenseAccount string
}

// NewService wires a batch service.  metrics may be nil.
func NewService(
	repo docket.Repository,
	gateway quickbooks.Gateway,
	newLoader LoaderFactory,
	prompter Prompter,
	metrics *prometheus.SyncMetrics,
	logger logging.Logger,
	expenseAccount string,
) *Service {
	return &Service{
		repo:           repo,
		gateway:        gateway,
		newLoader:      newLoader,
		prompter:       prompter,
		metrics:        metrics,
		logger:         logger,
		expenseAccount: expenseAccount,
	}
}

// Run executes one batch over the spreadsheet at path.  Jobs run in
// dependency order (vendors and customers before jobs, accounts before
// bills) and the first failing job aborts the batch.  The report carries
// whatever completed before the failure.
func (s *Service) Run(ctx context.Context, path string) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := s.logger.With(logging.String("run_id", report.RunID))

	log.Info("loading docket reference tables")
	technologies, err := s.repo.LoadTechnologies(ctx)
	if err != nil {
		return report, err
	}
	patents, err := s.repo.LoadPatents(ctx)
	if err != nil {
		return report, err
	}
	patentTypes, err := s.repo.LoadPatentTypes(ctx)
	if err != nil {
		return report, err
	}
	lawFirms, err := s.repo.LoadLawFirms(ctx)
	if err != nil {
		return report, err
	}
	countries, err := s.repo.LoadCountries(ctx)
	if err != nil {
		return report, err
	}
	catalog := docket.NewCatalog(technologies, patents, patentTypes, lawFirms, countries)
	log.Info("docket reference tables loaded",
		logging.Int("technologies", len(technologies)),
		logging.Int("patents", len(patents)),
		logging.Int("patent_types", len(patentTypes)),
		logging.Int("law_firms", len(lawFirms)),
		logging.Int("countries", len(countries)),
	)

	loader, err := s.newLoader(catalog)
	if err != nil {
		return report, err
	}
	expenses, err := loader.LoadExpenses(path)
	if err != nil {
		return report, err
	}
	report.Expenses = len(expenses)
	log.Info("spreadsheet loaded",
		logging.String("path", path),
		logging.Int("expenses", len(expenses)),
	)

	hooks := s.hooks(log)

	if err := runJob(ctx, s, report, log, "vendors from law firms",
		adapters.NewVendor(), lawFirms, nil, hooks); err != nil {
		return report, err
	}
	if err := runJob(ctx, s, report, log, "customers from technologies",
		adapters.NewCustomer(), technologies, nil, hooks); err != nil {
		return report, err
	}
	if err := runJob(ctx, s, report, log, "jobs from patents",
		adapters.NewJob(catalog), patents, nil, hooks); err != nil {
		return report, err
	}
	if err := runJob(ctx, s, report, log, "expense account",
		adapters.NewAccount(), []string{s.expenseAccount}, nil, hooks); err != nil {
		return report, err
	}
	billFilter := quickbooks.NewRecord().Set("IncludeLineItems", "1")
	if err := runJob(ctx, s, report, log, "bills from spreadsheet expenses",
		adapters.NewBill(catalog, s.expenseAccount), expenses, billFilter, hooks); err != nil {
		return report, err
	}

	log.Info("batch complete", logging.Int("jobs", len(report.Summaries)))
	return report, nil
}

func (s *Service) hooks(log logging.Logger) reconcile.Hooks {
	return reconcile.Hooks{
		ConfirmUpdate: s.prompter.ConfirmUpdate,
		ConfirmCreate: s.prompter.ConfirmCreate,
		OnParseError: func(kind string, err error) {
			log.Warn("undecodable record",
				logging.String("kind", kind), logging.Err(err))
		},
		OnFormatError: func(kind string, err error) {
			log.Warn("unrenderable record",
				logging.String("kind", kind), logging.Err(err))
		},
	}
}

func runJob[C, R any](
	ctx context.Context,
	s *Service,
	report *Report,
	log logging.Logger,
	name string,
	adapter reconcile.Adapter[C, R],
	candidates []C,
	filter *quickbooks.Record,
	hooks reconcile.Hooks,
) error {
	log.Info("synchronizing " + name)
	summary, err := reconcile.Synchronize(ctx, s.gateway, adapter, candidates, filter, hooks)
	if summary != nil {
		report.Summaries = append(report.Summaries, summary)
		if s.metrics != nil {
			s.metrics.Observe(summary)
		}
		log.Info("job finished",
			logging.String("kind", summary.Kind),
			logging.Int("fetched", summary.Fetched),
			logging.Int("candidates", summary.Candidates),
			logging.Int("matched", summary.Matched),
			logging.Int("mismatched", summary.Mismatched),
			logging.Int("updated", summary.Updated),
			logging.Int("created", summary.Created),
			logging.Int("parse_errors", summary.ParseErrors),
			logging.Int("format_errors", summary.FormatErrors),
		)
	}
	return err
}
