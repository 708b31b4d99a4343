package reconcile

import (
	"context"
	stderrors "errors"

	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	"github.com/turtacn/IPBooks-Bridge/pkg/errors"
)

// identifierKeys are the server-issued fields an update payload must echo
// back, prepended in this order so the last one ends up first on the wire.
var identifierKeys = []string{"ListID", "TxnID", "EditSequence"}

// Hooks let the caller confirm writes and observe recoverable problems.
// Nil hooks default to confirming everything and ignoring reports.
//
// ConfirmUpdate runs before the update payload is computed, so a declined
// update performs no work and reports nothing; it receives the docket-side
// candidate and the decoded accounting record it mismatched against.
type Hooks struct {
	ConfirmUpdate func(kind string, candidate any, old *quickbooks.Record) bool
	ConfirmCreate func(kind string, pending int) bool
	OnParseError  func(kind string, err error)
	OnFormatError func(kind string, err error)
}

// Summary counts what one synchronization job did.
type Summary struct {
	Kind         string
	Fetched      int
	Candidates   int
	Matched      int
	Mismatched   int
	Updated      int
	Created      int
	ParseErrors  int
	FormatErrors int
}

// Synchronize reconciles the docket-side candidates against the accounting
// list the adapter serves.  It fetches and decodes the current list,
// classifies every candidate as matched, mismatched, or new, pushes
// confirmed updates for the mismatches, and creates the new entries.
//
// Recoverable problems (undecodable records, unformattable values) are
// reported through hooks and counted; transport failures and a declined
// create confirmation abort the job.
func Synchronize[C, R any](
	ctx context.Context,
	gw quickbooks.Gateway,
	adapter Adapter[C, R],
	candidates []C,
	filter *quickbooks.Record,
	hooks Hooks,
) (*Summary, error) {
	kind := adapter.Kind()
	summary := &Summary{Kind: kind, Candidates: len(candidates)}
	reportFormat := func(err error) {
		summary.FormatErrors++
		if hooks.OnFormatError != nil {
			hooks.OnFormatError(kind, err)
		}
	}

	raws, err := gw.Query(ctx, kind, filter)
	if err != nil {
		return summary, err
	}
	summary.Fetched = len(raws)

	fetched := make([]Item[R], 0, len(raws))
	for _, raw := range raws {
		value, err := adapter.Parse(raw)
		if err != nil {
			if stderrors.Is(err, ErrSkip) {
				continue
			}
			var parseErr *ParseError
			if stderrors.As(err, &parseErr) {
				summary.ParseErrors++
				if hooks.OnParseError != nil {
					hooks.OnParseError(kind, parseErr)
				}
				continue
			}
			return summary, err
		}
		fetched = append(fetched, Item[R]{Value: value, Raw: raw})
	}
	olds := adapter.Expand(fetched)

	var fresh []C
	for _, candidate := range candidates {
		old, outcome, err := classify(adapter, candidate, olds)
		if err != nil {
			return summary, err
		}
		switch outcome {
		case outcomeMatched:
			summary.Matched++
		case outcomeMismatched:
			summary.Mismatched++
			if err := update(ctx, gw, adapter, candidate, old, summary, hooks, reportFormat); err != nil {
				return summary, err
			}
		default:
			fresh = append(fresh, candidate)
		}
	}

	return summary, create(ctx, gw, adapter, fresh, summary, hooks, reportFormat)
}

type outcome int

const (
	outcomeNew outcome = iota
	outcomeMatched
	outcomeMismatched
)

// classify scans the decoded records in fetch order and stops at the first
// one Equal recognizes, matched or mismatched.
func classify[C, R any](adapter Adapter[C, R], candidate C, olds []Item[C]) (Item[C], outcome, error) {
	for _, old := range olds {
		same, err := adapter.Equal(candidate, old.Value)
		if err != nil {
			if stderrors.Is(err, ErrMismatch) {
				return old, outcomeMismatched, nil
			}
			return old, outcomeNew, err
		}
		if same {
			return old, outcomeMatched, nil
		}
	}
	return Item[C]{}, outcomeNew, nil
}

func update[C, R any](
	ctx context.Context,
	gw quickbooks.Gateway,
	adapter Adapter[C, R],
	candidate C,
	old Item[C],
	summary *Summary,
	hooks Hooks,
	reportFormat func(error),
) error {
	updater, ok := any(adapter).(Updater[C])
	if !ok {
		return nil
	}

	if hooks.ConfirmUpdate != nil && !hooks.ConfirmUpdate(adapter.Kind(), candidate, old.Raw) {
		return nil
	}
	payload, err := updater.Update(candidate, reportFormat)
	if err != nil {
		reportFormat(err)
		return nil
	}
	for _, key := range identifierKeys {
		if v := old.Raw.Text(key); v != "" {
			payload.Prepend(key, v)
		}
	}
	if _, err := gw.Modify(ctx, adapter.Kind(), payload); err != nil {
		return err
	}
	summary.Updated++
	return nil
}

func create[C, R any](
	ctx context.Context,
	gw quickbooks.Gateway,
	adapter Adapter[C, R],
	fresh []C,
	summary *Summary,
	hooks Hooks,
	reportFormat func(error),
) error {
	values := adapter.Collapse(fresh)
	if len(values) == 0 {
		return nil
	}
	if hooks.ConfirmCreate != nil && !hooks.ConfirmCreate(adapter.Kind(), len(values)) {
		return errors.Newf(errors.CodeSyncDeclined,
			"creation of %d %s entries declined", len(values), adapter.Kind())
	}
	for _, value := range values {
		payload, err := adapter.Format(value, reportFormat)
		if err != nil {
			reportFormat(err)
			continue
		}
		if _, err := gw.Create(ctx, adapter.Kind(), payload); err != nil {
			return err
		}
		summary.Created++
	}
	return nil
}
