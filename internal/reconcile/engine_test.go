package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
	apperrors "github.com/turtacn/IPBooks-Bridge/pkg/errors"
)

type fakeGateway struct {
	queried   []*quickbooks.Record
	queryErr  error
	modifyErr error
	created   []*quickbooks.Record
	modified  []*quickbooks.Record
}

func (g *fakeGateway) Query(ctx context.Context, kind string, filter *quickbooks.Record) ([]*quickbooks.Record, error) {
	return g.queried, g.queryErr
}

func (g *fakeGateway) Create(ctx context.Context, kind string, payload *quickbooks.Record) (*quickbooks.Record, error) {
	g.created = append(g.created, payload)
	return payload, nil
}

func (g *fakeGateway) Modify(ctx context.Context, kind string, payload *quickbooks.Record) (*quickbooks.Record, error) {
	if g.modifyErr != nil {
		return nil, g.modifyErr
	}
	g.modified = append(g.modified, payload)
	return payload, nil
}

// nameAdapter reconciles plain strings held in the Name field.  Names that
// differ only by case are treated as the same entity needing an update.
type nameAdapter struct {
	Ungrouped[string]
	updatable bool
}

func (a *nameAdapter) Kind() string { return "Vendor" }

func (a *nameAdapter) Parse(rec *quickbooks.Record) (string, error) {
	name := rec.Text("Name")
	switch {
	case strings.HasPrefix(name, "skip"):
		return "", ErrSkip
	case strings.HasPrefix(name, "garbled"):
		return "", Parsef("cannot decode name %q", name)
	case strings.HasPrefix(name, "fatal"):
		return "", fmt.Errorf("broken record %q", name)
	}
	return name, nil
}

func (a *nameAdapter) Format(value string, report func(error)) (*quickbooks.Record, error) {
	if strings.HasPrefix(value, "unformattable") {
		return nil, fmt.Errorf("no rendering for %q", value)
	}
	return quickbooks.NewRecord().Set("Name", value), nil
}

func (a *nameAdapter) Equal(candidate, old string) (bool, error) {
	if candidate == old {
		return true, nil
	}
	if strings.EqualFold(candidate, old) {
		return false, ErrMismatch
	}
	return false, nil
}

// updatableAdapter adds the modification path on top of nameAdapter.
type updatableAdapter struct {
	nameAdapter
	updateCalls int
}

func (a *updatableAdapter) Update(candidate string, report func(error)) (*quickbooks.Record, error) {
	a.updateCalls++
	return a.Format(candidate, report)
}

func oldRecord(name string) *quickbooks.Record {
	return quickbooks.NewRecord().
		Set("ListID", "80-"+name).
		Set("EditSequence", "7").
		Set("Name", name)
}

func TestSynchronizeClassifiesAndCreates(t *testing.T) {
	gw := &fakeGateway{queried: []*quickbooks.Record{
		oldRecord("ACME"),
		oldRecord("birch llp"),
	}}

	summary, err := Synchronize(context.Background(), gw, &updatableAdapter{},
		[]string{"ACME", "Birch LLP", "Cedar Partners"}, nil, Hooks{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 3, summary.Candidates)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Mismatched)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Created)

	require.Len(t, gw.created, 1)
	assert.Equal(t, "Cedar Partners", gw.created[0].Text("Name"))
}

func TestSynchronizeMergesIdentifiersIntoUpdate(t *testing.T) {
	old := quickbooks.NewRecord().
		Set("TxnID", "5-17").
		Set("EditSequence", "42").
		Set("Name", "birch llp")
	gw := &fakeGateway{queried: []*quickbooks.Record{old}}

	_, err := Synchronize(context.Background(), gw, &updatableAdapter{},
		[]string{"Birch LLP"}, nil, Hooks{})
	require.NoError(t, err)

	require.Len(t, gw.modified, 1)
	payload := gw.modified[0]
	// Identifiers lead the payload, most recently prepended first; the
	// absent ListID is not invented.
	assert.Equal(t, []string{"EditSequence", "TxnID", "Name"}, payload.Keys())
	assert.Equal(t, "42", payload.Text("EditSequence"))
	assert.Equal(t, "5-17", payload.Text("TxnID"))
}

func TestSynchronizeWithoutUpdaterOnlyCounts(t *testing.T) {
	gw := &fakeGateway{queried: []*quickbooks.Record{oldRecord("birch llp")}}

	summary, err := Synchronize(context.Background(), gw, &nameAdapter{},
		[]string{"Birch LLP"}, nil, Hooks{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Mismatched)
	assert.Equal(t, 0, summary.Updated)
	assert.Empty(t, gw.modified)
}

func TestSynchronizeParseHandling(t *testing.T) {
	gw := &fakeGateway{queried: []*quickbooks.Record{
		oldRecord("skip: child account"),
		oldRecord("garbled name"),
		oldRecord("ACME"),
	}}

	var reported []error
	hooks := Hooks{OnParseError: func(kind string, err error) {
		assert.Equal(t, "Vendor", kind)
		reported = append(reported, err)
	}}

	summary, err := Synchronize(context.Background(), gw, &updatableAdapter{},
		[]string{"ACME"}, nil, hooks)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ParseErrors)
	assert.Equal(t, 1, summary.Matched)
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "garbled")
}

func TestSynchronizeFatalParseAborts(t *testing.T) {
	gw := &fakeGateway{queried: []*quickbooks.Record{oldRecord("fatal")}}

	_, err := Synchronize(context.Background(), gw, &updatableAdapter{},
		nil, nil, Hooks{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken record")
}

func TestSynchronizeDeclinedUpdateSkips(t *testing.T) {
	gw := &fakeGateway{queried: []*quickbooks.Record{oldRecord("birch llp")}}

	var asked []string
	hooks := Hooks{ConfirmUpdate: func(kind string, candidate any, old *quickbooks.Record) bool {
		asked = append(asked, kind)
		assert.Equal(t, "Birch LLP", candidate)
		assert.Equal(t, "birch llp", old.Text("Name"))
		return false
	}}
	adapter := &updatableAdapter{}
	summary, err := Synchronize(context.Background(), gw, adapter,
		[]string{"Birch LLP"}, nil, hooks)
	require.NoError(t, err)

	assert.Equal(t, []string{"Vendor"}, asked)
	assert.Equal(t, 1, summary.Mismatched)
	assert.Equal(t, 0, summary.Updated)
	assert.Empty(t, gw.modified)
	// Declining happens before the payload is computed, so nothing is
	// formatted and nothing is reported.
	assert.Equal(t, 0, adapter.updateCalls)
	assert.Equal(t, 0, summary.FormatErrors)
}

func TestSynchronizeDeclinedCreateAborts(t *testing.T) {
	gw := &fakeGateway{}

	hooks := Hooks{ConfirmCreate: func(kind string, pending int) bool {
		assert.Equal(t, 2, pending)
		return false
	}}
	_, err := Synchronize(context.Background(), gw, &updatableAdapter{},
		[]string{"ACME", "Birch LLP"}, nil, hooks)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSyncDeclined))
	assert.Empty(t, gw.created)
}

func TestSynchronizeFormatErrorSkipsValue(t *testing.T) {
	gw := &fakeGateway{}

	var reported []error
	hooks := Hooks{OnFormatError: func(kind string, err error) {
		reported = append(reported, err)
	}}
	summary, err := Synchronize(context.Background(), gw, &updatableAdapter{},
		[]string{"unformattable thing", "ACME"}, nil, hooks)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FormatErrors)
	assert.Equal(t, 1, summary.Created)
	require.Len(t, reported, 1)
}

func TestSynchronizeIdempotent(t *testing.T) {
	gw := &fakeGateway{queried: []*quickbooks.Record{
		oldRecord("ACME"),
		oldRecord("Birch LLP"),
	}}

	summary, err := Synchronize(context.Background(), gw, &updatableAdapter{},
		[]string{"ACME", "Birch LLP"}, nil, Hooks{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Matched)
	assert.Zero(t, summary.Mismatched)
	assert.Zero(t, summary.Created)
	assert.Empty(t, gw.created)
	assert.Empty(t, gw.modified)
}

func TestSynchronizeQueryErrorAborts(t *testing.T) {
	gw := &fakeGateway{queryErr: apperrors.New(apperrors.CodeBooksConnection, "down")}

	_, err := Synchronize(context.Background(), gw, &updatableAdapter{},
		[]string{"ACME"}, nil, Hooks{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBooksConnection))
}
