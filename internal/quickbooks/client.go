package quickbooks

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/IPBooks-Bridge/pkg/errors"
)

// Gateway is the accounting-side transport used by the synchronization
// jobs: list a kind, create a new entity, or modify an existing one.
type Gateway interface {
	Query(ctx context.Context, kind string, filter *Record) ([]*Record, error)
	Create(ctx context.Context, kind string, payload *Record) (*Record, error)
	Modify(ctx context.Context, kind string, payload *Record) (*Record, error)
}

// ClientConfig carries the connection settings for the QBXML endpoint.
type ClientConfig struct {
	Endpoint        string
	ApplicationName string
	QBXMLVersion    string
	Timeout         time.Duration
}

// Client speaks QBXML over HTTP to a request-processor bridge.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient returns a gateway bound to the configured endpoint.
func NewClient(cfg ClientConfig) *Client {
	if cfg.QBXMLVersion == "" {
		cfg.QBXMLVersion = "8.0"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// Query lists all entities of the given kind.  A nil filter requests the
// full set; an empty result is returned as an empty slice.
func (c *Client) Query(ctx context.Context, kind string, filter *Record) ([]*Record, error) {
	if filter == nil {
		filter = NewRecord()
	}
	return c.roundTrip(ctx, kind+"QueryRq", filter)
}

// Create adds a new entity of the given kind and returns the created
// entity as the server reported it.
func (c *Client) Create(ctx context.Context, kind string, payload *Record) (*Record, error) {
	body := NewRecord().SetChild(kind+"Add", payload)
	records, err := c.roundTrip(ctx, kind+"AddRq", body)
	if err != nil {
		return nil, err
	}
	return firstRecord(records), nil
}

// Modify updates an existing entity of the given kind.  The payload must
// carry the identifiers the server issued for it.
func (c *Client) Modify(ctx context.Context, kind string, payload *Record) (*Record, error) {
	body := NewRecord().SetChild(kind+"Mod", payload)
	records, err := c.roundTrip(ctx, kind+"ModRq", body)
	if err != nil {
		return nil, err
	}
	return firstRecord(records), nil
}

func (c *Client) roundTrip(ctx context.Context, op string, body *Record) ([]*Record, error) {
	payload := MarshalRequest(op, body, c.cfg.QBXMLVersion, "stopOnError")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeBooksRequest, "build request").WithDetail(op)
	}
	req.Header.Set("Content-Type", "application/xml")
	if c.cfg.ApplicationName != "" {
		req.Header.Set("X-Application-Name", c.cfg.ApplicationName)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeBooksConnection, "send request").WithDetail(op)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeBooksResponse, "read response").WithDetail(op)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.CodeBooksResponse, "unexpected HTTP status %d", resp.StatusCode).WithDetail(op)
	}

	records, err := UnmarshalResponse(data)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr.WithDetail(op)
		}
		return nil, err
	}
	return records, nil
}

func firstRecord(records []*Record) *Record {
	if len(records) == 0 {
		return nil
	}
	return records[0]
}
