// Package repository implements the record-store collaborator client: a
// paginated REST store of building records keyed by an opaque row
// identifier. Raw rows are mapped through the registry adapter so the rest
// of the system only sees typed records.
package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/skylinehq/skyline/internal/transport"
	"github.com/skylinehq/skyline/pkg/constants"
	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/registry"
)

// Client is the record-store REST client.
type Client struct {
	http    *transport.Client
	baseURL string
	table   string
	logger  *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTransport overrides the underlying transport client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) { c.http = t }
}

// New creates a record-store client for one table.
func New(baseURL, table, apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    transport.New("registry", apiKey, &transport.BearerAuth{}),
		baseURL: baseURL,
		table:   table,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rawRecord is the wire shape of one stored row.
type rawRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// listResponse is one page of rows. A non-empty offset means more pages.
type listResponse struct {
	Records []rawRecord `json:"records"`
	Offset  string      `json:"offset"`
}

// ListAll pages through the table until exhaustion and returns every
// record, hidden ones included.
func (c *Client) ListAll(ctx context.Context) ([]*registry.Record, error) {
	var records []*registry.Record
	offset := ""

	for {
		endpoint := c.tableURL()
		query := url.Values{"pageSize": {strconv.Itoa(constants.DefaultPageSize)}}
		if offset != "" {
			query.Set("offset", offset)
		}
		endpoint += "?" + query.Encode()

		var page listResponse
		if err := c.http.DoJSON(ctx, "GET", endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, raw := range page.Records {
			records = append(records, toRecord(raw))
		}

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	c.logger.Debug().Int("count", len(records)).Str("table", c.table).Msg("Listed records")
	return records, nil
}

// Get fetches one record by identifier.
func (c *Client) Get(ctx context.Context, id string) (*registry.Record, error) {
	var raw rawRecord
	if err := c.http.DoJSON(ctx, "GET", c.recordURL(id), nil, &raw); err != nil {
		return nil, mapNotFound(err, id)
	}
	return toRecord(raw), nil
}

// Create inserts a new record and returns it with its assigned identifier.
func (c *Client) Create(ctx context.Context, fields registry.Raw) (*registry.Record, error) {
	var raw rawRecord
	body := map[string]any{"fields": map[string]any(fields)}
	if err := c.http.DoJSON(ctx, "POST", c.tableURL(), body, &raw); err != nil {
		return nil, err
	}
	return toRecord(raw), nil
}

// Patch partially updates a record. Only the given fields change; this is
// a read-modify-write surface, not an atomic one.
func (c *Client) Patch(ctx context.Context, id string, fields registry.Raw) (*registry.Record, error) {
	var raw rawRecord
	body := map[string]any{"fields": map[string]any(fields)}
	if err := c.http.DoJSON(ctx, "PATCH", c.recordURL(id), body, &raw); err != nil {
		return nil, mapNotFound(err, id)
	}
	return toRecord(raw), nil
}

// Delete removes a record permanently.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.http.DoJSON(ctx, "DELETE", c.recordURL(id), nil, nil); err != nil {
		return mapNotFound(err, id)
	}
	return nil
}

func (c *Client) tableURL() string {
	return fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(c.table))
}

func (c *Client) recordURL(id string) string {
	return fmt.Sprintf("%s/%s", c.tableURL(), url.PathEscape(id))
}

// toRecord flattens a stored row into the adapter's raw shape.
func toRecord(raw rawRecord) *registry.Record {
	flat := make(registry.Raw, len(raw.Fields)+1)
	for k, v := range raw.Fields {
		flat[k] = v
	}
	flat["id"] = raw.ID
	rec := registry.FromRaw(flat)
	return &rec
}

// mapNotFound turns a 404 into a typed not-found error.
func mapNotFound(err error, id string) error {
	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) && apiErr.StatusCode == 404 {
		return errors.NewNotFoundError("record", id)
	}
	return err
}
