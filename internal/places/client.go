// Package places implements the place-search collaborator client in the
// Google Places REST shape: find-place-from-text and place details.
package places

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skylinehq/skyline/internal/transport"
	"github.com/skylinehq/skyline/pkg/constants"
	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/resolve"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// defaultDetailFields is requested when the caller does not name fields.
var defaultDetailFields = []string{"place_id", "name", "types", "formatted_address", "url", "photos"}

// Client is the place-search REST client. It implements resolve.PlaceSearch.
type Client struct {
	http    *transport.Client
	baseURL string
	apiKey  string
	logger  *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithLogger sets the client's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTransport overrides the underlying transport client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) { c.http = t }
}

// New creates a place-search client. The API key rides as a query
// parameter on every request.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    transport.New("places", apiKey, &transport.QueryAuth{Param: "key"}),
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wireCandidate struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Types            []string `json:"types"`
	FormattedAddress string   `json:"formatted_address"`
}

type findResponse struct {
	Candidates   []wireCandidate `json:"candidates"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
}

type wireDetails struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Types            []string `json:"types"`
	FormattedAddress string   `json:"formatted_address"`
	URL              string   `json:"url"`
	Photos           []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

type detailsResponse struct {
	Result       wireDetails `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
}

// FindByText runs a find-place-from-text query and returns the ranked
// candidates. Zero results is not an error.
func (c *Client) FindByText(ctx context.Context, query, inputType string) ([]resolve.PlaceCandidate, error) {
	if inputType == "" {
		inputType = "textquery"
	}
	params := url.Values{
		"input":     {query},
		"inputtype": {inputType},
		"fields":    {"place_id,name,types,formatted_address"},
	}
	endpoint := fmt.Sprintf("%s/findplacefromtext/json?%s", c.baseURL, params.Encode())

	var resp findResponse
	if err := c.http.DoJSON(ctx, "GET", endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if err := c.statusError(resp.Status, resp.ErrorMessage, query); err != nil {
		return nil, err
	}

	candidates := make([]resolve.PlaceCandidate, 0, len(resp.Candidates))
	for _, w := range resp.Candidates {
		candidates = append(candidates, resolve.PlaceCandidate{
			PlaceID:          w.PlaceID,
			Name:             w.Name,
			Types:            w.Types,
			FormattedAddress: w.FormattedAddress,
		})
	}
	c.logger.Debug().Str("query", query).Int("candidates", len(candidates)).Msg("Place text search")
	return candidates, nil
}

// Details fetches the detail view of one place. An empty fields list
// requests the default field set.
func (c *Client) Details(ctx context.Context, placeID string, fields []string) (*resolve.PlaceDetails, error) {
	if len(fields) == 0 {
		fields = defaultDetailFields
	}
	params := url.Values{
		"place_id": {placeID},
		"fields":   {strings.Join(fields, ",")},
	}
	endpoint := fmt.Sprintf("%s/details/json?%s", c.baseURL, params.Encode())

	var resp detailsResponse
	if err := c.http.DoJSON(ctx, "GET", endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if err := c.statusError(resp.Status, resp.ErrorMessage, placeID); err != nil {
		return nil, err
	}

	details := &resolve.PlaceDetails{
		PlaceID:          resp.Result.PlaceID,
		Name:             resp.Result.Name,
		Types:            resp.Result.Types,
		FormattedAddress: resp.Result.FormattedAddress,
		CanonicalURL:     resp.Result.URL,
	}
	for _, photo := range resp.Result.Photos {
		if len(details.PhotoURLs) >= constants.MaxImages {
			break
		}
		if photo.PhotoReference != "" {
			details.PhotoURLs = append(details.PhotoURLs, c.photoURL(photo.PhotoReference))
		}
	}
	return details, nil
}

// photoURL builds a fetchable photo link from a photo reference.
func (c *Client) photoURL(reference string) string {
	params := url.Values{
		"maxwidth":       {"1600"},
		"photoreference": {reference},
		"key":            {c.apiKey},
	}
	return fmt.Sprintf("%s/photo?%s", c.baseURL, params.Encode())
}

// statusError maps the API's in-body status field to typed errors.
// ZERO_RESULTS is a successful empty answer.
func (c *Client) statusError(status, message, subject string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	case "NOT_FOUND", "INVALID_REQUEST":
		return errors.NewNotFoundError("place", subject)
	case "OVER_QUERY_LIMIT":
		return errors.NewAPIError("places", 429, statusMessage(status, message))
	default:
		return errors.NewAPIError("places", 0, statusMessage(status, message))
	}
}

func statusMessage(status, message string) string {
	if message == "" {
		return status
	}
	return status + ": " + message
}
