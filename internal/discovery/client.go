// Package discovery implements the generative-discovery collaborator: a
// Gemini text-generation pass with Google Search grounding that proposes
// building candidates for a free-text query, together with the grounding
// evidence chunks the answer was based on.
package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/skylinehq/skyline/pkg/constants"
	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/pipeline"
	"github.com/skylinehq/skyline/pkg/resolve"
)

const defaultModel = "gemini-2.0-flash"

// Client is the Gemini-backed discovery client. It implements
// pipeline.Discoverer.
type Client struct {
	apiKey string
	model  string
	logger *zerolog.Logger

	// GenAI client - created lazily and reused across calls
	genaiClient *genai.Client
	mu          sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the generation model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithLogger sets the client's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a discovery client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		model:  defaultModel,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// client returns the cached GenAI client, creating it on first use.
func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.genaiClient != nil {
		return c.genaiClient, nil
	}
	if c.apiKey == "" {
		return nil, &errors.ConfigError{
			Component: "discovery",
			Message:   "API key required - set GEMINI_API_KEY",
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return nil, err
	}
	c.genaiClient = client
	return client, nil
}

// Discover runs one grounded generation pass and returns the structured
// candidates with their grounding evidence.
func (c *Client) Discover(ctx context.Context, query, originHint string) (*pipeline.DiscoveryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DiscoveryTimeout)
	defer cancel()

	client, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(buildPrompt(query, originHint)), config)
	if err != nil {
		return nil, &errors.APIError{
			Provider: "gemini",
			Endpoint: c.model,
			Message:  "generation failed",
			Err:      err,
		}
	}

	candidates, err := parseCandidates(resp.Text())
	if err != nil {
		return nil, err
	}
	evidence := extractEvidence(resp)

	c.logger.Info().
		Str("query", query).
		Int("candidates", len(candidates)).
		Int("evidence", len(evidence)).
		Msg("Discovery pass complete")

	return &pipeline.DiscoveryResult{Candidates: candidates, Evidence: evidence}, nil
}

// buildPrompt asks for a strict JSON answer so the response parser has a
// fighting chance.
func buildPrompt(query, originHint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find notable buildings matching: %s.\n", query)
	if originHint != "" {
		fmt.Fprintf(&b, "Prefer results near %s.\n", originHint)
	}
	b.WriteString(`Respond with JSON only, no prose, in this shape:
{"candidates": [{"name": "", "location": "", "city": "", "country": "", "description": "", "style": "", "architect": "", "lat": 0.0, "lng": 0.0, "isPrioritized": false}]}
Use precise decimal coordinates for each building.`)
	return b.String()
}

// extractEvidence maps the response's grounding chunks to evidence. Web
// chunks expose only a title and URI; coordinates stay zero and place
// identifiers are parsed from the URI downstream.
func extractEvidence(resp *genai.GenerateContentResponse) []resolve.Evidence {
	if resp == nil {
		return nil
	}

	var evidence []resolve.Evidence
	for _, cand := range resp.Candidates {
		if cand == nil || cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			evidence = append(evidence, resolve.Evidence{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return evidence
}
