// Package skyline is the library entry point for the building-registry
// pipeline: generative discovery of new buildings, duplicate detection and
// merging, and place-identifier repair. The skyline CLI is a thin wrapper
// over the same flows; library consumers construct a Skyline and call the
// flow methods directly.
package skyline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skylinehq/skyline/internal/discovery"
	"github.com/skylinehq/skyline/internal/places"
	"github.com/skylinehq/skyline/internal/repository"
	"github.com/skylinehq/skyline/pkg/dedupe"
	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/merge"
	"github.com/skylinehq/skyline/pkg/pipeline"
	"github.com/skylinehq/skyline/pkg/resolve"
)

// Skyline bundles the wired pipeline behind a single façade.
type Skyline struct {
	pipeline   *pipeline.Pipeline
	discoverer pipeline.Discoverer
	resolver   *resolve.Resolver
	logger     *zerolog.Logger
}

// New wires the collaborator clients from options and returns the facade.
// The registry is required; place search and discovery are optional and
// only needed by the flows that use them.
func New(opts ...Option) (*Skyline, error) {
	o := &options{logger: logging.Default()}
	for _, opt := range opts {
		opt(o)
	}

	repo := o.repo
	if repo == nil {
		if o.registryBaseURL == "" || o.registryAPIKey == "" {
			return nil, &errors.ConfigError{Component: "registry", Message: "registry base URL and API key are required"}
		}
		table := o.registryTable
		if table == "" {
			table = "buildings"
		}
		repo = repository.New(o.registryBaseURL, table, o.registryAPIKey, repository.WithLogger(o.logger))
	}

	index := o.placeSearch
	if index == nil && o.placesAPIKey != "" {
		index = places.New(o.placesAPIKey, places.WithLogger(o.logger))
	}

	discoverer := o.discoverer
	if discoverer == nil && o.geminiAPIKey != "" {
		discoverer = discovery.New(o.geminiAPIKey, discovery.WithLogger(o.logger))
	}

	exceptions := o.exceptions
	if exceptions == nil && o.exceptionsFile != "" {
		loaded, err := dedupe.LoadExceptions(o.exceptionsFile)
		if err != nil {
			return nil, err
		}
		exceptions = loaded
	}
	if exceptions == nil {
		exceptions = dedupe.DefaultExceptions()
	}

	var resolver *resolve.Resolver
	if index != nil {
		resolver = resolve.NewResolver(index, resolve.WithLogger(o.logger))
	}

	p := pipeline.New(repo, discoverer, resolver,
		pipeline.WithLogger(o.logger),
		pipeline.WithExceptions(exceptions),
		pipeline.WithDryRun(o.dryRun))

	return &Skyline{
		pipeline:   p,
		discoverer: discoverer,
		resolver:   resolver,
		logger:     o.logger,
	}, nil
}

// Discover runs one generative discovery pass and inserts the buildings
// the registry does not already hold.
func (s *Skyline) Discover(ctx context.Context, query, originHint string) (pipeline.DiscoverSummary, error) {
	if s.discoverer == nil {
		return pipeline.DiscoverSummary{}, &errors.ConfigError{
			Component: "discovery",
			Message:   "no discoverer configured - set a Gemini API key",
		}
	}
	if s.resolver == nil {
		return pipeline.DiscoverSummary{}, &errors.ConfigError{
			Component: "places",
			Message:   "no place index configured - set a places API key",
		}
	}
	return s.pipeline.Discover(ctx, query, originHint)
}

// Dedupe runs one full deduplication sweep.
func (s *Skyline) Dedupe(ctx context.Context) (merge.Summary, error) {
	return s.pipeline.Dedupe(ctx)
}

// Repair re-resolves place identifiers that point at bare addresses.
func (s *Skyline) Repair(ctx context.Context) (pipeline.RepairSummary, error) {
	if s.resolver == nil {
		return pipeline.RepairSummary{}, &errors.ConfigError{
			Component: "places",
			Message:   "no place index configured - set a places API key",
		}
	}
	return s.pipeline.Repair(ctx)
}
