// Package pipeline wires the discovery, deduplication, and repair flows
// over the external collaborators: generative discovery produces candidate
// buildings, the resolver reconciles them against grounding evidence, the
// existence check decides insert-or-skip, and the batch sweeps keep the
// registry free of duplicates and address-only place identifiers.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/skylinehq/skyline/pkg/constants"
	"github.com/skylinehq/skyline/pkg/dedupe"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/merge"
	"github.com/skylinehq/skyline/pkg/registry"
	"github.com/skylinehq/skyline/pkg/resolve"
)

// Repository is the record-store surface the pipeline consumes.
type Repository interface {
	ListAll(ctx context.Context) ([]*registry.Record, error)
	Create(ctx context.Context, fields registry.Raw) (*registry.Record, error)
	Patch(ctx context.Context, id string, fields registry.Raw) (*registry.Record, error)
	Delete(ctx context.Context, id string) error
}

// DiscoveryResult is one generative discovery pass: structured candidates
// plus the grounding evidence returned alongside them.
type DiscoveryResult struct {
	Candidates []resolve.Candidate
	Evidence   []resolve.Evidence
}

// Discoverer produces building candidates for a free-text query.
type Discoverer interface {
	Discover(ctx context.Context, query, originHint string) (*DiscoveryResult, error)
}

// Pipeline runs the discovery, dedupe, and repair flows.
type Pipeline struct {
	repo       Repository
	discoverer Discoverer
	resolver   *resolve.Resolver
	grouper    *dedupe.Grouper
	checker    *dedupe.Checker
	logger     *zerolog.Logger
	delay      time.Duration
	dryRun     bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithDelay overrides the pause between consecutive mutating calls.
func WithDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.delay = d }
}

// WithDryRun makes every flow log intended mutations without issuing them.
func WithDryRun(dryRun bool) Option {
	return func(p *Pipeline) { p.dryRun = dryRun }
}

// WithExceptions sets the never-merge exception list for the dedupe sweep.
func WithExceptions(list *dedupe.ExceptionList) Option {
	return func(p *Pipeline) { p.grouper = dedupe.NewGrouper(list) }
}

// New creates a pipeline over the given collaborators.
func New(repo Repository, discoverer Discoverer, resolver *resolve.Resolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		repo:       repo,
		discoverer: discoverer,
		resolver:   resolver,
		grouper:    dedupe.NewGrouper(dedupe.DefaultExceptions()),
		checker:    dedupe.NewChecker(),
		logger:     logging.Default(),
		delay:      constants.MutationDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DiscoverSummary reports the outcome of one discovery run.
type DiscoverSummary struct {
	Discovered int
	Created    int
	Skipped    int
	Failed     int
	Errors     []error
}

// Discover runs one generative discovery pass for the query, reconciles
// each candidate against its grounding evidence, and inserts the ones the
// registry does not already hold. Hidden records participate in the
// existence check so soft-deleted duplicates are never resurrected.
// Records created earlier in the same run participate too.
func (p *Pipeline) Discover(ctx context.Context, query, originHint string) (DiscoverSummary, error) {
	result, err := p.discoverer.Discover(ctx, query, originHint)
	if err != nil {
		return DiscoverSummary{}, err
	}

	listing, err := p.repo.ListAll(ctx)
	if err != nil {
		return DiscoverSummary{}, err
	}

	summary := DiscoverSummary{Discovered: len(result.Candidates)}

	for _, cand := range result.Candidates {
		recon := p.resolver.ReconcileCandidate(ctx, cand, result.Evidence)
		rec := candidateRecord(cand, recon)

		if err := rec.Validate(); err != nil {
			p.logger.Warn().Err(err).Str("name", cand.Name).Msg("Discarding invalid candidate")
			summary.Failed++
			summary.Errors = append(summary.Errors, err)
			continue
		}

		if match, found := p.checker.Exists(rec, listing); found {
			p.logger.Info().
				Str("name", cand.Name).
				Str("existing_id", match.ID).
				Str("existing_name", match.Name).
				Msg("Candidate already in registry, skipping")
			summary.Skipped++
			continue
		}

		p.logger.Info().
			Str("name", cand.Name).
			Str("state", string(recon.State)).
			Bool("dry_run", p.dryRun).
			Msg("Creating record")

		if p.dryRun {
			summary.Skipped++
			continue
		}

		created, err := p.repo.Create(ctx, rec.Fields())
		if err != nil {
			p.logger.Warn().Err(err).Str("name", cand.Name).Msg("Create failed, continuing batch")
			summary.Failed++
			summary.Errors = append(summary.Errors, err)
			continue
		}
		summary.Created++
		listing = append(listing, created)

		if err := pause(ctx, p.delay); err != nil {
			summary.Errors = append(summary.Errors, err)
			return summary, nil
		}
	}

	return summary, nil
}

// Dedupe runs one full deduplication sweep: list everything, group
// duplicates, resolve each group to a survivor, delete the rest.
func (p *Pipeline) Dedupe(ctx context.Context) (merge.Summary, error) {
	listing, err := p.repo.ListAll(ctx)
	if err != nil {
		return merge.Summary{}, err
	}

	groups := p.grouper.Group(listing)
	p.logger.Info().
		Int("records", len(listing)).
		Int("groups", len(groups)).
		Msg("Deduplication sweep")

	engine := merge.NewEngine(p.repo,
		merge.WithLogger(p.logger),
		merge.WithDelay(p.delay),
		merge.WithDryRun(p.dryRun))
	return engine.Apply(ctx, engine.ResolveAll(groups)), nil
}

// RepairSummary reports the outcome of one repair sweep.
type RepairSummary struct {
	Checked   int
	Replaced  int
	Unmatched int
	Skipped   int
	Failed    int
	Errors    []error
}

// Repair re-examines every live record that carries a place identifier
// and replaces the ones that resolve to a bare address. POI and ambiguous
// identifiers are left alone. Soft-deleted records participate only in
// duplicate and existence checks, so the sweep never touches them.
func (p *Pipeline) Repair(ctx context.Context) (RepairSummary, error) {
	listing, err := p.repo.ListAll(ctx)
	if err != nil {
		return RepairSummary{}, err
	}

	ctx = logging.WithOperation(logging.WithLogger(ctx, p.logger), "repair")

	var summary RepairSummary
	for _, rec := range listing {
		if !rec.Live() || rec.PlaceID == "" {
			continue
		}
		summary.Checked++
		rctx := logging.WithRecord(ctx, rec.ID)

		result, err := p.resolver.RepairPlaceID(rctx, rec)
		if err != nil {
			logging.Ctx(rctx).Warn().Err(err).Msg("Repair failed, continuing batch")
			summary.Failed++
			summary.Errors = append(summary.Errors, err)
			continue
		}

		switch result.Outcome {
		case resolve.RepairReplaced:
			if p.dryRun {
				summary.Replaced++
				continue
			}
			patch := registry.Raw{"placeId": result.PlaceID, "mapUrl": result.MapURL}
			if _, err := p.repo.Patch(rctx, rec.ID, patch); err != nil {
				logging.Ctx(rctx).Warn().Err(err).Msg("Patch failed, continuing batch")
				summary.Failed++
				summary.Errors = append(summary.Errors, err)
				continue
			}
			summary.Replaced++
			if err := pause(ctx, p.delay); err != nil {
				summary.Errors = append(summary.Errors, err)
				return summary, nil
			}
		case resolve.RepairUnmatched:
			summary.Unmatched++
		default:
			summary.Skipped++
		}
	}

	return summary, nil
}

// candidateRecord assembles the record to insert from a discovered
// candidate and its reconciliation outcome.
func candidateRecord(cand resolve.Candidate, recon resolve.Reconciliation) *registry.Record {
	return &registry.Record{
		Name:          cand.Name,
		Location:      cand.Location,
		City:          cand.City,
		Country:       cand.Country,
		Description:   cand.Description,
		Style:         cand.Style,
		Architect:     cand.Architect,
		ImageURL:      cand.ImageURL,
		IsPrioritized: cand.IsPrioritized,
		Coordinates:   recon.Coordinates,
		PlaceID:       recon.PlaceID,
		MapURL:        recon.MapURL,
	}
}

// pause waits for the rate-limit delay or until the context is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
