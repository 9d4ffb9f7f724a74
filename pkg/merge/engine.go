// Package merge resolves duplicate groups to a single surviving record and
// applies the resulting deletions against the record store. Resolution is
// deterministic; application tolerates partial failure and is idempotent
// across re-runs.
package merge

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/skylinehq/skyline/pkg/constants"
	"github.com/skylinehq/skyline/pkg/dedupe"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/registry"
)

// Deleter is the slice of the repository the engine needs.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Decision is the resolution of one duplicate group: the survivor and the
// records to delete.
type Decision struct {
	Keep   *registry.Record
	Delete []*registry.Record
}

// Summary reports the outcome of applying a batch of decisions. Failures
// are counted and carried, never silently dropped and never fatal to the
// remaining deletions.
type Summary struct {
	Groups  int
	Deleted int
	Failed  int
	Errors  []error
}

// Engine resolves and applies duplicate-group decisions.
type Engine struct {
	repo   Deleter
	logger *zerolog.Logger
	delay  time.Duration
	dryRun bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDelay overrides the pause between consecutive delete calls.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) { e.delay = d }
}

// WithDryRun makes Apply log intended deletions without issuing them.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) { e.dryRun = dryRun }
}

// NewEngine creates a merge engine backed by the given repository.
func NewEngine(repo Deleter, opts ...Option) *Engine {
	e := &Engine{
		repo:   repo,
		logger: logging.Default(),
		delay:  constants.MutationDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve picks the group member with the highest completeness score as the
// survivor and marks the rest for deletion. Ties break by input order:
// first seen wins.
func (e *Engine) Resolve(group dedupe.Group) Decision {
	ranked := make([]*registry.Record, len(group))
	copy(ranked, group)

	sort.SliceStable(ranked, func(i, j int) bool {
		return registry.Score(ranked[i]) > registry.Score(ranked[j])
	})

	return Decision{Keep: ranked[0], Delete: ranked[1:]}
}

// ResolveAll resolves every group, preserving group order.
func (e *Engine) ResolveAll(groups []dedupe.Group) []Decision {
	decisions := make([]Decision, 0, len(groups))
	for _, group := range groups {
		decisions = append(decisions, e.Resolve(group))
	}
	return decisions
}

// Apply issues the deletions for each decision. Deletions are independent
// and order-insensitive; a failed deletion is logged and counted, and the
// batch continues. Re-running after a partial failure is a no-op for the
// records already deleted: they simply no longer appear in the next group
// pass.
func (e *Engine) Apply(ctx context.Context, decisions []Decision) Summary {
	summary := Summary{Groups: len(decisions)}

	for _, decision := range decisions {
		for _, doomed := range decision.Delete {
			e.logger.Info().
				Str("keep_id", decision.Keep.ID).
				Str("delete_id", doomed.ID).
				Str("name", doomed.Name).
				Bool("dry_run", e.dryRun).
				Msg("Resolving duplicate")

			if e.dryRun {
				continue
			}

			if err := e.repo.Delete(ctx, doomed.ID); err != nil {
				e.logger.Warn().
					Err(err).
					Str("delete_id", doomed.ID).
					Msg("Deletion failed, continuing batch")
				summary.Failed++
				summary.Errors = append(summary.Errors, err)
				continue
			}
			summary.Deleted++

			if err := pause(ctx, e.delay); err != nil {
				summary.Errors = append(summary.Errors, err)
				return summary
			}
		}
	}

	return summary
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
