package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylinehq/skyline/pkg/dedupe"
	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/geo"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/registry"
)

// fakeRepo records delete calls and fails for configured IDs.
type fakeRepo struct {
	deleted []string
	failIDs map[string]bool
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if f.failIDs[id] {
		return errors.NewAPIError("registry", 500, "delete failed")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newEngine(repo *fakeRepo, opts ...Option) *Engine {
	base := []Option{WithDelay(0), WithLogger(logging.NewNopLogger())}
	return NewEngine(repo, append(base, opts...)...)
}

func scored(id string, score int) *registry.Record {
	rec := &registry.Record{ID: id, Name: "Tower A", Coordinates: geo.Coordinates{Lat: 52, Lng: 13}}
	// Each filled field below adds one point.
	fields := []func(*registry.Record){
		func(r *registry.Record) { r.City = "Berlin" },
		func(r *registry.Record) { r.Country = "Germany" },
		func(r *registry.Record) { r.Location = "Alexanderplatz" },
		func(r *registry.Record) { r.Style = "brutalism" },
		func(r *registry.Record) { r.Architect = "Henselmann" },
	}
	for i := 0; i < score && i < len(fields); i++ {
		fields[i](rec)
	}
	return rec
}

func TestResolveKeepsHighestScore(t *testing.T) {
	group := dedupe.Group{scored("low", 1), scored("high", 4), scored("mid", 2)}

	decision := newEngine(&fakeRepo{}).Resolve(group)

	assert.Equal(t, "high", decision.Keep.ID)
	require.Len(t, decision.Delete, 2)
	assert.Equal(t, "low", decision.Delete[0].ID)
	assert.Equal(t, "mid", decision.Delete[1].ID)
}

func TestResolveTieBreaksFirstSeen(t *testing.T) {
	group := dedupe.Group{scored("first", 2), scored("second", 2), scored("third", 2)}

	decision := newEngine(&fakeRepo{}).Resolve(group)

	assert.Equal(t, "first", decision.Keep.ID)
}

func TestApplyDeletesLosers(t *testing.T) {
	repo := &fakeRepo{}
	engine := newEngine(repo)

	decisions := engine.ResolveAll([]dedupe.Group{
		{scored("keep1", 3), scored("del1", 1)},
		{scored("keep2", 3), scored("del2", 1), scored("del3", 0)},
	})
	summary := engine.Apply(context.Background(), decisions)

	assert.Equal(t, 2, summary.Groups)
	assert.Equal(t, 3, summary.Deleted)
	assert.Equal(t, 0, summary.Failed)
	assert.ElementsMatch(t, []string{"del1", "del2", "del3"}, repo.deleted)
}

func TestApplyContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{failIDs: map[string]bool{"del1": true}}
	engine := newEngine(repo)

	decisions := engine.ResolveAll([]dedupe.Group{
		{scored("keep1", 3), scored("del1", 1)},
		{scored("keep2", 3), scored("del2", 1)},
	})
	summary := engine.Apply(context.Background(), decisions)

	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.True(t, errors.IsTransient(summary.Errors[0]))
	assert.Equal(t, []string{"del2"}, repo.deleted)
}

func TestApplyDryRunIssuesNothing(t *testing.T) {
	repo := &fakeRepo{}
	engine := newEngine(repo, WithDryRun(true))

	decisions := engine.ResolveAll([]dedupe.Group{
		{scored("keep", 3), scored("del", 1)},
	})
	summary := engine.Apply(context.Background(), decisions)

	assert.Empty(t, repo.deleted)
	assert.Equal(t, 0, summary.Deleted)
	assert.Equal(t, 0, summary.Failed)
}

func TestApplyStopsOnCancelledContext(t *testing.T) {
	repo := &fakeRepo{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With zero delay, pause returns the context error after the first
	// successful delete and the batch stops cleanly.
	engine := newEngine(repo)
	decisions := engine.ResolveAll([]dedupe.Group{
		{scored("keep", 3), scored("del1", 1), scored("del2", 0)},
	})
	summary := engine.Apply(ctx, decisions)

	assert.Equal(t, 1, summary.Deleted)
	assert.NotEmpty(t, summary.Errors)
}

func TestDedupeThenApplyReachesFixedPoint(t *testing.T) {
	a := &registry.Record{ID: "a", Name: "Tower A", City: "Berlin", Coordinates: geo.Coordinates{Lat: 52.000000, Lng: 13.000000}}
	b := &registry.Record{ID: "b", Name: "Tower A", Coordinates: geo.Coordinates{Lat: 52.0005, Lng: 13.0005}}
	c := &registry.Record{ID: "c", Name: "Somewhere Else", Coordinates: geo.Coordinates{Lat: 48.0, Lng: 2.0}}

	repo := &fakeRepo{}
	engine := newEngine(repo)
	grouper := dedupe.NewGrouper(nil)

	groups := grouper.Group([]*registry.Record{a, b, c})
	require.Len(t, groups, 1)

	summary := engine.Apply(context.Background(), engine.ResolveAll(groups))
	assert.Equal(t, []string{"b"}, repo.deleted, "higher-scored a survives")
	assert.Equal(t, 1, summary.Deleted)

	// Survivors only: re-running the sweep finds nothing to do.
	survivors := []*registry.Record{a, c}
	regrouped := grouper.Group(survivors)
	assert.Empty(t, regrouped)

	resummary := engine.Apply(context.Background(), engine.ResolveAll(regrouped))
	assert.Equal(t, 0, resummary.Deleted)
}
