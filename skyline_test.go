package skyline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/geo"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/pipeline"
	"github.com/skylinehq/skyline/pkg/registry"
	"github.com/skylinehq/skyline/pkg/resolve"
)

type memoryRepo struct {
	records []*registry.Record
	nextID  int
	deleted []string
}

func (m *memoryRepo) ListAll(context.Context) ([]*registry.Record, error) {
	out := make([]*registry.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memoryRepo) Create(_ context.Context, fields registry.Raw) (*registry.Record, error) {
	m.nextID++
	rec := registry.FromRaw(fields)
	rec.ID = fmt.Sprintf("gen%d", m.nextID)
	m.records = append(m.records, &rec)
	return &rec, nil
}

func (m *memoryRepo) Patch(_ context.Context, id string, _ registry.Raw) (*registry.Record, error) {
	for _, rec := range m.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, errors.NewNotFoundError("record", id)
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	for i, rec := range m.records {
		if rec.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			break
		}
	}
	return nil
}

type staticDiscoverer struct {
	result *pipeline.DiscoveryResult
}

func (d *staticDiscoverer) Discover(context.Context, string, string) (*pipeline.DiscoveryResult, error) {
	return d.result, nil
}

type emptyIndex struct{}

func (emptyIndex) FindByText(context.Context, string, string) ([]resolve.PlaceCandidate, error) {
	return nil, nil
}

func (emptyIndex) Details(_ context.Context, placeID string, _ []string) (*resolve.PlaceDetails, error) {
	return nil, errors.NewNotFoundError("place", placeID)
}

func TestNewRequiresRegistry(t *testing.T) {
	_, err := New(WithLogger(logging.NewNopLogger()))

	var confErr *errors.ConfigError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "registry", confErr.Component)
}

func TestDiscoverEndToEnd(t *testing.T) {
	repo := &memoryRepo{}
	disco := &staticDiscoverer{result: &pipeline.DiscoveryResult{
		Candidates: []resolve.Candidate{{
			Name:        "Narkomfin Building",
			City:        "Moscow",
			Coordinates: geo.Coordinates{Lat: 55.758, Lng: 37.579},
		}},
	}}

	s, err := New(
		WithRepository(repo),
		WithDiscoverer(disco),
		WithPlaceSearch(emptyIndex{}),
		WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)

	summary, err := s.Discover(context.Background(), "constructivist moscow", "")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	require.Len(t, repo.records, 1)

	// The same pass again inserts nothing.
	again, err := s.Discover(context.Background(), "constructivist moscow", "")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 1, again.Skipped)
}

func TestDiscoverWithoutDiscoverer(t *testing.T) {
	s, err := New(WithRepository(&memoryRepo{}), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	_, err = s.Discover(context.Background(), "q", "")
	var confErr *errors.ConfigError
	assert.ErrorAs(t, err, &confErr)
}

func TestRepairWithoutPlaceIndex(t *testing.T) {
	s, err := New(WithRepository(&memoryRepo{}), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	_, err = s.Repair(context.Background())
	var confErr *errors.ConfigError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "places", confErr.Component)
}

func TestDedupeNeedsOnlyRegistry(t *testing.T) {
	repo := &memoryRepo{records: []*registry.Record{
		{ID: "a", Name: "Tower A", City: "Berlin", Coordinates: geo.Coordinates{Lat: 52.0, Lng: 13.0}},
		{ID: "b", Name: "Tower A", Coordinates: geo.Coordinates{Lat: 52.0005, Lng: 13.0005}},
	}}

	s, err := New(WithRepository(repo), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	summary, err := s.Dedupe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, []string{"b"}, repo.deleted)
}
