package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylinehq/skyline/pkg/registry"
)

func TestExistsLooserThanBatchDedup(t *testing.T) {
	// similarity ≈ 0.65 and distance ≈ 450m: a duplicate under the
	// insert-time 0.6/500m policy, but below the 0.75/300m batch policy.
	// The asymmetry is intentional.
	//
	// "melnikov house" (14) inside "the melnikov house... " — use a pair
	// with containment ratio between 0.6 and 0.75.
	existing := rec("e1", "Melnikov House Museum", 55.7400, 37.5900)
	candidate := rec("", "Melnikov House", 55.7400+450.0/111194.93, 37.5900)

	// containment: "melnikov house" (14) / "melnikov house museum" (21) ≈ 0.667
	checker := NewChecker()
	match, found := checker.Exists(candidate, []*registry.Record{existing})

	require.True(t, found)
	assert.Equal(t, "e1", match.ID)

	// The same pair is never grouped by the batch policy.
	groups := NewGrouper(nil).Group([]*registry.Record{existing, candidate})
	assert.Empty(t, groups)
}

func TestExistsExactNameWiderRadius(t *testing.T) {
	existing := rec("e1", "Palace of the Soviets", 55.744, 37.605)

	t.Run("exact name at 900m is a duplicate", func(t *testing.T) {
		candidate := rec("", "Palace of the Soviets", 55.744+900.0/111194.93, 37.605)
		_, found := NewChecker().Exists(candidate, []*registry.Record{existing})
		assert.True(t, found)
	})

	t.Run("exact name at 1000m is not", func(t *testing.T) {
		candidate := rec("", "Palace of the Soviets", 55.744+1000.2/111194.93, 37.605)
		_, found := NewChecker().Exists(candidate, []*registry.Record{existing})
		assert.False(t, found)
	})
}

func TestExistsBelowSimilarityThreshold(t *testing.T) {
	existing := rec("e1", "Tatlin Tower", 59.95, 30.31)
	candidate := rec("", "Monument to the Third International", 59.95, 30.31)

	_, found := NewChecker().Exists(candidate, []*registry.Record{existing})
	assert.False(t, found, "dissimilar names are never duplicates, even at zero distance")
}

func TestExistsConsidersHiddenRecords(t *testing.T) {
	hidden := rec("e1", "Tower A", 52.0, 13.0)
	hidden.IsHidden = true
	candidate := rec("", "Tower A", 52.0001, 13.0001)

	_, found := NewChecker().Exists(candidate, []*registry.Record{hidden})
	assert.True(t, found, "soft-deleted duplicates must not be resurrected")
}

func TestExistsEmptyRegistry(t *testing.T) {
	candidate := rec("", "Tower A", 52.0, 13.0)
	_, found := NewChecker().Exists(candidate, nil)
	assert.False(t, found)
}
