// Package dedupe partitions building records into duplicate groups and
// decides whether a newly discovered candidate already exists in the
// registry. Both checks combine name similarity with geographic proximity,
// but with deliberately different thresholds: collapsing a whole registry
// demands more confidence than skipping one insert.
package dedupe

import (
	"github.com/skylinehq/skyline/pkg/geo"
	"github.com/skylinehq/skyline/pkg/namematch"
	"github.com/skylinehq/skyline/pkg/registry"
)

// Batch-dedup thresholds: a pair is a duplicate when the names are at least
// this similar (or exactly equal after normalization) and the records sit
// strictly closer than maxGroupDistance.
const (
	groupSimilarityThreshold = 0.75
	maxGroupDistanceMeters   = 300.0
)

// Group is a set of records believed to denote one real-world building.
// The first member is the seed the others matched against.
type Group []*registry.Record

// Grouper partitions record collections into duplicate groups.
type Grouper struct {
	exceptions *ExceptionList
}

// NewGrouper creates a grouper with the given exception list; nil means
// no exceptions.
func NewGrouper(exceptions *ExceptionList) *Grouper {
	return &Grouper{exceptions: exceptions}
}

// Group partitions records into duplicate groups of size two or more,
// emitted in input order.
//
// Grouping is star-shaped around each group's seed record: a later record
// joins a group only by matching the seed directly, never transitively
// through another member. This conservatism avoids merge chains through a
// weak intermediate match and is intentional behavior, not an oversight.
func (g *Grouper) Group(records []*registry.Record) []Group {
	var groups []Group
	visited := make([]bool, len(records))

	for i, seed := range records {
		if visited[i] {
			continue
		}
		visited[i] = true

		group := Group{seed}
		for j := i + 1; j < len(records); j++ {
			if visited[j] {
				continue
			}
			if g.isDuplicatePair(seed, records[j]) {
				group = append(group, records[j])
				visited[j] = true
			}
		}

		if len(group) >= 2 {
			groups = append(groups, group)
		}
	}

	return groups
}

// isDuplicatePair applies the strict batch-dedup policy to one pair.
func (g *Grouper) isDuplicatePair(a, b *registry.Record) bool {
	// Listed exceptions are never merged, no matter how close or similar.
	if g.exceptions.Matches(a.Name) || g.exceptions.Matches(b.Name) {
		return false
	}

	similarity := namematch.Similarity(a.Name, b.Name)
	exact := namematch.ExactMatch(a.Name, b.Name)
	if similarity < groupSimilarityThreshold && !exact {
		return false
	}

	return geo.DistanceMeters(a.Coordinates, b.Coordinates) < maxGroupDistanceMeters
}
