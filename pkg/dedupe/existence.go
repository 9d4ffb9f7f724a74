package dedupe

import (
	"github.com/skylinehq/skyline/pkg/geo"
	"github.com/skylinehq/skyline/pkg/namematch"
	"github.com/skylinehq/skyline/pkg/registry"
)

// Insert-time thresholds. These are looser than the batch-dedup policy on
// purpose: the existence check only decides skip-vs-insert for one new
// candidate, so a borderline match errs toward skipping rather than
// creating a near-duplicate the batch sweep would later have to collapse.
const (
	existsSimilarityThreshold = 0.6
	existsMaxDistanceMeters   = 500.0
	existsExactNameMeters     = 1000.0
)

// Checker decides whether a new candidate already exists in the registry.
type Checker struct{}

// NewChecker creates an existence checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Exists reports whether candidate denotes the same building as any record
// in existing, and returns the first match. Hidden records participate:
// re-inserting a soft-deleted duplicate must stay impossible.
func (c *Checker) Exists(candidate *registry.Record, existing []*registry.Record) (*registry.Record, bool) {
	for _, rec := range existing {
		if c.matches(candidate, rec) {
			return rec, true
		}
	}
	return nil, false
}

// matches applies the loose insert-time policy to one pair: similarity of
// at least 0.6 within 500 m, or an exact normalized name within 1000 m.
func (c *Checker) matches(candidate, rec *registry.Record) bool {
	distance := geo.DistanceMeters(candidate.Coordinates, rec.Coordinates)

	if namematch.ExactMatch(candidate.Name, rec.Name) && distance < existsExactNameMeters {
		return true
	}

	return namematch.Similarity(candidate.Name, rec.Name) >= existsSimilarityThreshold &&
		distance < existsMaxDistanceMeters
}
