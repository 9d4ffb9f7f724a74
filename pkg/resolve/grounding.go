package resolve

import (
	"context"
	"math"
	"strings"

	"github.com/skylinehq/skyline/pkg/geo"
	"github.com/skylinehq/skyline/pkg/namematch"
)

// coordFallbackDegrees bounds the coordinate-proximity fallback when no
// evidence title matches the candidate name: roughly 500 m at mid latitudes.
const coordFallbackDegrees = 0.0045

// Reconciliation is the outcome of matching one discovered candidate
// against its grounding evidence.
type Reconciliation struct {
	State       ResolutionState
	Coordinates geo.Coordinates
	PlaceID     string
	MapURL      string
	Matched     *Evidence
	NameMatched bool
}

// ReconcileCandidate matches a discovered candidate against its grounding
// evidence, trusts evidence coordinates over generated ones when the names
// agree, extracts a place identifier, and verifies it against the place
// index. The candidate itself is not mutated; the returned Reconciliation
// carries the final coordinates, identifier, and map link.
//
// Matching prefers a title that contains the candidate name (or vice
// versa, case-insensitively); only then are evidence coordinates allowed to
// overwrite the generated ones. When no title matches, a chunk within
// coordFallbackDegrees of the generated coordinates may still contribute a
// place identifier, but never coordinates.
func (r *Resolver) ReconcileCandidate(ctx context.Context, cand Candidate, evidence []Evidence) Reconciliation {
	rec := Reconciliation{
		State:       StateNone,
		Coordinates: cand.Coordinates,
	}

	rec.Matched, rec.NameMatched = matchEvidence(cand, evidence)

	if rec.NameMatched && rec.Matched.HasCoordinates() {
		rec.Coordinates = rec.Matched.Coordinates()
		r.logger.Debug().
			Str("name", cand.Name).
			Str("source", rec.Matched.Title).
			Float64("lat", rec.Coordinates.Lat).
			Float64("lng", rec.Coordinates.Lng).
			Msg("Using grounded coordinates over generated ones")
	}

	chunkURI := ""
	if rec.Matched != nil {
		chunkURI = rec.Matched.URI
		rec.PlaceID = placeIDFromEvidence(*rec.Matched)
	}

	// No identifier from grounding: fall back to a text search by name.
	if rec.PlaceID == "" {
		replacement, err := r.searchPOI(ctx, cand.Name, cand.Location, cand.City, cand.Country)
		if err != nil {
			r.logger.Warn().Err(err).Str("name", cand.Name).Msg("Text-search fallback failed")
		} else if replacement != nil {
			rec.PlaceID = replacement.PlaceID
		}
	}

	if rec.PlaceID == "" {
		rec.State = StateUnresolved
		rec.MapURL = BuildMapURL("", cand.Name, cand.Location, chunkURI, rec.Coordinates)
		return rec
	}

	rec.State = StateCandidate
	if _, err := r.places.Details(ctx, rec.PlaceID, []string{"name"}); err != nil {
		// Unverifiable identifiers are dropped rather than persisted; the
		// record stays eligible for a later repair sweep.
		r.logger.Warn().Err(err).
			Str("name", cand.Name).
			Str("place_id", rec.PlaceID).
			Msg("Place identifier failed verification, dropping")
		rec.PlaceID = ""
		rec.State = StateUnresolved
		rec.MapURL = BuildMapURL("", cand.Name, cand.Location, chunkURI, rec.Coordinates)
		return rec
	}

	rec.State = StateResolved
	rec.MapURL = BuildMapURL(rec.PlaceID, cand.Name, cand.Location, chunkURI, rec.Coordinates)
	return rec
}

// matchEvidence finds the evidence chunk for a candidate. Returns the chunk
// and whether it matched by name; a coordinate-proximity match returns
// false for the second value.
func matchEvidence(cand Candidate, evidence []Evidence) (*Evidence, bool) {
	for i := range evidence {
		if namesOverlap(cand.Name, evidence[i].Title) {
			return &evidence[i], true
		}
	}

	for i := range evidence {
		if evidence[i].HasCoordinates() && withinFallback(cand.Coordinates, evidence[i].Coordinates()) {
			return &evidence[i], false
		}
	}

	return nil, false
}

// namesOverlap reports whether either normalized name contains the other.
func namesOverlap(a, b string) bool {
	na, nb := namematch.Normalize(a), namematch.Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

func withinFallback(a, b geo.Coordinates) bool {
	return math.Abs(a.Lat-b.Lat) <= coordFallbackDegrees &&
		math.Abs(a.Lng-b.Lng) <= coordFallbackDegrees
}

// placeIDFromEvidence prefers an explicit identifier over one parsed from
// the chunk URI.
func placeIDFromEvidence(e Evidence) string {
	if e.PlaceID != "" {
		return NormalizePlaceID(e.PlaceID)
	}
	return PlaceIDFromURI(e.URI)
}
