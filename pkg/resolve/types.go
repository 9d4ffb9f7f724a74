// Package resolve assigns and repairs place identifiers for registry
// records: it reconciles newly discovered candidates against grounding
// evidence, and re-resolves existing records whose identifier points at a
// bare address instead of the building itself.
package resolve

import (
	"context"

	"github.com/skylinehq/skyline/pkg/geo"
)

// PlaceCandidate is one result of a text search against the place index.
type PlaceCandidate struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Types            []string
}

// PlaceDetails is the detail view of a single place.
type PlaceDetails struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	CanonicalURL     string
	Types            []string
	PhotoURLs        []string
}

// PlaceSearch is the slice of the place index the resolver needs.
type PlaceSearch interface {
	FindByText(ctx context.Context, query, inputType string) ([]PlaceCandidate, error)
	Details(ctx context.Context, placeID string, fields []string) (*PlaceDetails, error)
}

// Evidence is one grounding chunk returned alongside a generated candidate:
// a web source title and URI, optionally with coordinates and an explicit
// place identifier when the source exposed them.
type Evidence struct {
	Title   string
	URI     string
	PlaceID string
	Lat     float64
	Lng     float64
}

// Coordinates returns the evidence coordinates, zero when absent.
func (e Evidence) Coordinates() geo.Coordinates {
	return geo.Coordinates{Lat: e.Lat, Lng: e.Lng}
}

// HasCoordinates reports whether the evidence carries usable coordinates.
// Exact zero means the source did not expose any.
func (e Evidence) HasCoordinates() bool {
	c := e.Coordinates()
	return c.IsValid() && !(e.Lat == 0 && e.Lng == 0)
}

// Candidate is a newly discovered building before it becomes a record.
type Candidate struct {
	Name          string
	Location      string
	City          string
	Country       string
	Description   string
	Style         string
	Architect     string
	ImageURL      string
	Coordinates   geo.Coordinates
	IsPrioritized bool
}

// ResolutionState tracks how far a candidate got toward a verified place
// identifier.
type ResolutionState string

const (
	// StateNone is the initial state: no identifier known.
	StateNone ResolutionState = "none"
	// StateCandidate means an identifier was extracted but not yet verified.
	StateCandidate ResolutionState = "candidate"
	// StateResolved means the identifier was verified against the place index.
	StateResolved ResolutionState = "resolved"
	// StateUnresolved is terminal: no identifier could be verified. The
	// record still persists and stays eligible for a later repair sweep.
	StateUnresolved ResolutionState = "unresolved"
)
