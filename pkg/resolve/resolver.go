package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/placeclass"
	"github.com/skylinehq/skyline/pkg/registry"
)

// Resolver verifies and repairs place identifiers through a place index.
type Resolver struct {
	places PlaceSearch
	logger *zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a resolver backed by the given place index.
func NewResolver(places PlaceSearch, opts ...Option) *Resolver {
	r := &Resolver{
		places: places,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RepairOutcome classifies what a repair attempt did to a record.
type RepairOutcome string

const (
	// RepairSkipped means the identifier already points at a POI.
	RepairSkipped RepairOutcome = "skipped"
	// RepairAmbiguous means the identifier's tags were inconclusive and the
	// record was deliberately left untouched.
	RepairAmbiguous RepairOutcome = "ambiguous"
	// RepairReplaced means a better identifier was found and written.
	RepairReplaced RepairOutcome = "replaced"
	// RepairUnmatched means the identifier is address-only but no POI
	// replacement was found; the record was left untouched for review.
	RepairUnmatched RepairOutcome = "unmatched"
)

// RepairResult reports the outcome of one repair attempt.
type RepairResult struct {
	Outcome RepairOutcome
	PlaceID string
	MapURL  string
}

// RepairPlaceID checks whether a record's place identifier resolves to a
// bare address rather than the building itself, and if so re-queries the
// place index by name to find a proper replacement. Only address-only
// identifiers are ever touched; POI and ambiguous identifiers are reported
// and left alone.
func (r *Resolver) RepairPlaceID(ctx context.Context, rec *registry.Record) (RepairResult, error) {
	if rec.PlaceID == "" {
		return RepairResult{}, errors.NewValidationError("placeId", "", "record has no place identifier")
	}

	details, err := r.places.Details(ctx, rec.PlaceID, []string{"types", "name", "formatted_address"})
	if err != nil {
		return RepairResult{}, fmt.Errorf("fetch place details %s: %w", rec.PlaceID, err)
	}

	if !placeclass.IsAddressOnly(details.Types) {
		outcome := RepairAmbiguous
		if placeclass.IsPOI(details.Types) {
			outcome = RepairSkipped
		}
		return RepairResult{Outcome: outcome, PlaceID: rec.PlaceID, MapURL: rec.MapURL}, nil
	}

	r.logger.Info().
		Str("record_id", rec.ID).
		Str("name", rec.Name).
		Str("place_id", rec.PlaceID).
		Strs("types", details.Types).
		Msg("Place identifier is address-only, re-querying")

	replacement, err := r.searchPOI(ctx, rec.Name, rec.Location, rec.City, rec.Country)
	if err != nil {
		return RepairResult{}, err
	}
	if replacement == nil {
		r.logger.Warn().
			Str("record_id", rec.ID).
			Str("name", rec.Name).
			Msg("No POI replacement found, leaving record untouched")
		return RepairResult{Outcome: RepairUnmatched, PlaceID: rec.PlaceID, MapURL: rec.MapURL}, nil
	}

	mapURL := r.canonicalURL(ctx, replacement.PlaceID, rec.Name)
	rec.PlaceID = replacement.PlaceID
	rec.MapURL = mapURL

	r.logger.Info().
		Str("record_id", rec.ID).
		Str("place_id", replacement.PlaceID).
		Str("matched_name", replacement.Name).
		Msg("Replaced address-only place identifier")

	return RepairResult{Outcome: RepairReplaced, PlaceID: replacement.PlaceID, MapURL: mapURL}, nil
}

// searchPOI runs a text search for the building and returns the first
// candidate that is not address-only, or nil when none qualifies.
func (r *Resolver) searchPOI(ctx context.Context, name, location, city, country string) (*PlaceCandidate, error) {
	query := searchQuery(name, location, city, country)

	candidates, err := r.places.FindByText(ctx, query, "textquery")
	if err != nil {
		return nil, fmt.Errorf("place search %q: %w", query, err)
	}

	for i := range candidates {
		if !placeclass.IsAddressOnly(candidates[i].Types) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// canonicalURL fetches the canonical map link for a place, falling back to
// a constructed one when the detail fetch fails or omits it.
func (r *Resolver) canonicalURL(ctx context.Context, placeID, name string) string {
	details, err := r.places.Details(ctx, placeID, []string{"url"})
	if err == nil && details.CanonicalURL != "" {
		return details.CanonicalURL
	}
	if err != nil {
		r.logger.Debug().Err(err).Str("place_id", placeID).Msg("Canonical URL fetch failed, constructing link")
	}
	return PlaceURL(placeID, name)
}

// searchQuery builds the text-search query: name plus location, falling
// back to name plus city and country when the record has no location line.
func searchQuery(name, location, city, country string) string {
	if location != "" {
		return name + " " + location
	}
	parts := []string{name}
	if city != "" {
		parts = append(parts, city)
	}
	if country != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, " ")
}
