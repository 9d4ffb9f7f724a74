package resolve

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skylinehq/skyline/pkg/geo"
)

const mapSearchBase = "https://www.google.com/maps/search/?api=1"

// NormalizePlaceID strips the "places/" resource-name prefix some APIs
// return, leaving the bare identifier.
func NormalizePlaceID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "places/")
}

// PlaceIDFromURI extracts a place identifier embedded in a map URI, either
// as a place_id= query parameter or as a place/ path segment. Returns ""
// when the URI carries no identifier.
func PlaceIDFromURI(uri string) string {
	if uri == "" {
		return ""
	}

	if parsed, err := url.Parse(uri); err == nil {
		if id := parsed.Query().Get("place_id"); id != "" {
			return NormalizePlaceID(id)
		}
		// The q=place_id:<id> form used by older share links.
		if q := parsed.Query().Get("q"); strings.HasPrefix(q, "place_id:") {
			return NormalizePlaceID(strings.TrimPrefix(q, "place_id:"))
		}
	}

	if idx := strings.Index(uri, "place_id="); idx >= 0 {
		id := uri[idx+len("place_id="):]
		if end := strings.IndexAny(id, "&#"); end >= 0 {
			id = id[:end]
		}
		return NormalizePlaceID(id)
	}

	if idx := strings.Index(uri, "/place/"); idx >= 0 {
		id := uri[idx+len("/place/"):]
		if end := strings.IndexAny(id, "/?&#"); end >= 0 {
			id = id[:end]
		}
		return NormalizePlaceID(id)
	}

	return ""
}

// URIEncodesPlaceID reports whether a map URI already carries a place
// identifier and can serve as a canonical link on its own.
func URIEncodesPlaceID(uri string) bool {
	return PlaceIDFromURI(uri) != ""
}

// PlaceURL builds a canonical map link from a place identifier and name.
func PlaceURL(placeID, name string) string {
	return fmt.Sprintf("%s&query=%s&query_place_id=%s",
		mapSearchBase, url.QueryEscape(name), url.QueryEscape(placeID))
}

// SearchURL builds a text-search map link from a name and location.
func SearchURL(name, location string) string {
	query := name
	if location != "" {
		query = name + " " + location
	}
	return fmt.Sprintf("%s&query=%s", mapSearchBase, url.QueryEscape(query))
}

// CoordsURL builds a raw-coordinates map link. Last resort only.
func CoordsURL(c geo.Coordinates) string {
	return fmt.Sprintf("%s&query=%.6f%%2C%.6f", mapSearchBase, c.Lat, c.Lng)
}

// BuildMapURL picks the best available canonical map link, preferring:
// an explicit place id with the name, then a chunk URI that already encodes
// a place id, then a text search from name and location, then raw
// coordinates as the last resort.
func BuildMapURL(placeID, name, location, chunkURI string, coords geo.Coordinates) string {
	switch {
	case placeID != "" && name != "":
		return PlaceURL(placeID, name)
	case URIEncodesPlaceID(chunkURI):
		return chunkURI
	case name != "":
		return SearchURL(name, location)
	default:
		return CoordsURL(coords)
	}
}
