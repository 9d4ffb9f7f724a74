// Package placeclass classifies place-search type tags: is a place a bare
// street address, or a point of interest with an identity of its own?
// The classification is conservative: any tag outside both known sets makes
// the place POI-like, so the caller never replaces an identifier it does
// not fully understand.
package placeclass

// poiTypes are tags that positively indicate a point of interest.
var poiTypes = map[string]bool{
	"establishment":      true,
	"point_of_interest":  true,
	"museum":             true,
	"church":             true,
	"university":         true,
	"stadium":            true,
	"library":            true,
	"government_office":  true,
	"place_of_worship":   true,
	"courthouse":         true,
	"tourist_attraction": true,
	"city_hall":          true,
}

// addressTypes are tags that describe bare addresses and administrative
// geography rather than named places.
var addressTypes = map[string]bool{
	"street_address":              true,
	"route":                       true,
	"premise":                     true,
	"subpremise":                  true,
	"postal_code":                 true,
	"neighborhood":                true,
	"locality":                    true,
	"political":                   true,
	"administrative_area_level_1": true,
	"administrative_area_level_2": true,
	"country":                     true,
}

// IsAddressOnly reports whether a tag set describes a bare address: no tag
// is a POI indicator and every tag belongs to the address-ish set. A tag
// outside both sets makes the place neither classifiably address-only nor
// POI, and the conservative answer is false.
func IsAddressOnly(types []string) bool {
	if len(types) == 0 {
		return false
	}
	for _, t := range types {
		if poiTypes[t] {
			return false
		}
		if !addressTypes[t] {
			return false
		}
	}
	return true
}

// IsPOI reports whether any tag positively indicates a point of interest.
func IsPOI(types []string) bool {
	for _, t := range types {
		if poiTypes[t] {
			return true
		}
	}
	return false
}
