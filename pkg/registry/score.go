package registry

// weightedFields get an extra +2 on top of the base count: a description,
// photo, or place identifier is far harder to recover than the rest.
const weightedBonus = 2

// Score rates a record's field-completeness for keep/delete tie-breaks.
// The base score counts non-empty fields among city, country, lat, lng,
// placeId, imageUrl, description, location, style, and architect; a zero
// coordinate, an empty string, or the literal "0" counts as absent.
// Description, imageUrl, and placeId each add a further +2. The score is
// deterministic, side-effect free, and used purely as a ranking, never as
// a pass/fail filter.
func Score(r *Record) float64 {
	score := 0.0

	for _, present := range []bool{
		hasValue(r.City),
		hasValue(r.Country),
		r.Coordinates.Lat != 0,
		r.Coordinates.Lng != 0,
		hasValue(r.PlaceID),
		hasValue(r.ImageURL),
		hasValue(r.Description),
		hasValue(r.Location),
		hasValue(r.Style),
		hasValue(r.Architect),
	} {
		if present {
			score++
		}
	}

	if hasValue(r.Description) {
		score += weightedBonus
	}
	if hasValue(r.ImageURL) {
		score += weightedBonus
	}
	if hasValue(r.PlaceID) {
		score += weightedBonus
	}

	return score
}

// hasValue reports whether a string field counts toward the score. Legacy
// rows carry the literal "0" where a numeric zero was stringified upstream;
// it counts as absent just like the empty string.
func hasValue(s string) bool {
	return s != "" && s != "0"
}
