package discovery

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/geo"
	"github.com/skylinehq/skyline/pkg/resolve"
)

// looseFloat tolerates coordinates the model quotes as strings.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = looseFloat(v)
	return nil
}

// wireCandidate is one candidate in the model's JSON answer.
type wireCandidate struct {
	Name          string     `json:"name"`
	Location      string     `json:"location"`
	City          string     `json:"city"`
	Country       string     `json:"country"`
	Description   string     `json:"description"`
	Style         string     `json:"style"`
	Architect     string     `json:"architect"`
	ImageURL      string     `json:"imageUrl"`
	Lat           looseFloat `json:"lat"`
	Lng           looseFloat `json:"lng"`
	IsPrioritized bool       `json:"isPrioritized"`
}

// parseCandidates extracts the candidate list from the model's answer.
// The answer may arrive fenced in a markdown code block and as either a
// {"candidates": [...]} object or a bare array.
func parseCandidates(text string) ([]resolve.Candidate, error) {
	body := stripCodeFences(text)
	if body == "" {
		return nil, errors.WrapParse("json", "discovery response", errEmptyResponse)
	}

	var wrapped struct {
		Candidates []wireCandidate `json:"candidates"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err == nil && wrapped.Candidates != nil {
		return convertCandidates(wrapped.Candidates), nil
	}

	var bare []wireCandidate
	if err := json.Unmarshal([]byte(body), &bare); err != nil {
		return nil, errors.WrapParse("json", "discovery response", err)
	}
	return convertCandidates(bare), nil
}

var errEmptyResponse = errors.NewValidationError("response", "", "empty discovery response")

func convertCandidates(wire []wireCandidate) []resolve.Candidate {
	candidates := make([]resolve.Candidate, 0, len(wire))
	for _, w := range wire {
		if strings.TrimSpace(w.Name) == "" {
			continue
		}
		candidates = append(candidates, resolve.Candidate{
			Name:          strings.TrimSpace(w.Name),
			Location:      strings.TrimSpace(w.Location),
			City:          strings.TrimSpace(w.City),
			Country:       strings.TrimSpace(w.Country),
			Description:   strings.TrimSpace(w.Description),
			Style:         strings.TrimSpace(w.Style),
			Architect:     strings.TrimSpace(w.Architect),
			ImageURL:      strings.TrimSpace(w.ImageURL),
			IsPrioritized: w.IsPrioritized,
			Coordinates:   geo.Coordinates{Lat: float64(w.Lat), Lng: float64(w.Lng)},
		})
	}
	return candidates
}

// stripCodeFences unwraps a ```json ... ``` (or plain ```) fenced block and
// trims surrounding prose down to the outermost JSON value.
func stripCodeFences(text string) string {
	s := strings.TrimSpace(text)

	if start := strings.Index(s, "```"); start >= 0 {
		s = s[start+3:]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimPrefix(strings.TrimSpace(s), "json")
		s = strings.TrimSpace(s)
	}

	// Some answers wrap the JSON in a sentence; cut to the outermost
	// bracket pair.
	first := strings.IndexAny(s, "{[")
	if first < 0 {
		return ""
	}
	last := strings.LastIndexAny(s, "}]")
	if last < first {
		return ""
	}
	return s[first : last+1]
}
