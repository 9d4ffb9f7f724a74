package registry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/skylinehq/skyline/pkg/geo"
)

// Raw is a record in the repository's wire shape: a loose bag of fields
// whose types drifted over the store's lifetime (numbers as strings,
// single-or-list images, stringified comment arrays). FromRaw is the only
// place that ambiguity is resolved.
type Raw map[string]any

// FromRaw maps a raw repository row to a typed Record. Missing or
// unparseable optional fields map to zero values.
func FromRaw(raw Raw) Record {
	rec := Record{
		ID:          rawString(raw, "id", "Id"),
		Name:        rawString(raw, "name"),
		Location:    rawString(raw, "location"),
		City:        rawString(raw, "city"),
		Country:     rawString(raw, "country"),
		PlaceID:     rawString(raw, "placeId"),
		MapURL:      rawString(raw, "mapUrl"),
		ImageURL:    rawString(raw, "imageUrl"),
		Style:       rawString(raw, "style"),
		Architect:   rawString(raw, "architect"),
		Description: rawString(raw, "description"),

		IsPrioritized:    rawBool(raw, "isPrioritized"),
		IsHidden:         rawBool(raw, "isHidden"),
		IsFavourite:      rawBool(raw, "isFavourite"),
		HasSpecialMarker: rawBool(raw, "hasSpecialMarker"),
	}

	rec.Coordinates = geo.Coordinates{
		Lat: rawFloat(raw, "lat"),
		Lng: rawFloat(raw, "lng"),
	}
	if nested, ok := raw["coordinates"].(map[string]any); ok {
		rec.Coordinates = geo.Coordinates{
			Lat: rawFloat(nested, "lat"),
			Lng: rawFloat(nested, "lng"),
		}
	}

	rec.ImageURLs = rawStringList(raw["imageUrls"])
	rec.Comments = rawComments(raw["comments"])

	return rec
}

// Fields maps a Record to the flat wire shape used for create and patch
// payloads. The ID is never included; the repository owns it.
func (r *Record) Fields() map[string]any {
	fields := map[string]any{
		"name": r.Name,
		"lat":  r.Coordinates.Lat,
		"lng":  r.Coordinates.Lng,
	}

	setIfPresent := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	setIfPresent("location", r.Location)
	setIfPresent("city", r.City)
	setIfPresent("country", r.Country)
	setIfPresent("placeId", r.PlaceID)
	setIfPresent("mapUrl", r.MapURL)
	setIfPresent("imageUrl", r.ImageURL)
	setIfPresent("style", r.Style)
	setIfPresent("architect", r.Architect)
	setIfPresent("description", r.Description)

	if len(r.ImageURLs) > 0 {
		fields["imageUrls"] = r.ImageURLs
	}
	if r.IsPrioritized {
		fields["isPrioritized"] = true
	}
	if r.IsHidden {
		fields["isHidden"] = true
	}
	if r.IsFavourite {
		fields["isFavourite"] = true
	}
	if r.HasSpecialMarker {
		fields["hasSpecialMarker"] = true
	}
	if len(r.Comments) > 0 {
		comments := make([]map[string]any, 0, len(r.Comments))
		for _, c := range r.Comments {
			m := map[string]any{
				"text":      c.Text,
				"createdAt": c.CreatedAt.UTC().Format(time.RFC3339),
			}
			if c.UpdatedAt != nil {
				m["updatedAt"] = c.UpdatedAt.UTC().Format(time.RFC3339)
			}
			comments = append(comments, m)
		}
		fields["comments"] = comments
	}

	return fields
}

// rawString returns the first present key coerced to a string.
func rawString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// rawFloat coerces a numeric field that may arrive as a number or a string.
// Absent or unparseable values map to zero.
func rawFloat(raw map[string]any, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

// rawBool coerces a flag that may arrive as a bool, number, or string.
func rawBool(raw map[string]any, key string) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "true" || s == "1" || s == "yes"
	}
	return false
}

// rawStringList coerces a field that may be a JSON array, a Go string
// slice, or a single comma-joined string.
func rawStringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return trimList(list)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(list) == "" {
			return nil
		}
		return trimList(strings.Split(list, ","))
	}
	return nil
}

func trimList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// rawComments coerces the comments field, which may be a structured array
// or a JSON string of one.
func rawComments(v any) []Comment {
	var list []any
	switch typed := v.(type) {
	case []any:
		list = typed
	case []map[string]any:
		for _, m := range typed {
			list = append(list, m)
		}
	case string:
		if strings.TrimSpace(typed) != "" {
			var parsed []any
			if err := json.Unmarshal([]byte(typed), &parsed); err == nil {
				list = parsed
			}
		}
	}
	if len(list) == 0 {
		return nil
	}

	comments := make([]Comment, 0, len(list))
	for _, item := range list {
		m, isMap := item.(map[string]any)
		if !isMap {
			continue
		}
		c := Comment{Text: rawString(m, "text")}
		if c.Text == "" {
			continue
		}
		c.CreatedAt = rawTime(m, "createdAt")
		if updated := rawTime(m, "updatedAt"); !updated.IsZero() {
			c.UpdatedAt = &updated
		}
		comments = append(comments, c)
	}
	if len(comments) == 0 {
		return nil
	}
	return comments
}

func rawTime(raw map[string]any, key string) time.Time {
	s, ok := raw[key].(string)
	if !ok || s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// String renders a short human-readable record summary for logs.
func (r *Record) String() string {
	return fmt.Sprintf("%s (%s @ %.5f,%.5f)", r.Name, r.ID, r.Coordinates.Lat, r.Coordinates.Lng)
}
