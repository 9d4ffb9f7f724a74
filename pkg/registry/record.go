// Package registry defines the building Record data model, its validation
// rules, and the mapping between the record store's raw wire shape and the
// typed model. All "field may be a string, array, or absent" ambiguity is
// isolated in this package's adapter.
package registry

import (
	"strings"
	"time"

	"github.com/skylinehq/skyline/pkg/constants"
	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/geo"
)

// Record is a building entity. ID is assigned by the repository and
// immutable once created; everything else may be backfilled by enrichment,
// classification, or user edits.
type Record struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Location is the free-text address; City and Country are optional
	// structured parts that may be derived from it.
	Location string `json:"location,omitempty"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`

	Coordinates geo.Coordinates `json:"coordinates"`

	// PlaceID is the place-search provider's opaque identifier. Once
	// classified as a genuine POI it is never silently overwritten by a
	// lower-confidence source.
	PlaceID string `json:"placeId,omitempty"`
	MapURL  string `json:"mapUrl,omitempty"`

	ImageURL  string   `json:"imageUrl,omitempty"`
	ImageURLs []string `json:"imageUrls,omitempty"`

	// Style is an ordered, comma-joined list of classification tags;
	// the first tag is primary.
	Style string `json:"style,omitempty"`

	Architect   string `json:"architect,omitempty"`
	Description string `json:"description,omitempty"`

	IsPrioritized    bool `json:"isPrioritized,omitempty"`
	IsHidden         bool `json:"isHidden,omitempty"`
	IsFavourite      bool `json:"isFavourite,omitempty"`
	HasSpecialMarker bool `json:"hasSpecialMarker,omitempty"`

	Comments []Comment `json:"comments,omitempty"`
}

// Comment is a structured user note on a record. UpdatedAt is nil until the
// comment is edited.
type Comment struct {
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Validate checks the invariants that must hold before a record reaches the
// repository: a non-empty name and finite coordinates.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.NewValidationError("name", r.Name, "name must not be empty")
	}
	if !r.Coordinates.IsValid() {
		return errors.NewValidationError("coordinates", r.Coordinates, "latitude and longitude must be finite and in range")
	}
	return nil
}

// Live reports whether the record is visible to normal read paths.
// Soft-deleted records stay visible to duplicate and existence checks.
func (r *Record) Live() bool {
	return !r.IsHidden
}

// StyleTags returns the ordered classification tags.
func (r *Record) StyleTags() []string {
	if strings.TrimSpace(r.Style) == "" {
		return nil
	}
	parts := strings.Split(r.Style, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// PrimaryStyle returns the first style tag, used for downstream
// color/priority logic, or "" when the record is unclassified.
func (r *Record) PrimaryStyle() string {
	tags := r.StyleTags()
	if len(tags) == 0 {
		return ""
	}
	return tags[0]
}

// Images returns all image URLs carried by the record, the single-image
// field first, without duplicates.
func (r *Record) Images() []string {
	var images []string
	seen := make(map[string]bool)
	for _, u := range append([]string{r.ImageURL}, r.ImageURLs...) {
		if u != "" && !seen[u] {
			images = append(images, u)
			seen[u] = true
		}
	}
	return images
}

// AddComment appends a comment. Records hold at most MaxComments entries.
func (r *Record) AddComment(text string, now time.Time) error {
	if strings.TrimSpace(text) == "" {
		return errors.NewValidationError("comment", text, "comment text must not be empty")
	}
	if len(r.Comments) >= constants.MaxComments {
		return errors.NewValidationError("comments", len(r.Comments), "comment limit reached")
	}
	r.Comments = append(r.Comments, Comment{Text: text, CreatedAt: now.UTC()})
	return nil
}

// UpdateComment replaces the text of the comment at index and stamps it.
func (r *Record) UpdateComment(index int, text string, now time.Time) error {
	if index < 0 || index >= len(r.Comments) {
		return errors.NewValidationError("comment", index, "comment index out of range")
	}
	if strings.TrimSpace(text) == "" {
		return errors.NewValidationError("comment", text, "comment text must not be empty")
	}
	updated := now.UTC()
	r.Comments[index].Text = text
	r.Comments[index].UpdatedAt = &updated
	return nil
}

// DeleteComment removes the comment at index, preserving order.
func (r *Record) DeleteComment(index int) error {
	if index < 0 || index >= len(r.Comments) {
		return errors.NewValidationError("comment", index, "comment index out of range")
	}
	r.Comments = append(r.Comments[:index], r.Comments[index+1:]...)
	return nil
}
