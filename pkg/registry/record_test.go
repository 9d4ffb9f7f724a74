package registry

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/geo"
)

func TestValidate(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		rec := Record{Name: "Fernsehturm", Coordinates: geo.Coordinates{Lat: 52.520803, Lng: 13.409422}}
		assert.NoError(t, rec.Validate())
	})

	t.Run("empty name rejected", func(t *testing.T) {
		rec := Record{Name: "  ", Coordinates: geo.Coordinates{Lat: 52, Lng: 13}}
		err := rec.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("nan coordinates rejected", func(t *testing.T) {
		rec := Record{Name: "Fernsehturm", Coordinates: geo.Coordinates{Lat: math.NaN(), Lng: 13}}
		err := rec.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("zero coordinates are valid", func(t *testing.T) {
		rec := Record{Name: "Null Island Lighthouse", Coordinates: geo.Coordinates{}}
		assert.NoError(t, rec.Validate())
	})
}

func TestStyleTags(t *testing.T) {
	rec := Record{Style: "constructivism, brutalism , modernism"}
	assert.Equal(t, []string{"constructivism", "brutalism", "modernism"}, rec.StyleTags())
	assert.Equal(t, "constructivism", rec.PrimaryStyle())

	empty := Record{}
	assert.Nil(t, empty.StyleTags())
	assert.Equal(t, "", empty.PrimaryStyle())
}

func TestImages(t *testing.T) {
	rec := Record{
		ImageURL:  "https://img.example/a.jpg",
		ImageURLs: []string{"https://img.example/a.jpg", "https://img.example/b.jpg"},
	}
	assert.Equal(t, []string{"https://img.example/a.jpg", "https://img.example/b.jpg"}, rec.Images())
}

func TestCommentLifecycle(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Record{Name: "Gosprom", Coordinates: geo.Coordinates{Lat: 50, Lng: 36}}

	require.NoError(t, rec.AddComment("first visit", now))
	require.NoError(t, rec.AddComment("facade renovated", now.Add(time.Hour)))
	require.Len(t, rec.Comments, 2)
	assert.Nil(t, rec.Comments[0].UpdatedAt)

	require.NoError(t, rec.UpdateComment(1, "facade renovated in 2024", now.Add(2*time.Hour)))
	require.NotNil(t, rec.Comments[1].UpdatedAt)
	assert.Equal(t, "facade renovated in 2024", rec.Comments[1].Text)

	require.NoError(t, rec.DeleteComment(0))
	require.Len(t, rec.Comments, 1)
	assert.Equal(t, "facade renovated in 2024", rec.Comments[0].Text)

	assert.Error(t, rec.UpdateComment(5, "nope", now))
	assert.Error(t, rec.DeleteComment(-1))
	assert.Error(t, rec.AddComment("", now))
}

func TestCommentLimit(t *testing.T) {
	now := time.Now()
	rec := Record{}
	for i := 0; i < 6; i++ {
		require.NoError(t, rec.AddComment("note", now))
	}
	assert.Error(t, rec.AddComment("one too many", now))
	assert.Len(t, rec.Comments, 6)
}

func TestLive(t *testing.T) {
	visible := Record{Name: "A"}
	hidden := Record{Name: "B", IsHidden: true}
	assert.True(t, visible.Live())
	assert.False(t, hidden.Live())
}
