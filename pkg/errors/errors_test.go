package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("coordinates", "NaN", "latitude is not a finite number")

	assert.Contains(t, err.Error(), "coordinates")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsTransient(err))
}

func TestAPIError(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		err := NewAPIError("places", 429, "quota exceeded")
		assert.True(t, errors.Is(err, ErrRateLimited))
		assert.True(t, IsRateLimited(err))
		assert.True(t, IsTransient(err))
	})

	t.Run("server error", func(t *testing.T) {
		err := NewAPIError("registry", 503, "unavailable")
		assert.True(t, errors.Is(err, ErrProviderUnavailable))
		assert.True(t, IsTransient(err))
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := WrapAPI("registry", 0, cause)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("wrapped api error is still transient", func(t *testing.T) {
		err := fmt.Errorf("fetching page 2: %w", NewAPIError("registry", 500, "boom"))
		assert.True(t, IsTransient(err))
	})
}

func TestClassificationError(t *testing.T) {
	err := &ClassificationError{PlaceID: "abc", Types: []string{"natural_feature"}}

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguous))
	assert.True(t, IsAmbiguous(err))
	assert.Contains(t, err.Error(), "natural_feature")
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("record", "rec42")
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "rec42")
}

func TestWrapHelpersNilPassThrough(t *testing.T) {
	assert.NoError(t, WrapValidation("name", nil))
	assert.NoError(t, WrapParse("json", "response", nil))
	assert.NoError(t, WrapAPI("places", 500, nil))
}

func TestMergeErrorUnwrap(t *testing.T) {
	cause := NewAPIError("registry", 500, "delete failed")
	err := &MergeError{KeepID: "a", DeleteIDs: []string{"b"}, Err: cause}

	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.Contains(t, err.Error(), "keeping a")
}
