package placeclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAddressOnly(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  bool
	}{
		{"street address and route", []string{"street_address", "route"}, true},
		{"pure premise", []string{"premise"}, true},
		{"administrative geography", []string{"locality", "political"}, true},
		{"poi tags", []string{"establishment", "point_of_interest"}, false},
		{"poi tag dominates address tags", []string{"route", "museum"}, false},
		{"unknown tag is not classifiable", []string{"natural_feature"}, false},
		{"unknown mixed with address tags", []string{"street_address", "natural_feature"}, false},
		{"empty tag set", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAddressOnly(tt.types))
		})
	}
}

func TestIsPOI(t *testing.T) {
	assert.True(t, IsPOI([]string{"route", "museum"}))
	assert.True(t, IsPOI([]string{"tourist_attraction"}))
	assert.False(t, IsPOI([]string{"street_address", "route"}))
	assert.False(t, IsPOI([]string{"natural_feature"}))
	assert.False(t, IsPOI(nil))
}
