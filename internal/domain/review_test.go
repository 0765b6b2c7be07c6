package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expected      Direction
		expectedError bool
	}{
		{
			name:     "french to german",
			input:    "fr_to_de",
			expected: FrenchToGerman,
		},
		{
			name:     "german to french",
			input:    "de_to_fr",
			expected: GermanToFrench,
		},
		{
			name:          "unknown value",
			input:         "fr_to_en",
			expectedError: true,
		},
		{
			name:          "empty value",
			input:         "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDirection(tt.input)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, d)
			}
		})
	}
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, GermanToFrench, FrenchToGerman.Opposite())
	assert.Equal(t, FrenchToGerman, GermanToFrench.Opposite())
}

func TestRating(t *testing.T) {
	tests := []struct {
		name   string
		rating Rating
		valid  bool
		known  bool
	}{
		{"again", RatingAgain, true, false},
		{"hard", RatingHard, true, false},
		{"good", RatingGood, true, true},
		{"easy", RatingEasy, true, true},
		{"negative", Rating(-1), false, false},
		{"out of scale", Rating(4), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.rating.Valid())
			assert.Equal(t, tt.known, tt.rating.Known())
		})
	}
}

func TestTargetForScheduler(t *testing.T) {
	assert.Equal(t, TargetAnki, TargetForScheduler("anki"))
	assert.Equal(t, TargetGeneric, TargetForScheduler("fsrs"))
	assert.Equal(t, TargetGeneric, TargetForScheduler(""))
}
