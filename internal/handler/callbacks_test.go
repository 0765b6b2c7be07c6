package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "rate_2",
			expected: "rate_2",
		},
		{
			name:     "string with whitespace",
			input:    "  story_s1  ",
			expected: "story_s1",
		},
		{
			name:     "string with newline",
			input:    "page\n_2",
			expected: "page_2",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "string with unprintable characters",
			input:    "listen\x00_s1_3\x01",
			expected: "listen_s1_3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChapterData(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedStory  string
		expectedNumber int
		expectedError  bool
	}{
		{
			name:           "chapter button",
			input:          "chapter_s1_3",
			expectedStory:  "s1",
			expectedNumber: 3,
		},
		{
			name:           "listen button",
			input:          "listen_s1_12",
			expectedStory:  "s1",
			expectedNumber: 12,
		},
		{
			name:           "story id containing underscores",
			input:          "chapter_le_petit_cafe_2",
			expectedStory:  "le_petit_cafe",
			expectedNumber: 2,
		},
		{
			name:          "missing number",
			input:         "chapter_s1",
			expectedError: true,
		},
		{
			name:          "zero chapter",
			input:         "chapter_s1_0",
			expectedError: true,
		},
		{
			name:          "garbage",
			input:         "chapter_",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storyID, number, err := parseChapterData(tt.input)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStory, storyID)
			assert.Equal(t, tt.expectedNumber, number)
		})
	}
}
