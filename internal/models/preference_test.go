// internal/models/preference_test.go
package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "empty string",
			raw:      "",
			expected: nil,
		},
		{
			name:     "comma separated",
			raw:      "stavba, silnice, most",
			expected: []string{"stavba", "silnice", "most"},
		},
		{
			name:     "semicolons and pipes act as separators",
			raw:      "stavba; silnice| most",
			expected: []string{"stavba", "silnice", "most"},
		},
		{
			name:     "whitespace is trimmed",
			raw:      "  stavba ,   silnice  ",
			expected: []string{"stavba", "silnice"},
		},
		{
			name:     "single character tokens are dropped",
			raw:      "a, stavba, č, silnice",
			expected: []string{"stavba", "silnice"},
		},
		{
			name:     "blank tokens are dropped",
			raw:      "stavba,, ,silnice",
			expected: []string{"stavba", "silnice"},
		},
		{
			name:     "order is preserved",
			raw:      "zzz, aaa, mmm",
			expected: []string{"zzz", "aaa", "mmm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKeywords(tt.raw))
		})
	}
}

func TestNormalizeKeywords_CapsAtTwenty(t *testing.T) {
	parts := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		parts = append(parts, strings.Repeat("kw", i+1))
	}

	keywords := NormalizeKeywords(strings.Join(parts, ", "))

	require.Len(t, keywords, 20)
	assert.Equal(t, "kw", keywords[0])
}

func TestDispatchRequest_WireFormat(t *testing.T) {
	req := NewDispatchRequest(UserPreference{
		UserID:             "42",
		Email:              "user@example.com",
		Role:               "customer",
		Keywords:           []string{"stavba", "silnice"},
		CompanyDescription: "stavební firma",
		ScheduleRaw:        "Středa v 12:00",
	})

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))

	// Field names are consumed downstream exactly as written here.
	assert.Equal(t, map[string]interface{}{
		"user_id":            "42",
		"email":              "user@example.com",
		"keywords":           "stavba, silnice",
		"description":        "stavební firma",
		"role":               "customer",
		"frekvence_zasilani": "Středa v 12:00",
	}, body)
}
