// internal/schedule/cron_test.go
package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCronExpression_DayTable(t *testing.T) {
	tests := []struct {
		day      string
		expected string
	}{
		{day: "Pondělí", expected: "cron(00 10 ? * 2 *)"},
		{day: "Úterý", expected: "cron(00 10 ? * 3 *)"},
		{day: "Středa", expected: "cron(00 10 ? * 4 *)"},
		{day: "Čtvrtek", expected: "cron(00 10 ? * 5 *)"},
		{day: "Pátek", expected: "cron(00 10 ? * 6 *)"},
		{day: "Sobota", expected: "cron(00 10 ? * 7 *)"},
		{day: "Neděle", expected: "cron(00 10 ? * 1 *)"},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			assert.Equal(t, tt.expected, CronExpression(tt.day, 10))
		})
	}
}

func TestCronExpression(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		hour     int
		expected string
	}{
		{
			name:     "once daily marker",
			entry:    "Jednou denně",
			hour:     10,
			expected: "cron(00 10 * * ? *)",
		},
		{
			name:     "every day marker",
			entry:    "Každý den",
			hour:     10,
			expected: "cron(00 10 * * ? *)",
		},
		{
			name:     "entry time is ignored in favor of the fixed hour",
			entry:    "Pondělí v 18:00",
			hour:     10,
			expected: "cron(00 10 ? * 2 *)",
		},
		{
			name:     "unknown day falls back to every day",
			entry:    "Monday v 10:00",
			hour:     10,
			expected: "cron(00 10 ? * * *)",
		},
		{
			name:     "single digit hour is zero padded",
			entry:    "Jednou denně",
			hour:     9,
			expected: "cron(00 09 * * ? *)",
		},
		{
			name:     "bare day name",
			entry:    "Neděle",
			hour:     10,
			expected: "cron(00 10 ? * 1 *)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CronExpression(tt.entry, tt.hour))
		})
	}
}
