// internal/schedule/evaluate_test.go
package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-01-01 was a Monday, so day N of that week is weekday N.
func weekTime(t *testing.T, day Weekday, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2024, time.January, 1+int(day), hour, minute, 0, 0, Location(2))
}

// ==========================
// Weekday Conversion Tests
// ==========================

func TestFromTime(t *testing.T) {
	tests := []struct {
		in       time.Weekday
		expected Weekday
	}{
		{time.Monday, Monday},
		{time.Tuesday, Tuesday},
		{time.Wednesday, Wednesday},
		{time.Thursday, Thursday},
		{time.Friday, Friday},
		{time.Saturday, Saturday},
		{time.Sunday, Sunday},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, FromTime(tt.in))
		})
	}
}

func TestWeekTimeHelper(t *testing.T) {
	for day := Monday; day <= Sunday; day++ {
		assert.Equal(t, day, FromTime(weekTime(t, day, 10, 0).Weekday()))
	}
}

// ==========================
// Daily Slot Tests
// ==========================

func TestMatches_DailyMarker(t *testing.T) {
	spec := Parse("Jednou denně", 12)

	for day := Monday; day <= Sunday; day++ {
		for hour := 0; hour < 24; hour++ {
			now := weekTime(t, day, hour, 0)
			expected := hour == 12
			assert.Equal(t, expected, spec.Matches(now),
				fmt.Sprintf("day %s hour %d", day, hour))
		}
	}
}

func TestMatches_DailyHourFollowsConfiguration(t *testing.T) {
	spec := Parse("Každý den", 10)

	assert.True(t, spec.Matches(weekTime(t, Thursday, 10, 0)))
	assert.False(t, spec.Matches(weekTime(t, Thursday, 12, 0)))
}

// ==========================
// Weekly Slot Tests
// ==========================

func TestMatches_WeeklySlot(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		now      func(t *testing.T) time.Time
		expected bool
	}{
		{
			name:     "matching day and hour",
			raw:      "Středa v 12:00",
			now:      func(t *testing.T) time.Time { return weekTime(t, Wednesday, 12, 0) },
			expected: true,
		},
		{
			name:     "minutes are ignored",
			raw:      "Středa v 12:00",
			now:      func(t *testing.T) time.Time { return weekTime(t, Wednesday, 12, 7) },
			expected: true,
		},
		{
			name:     "wrong hour",
			raw:      "Středa v 12:00",
			now:      func(t *testing.T) time.Time { return weekTime(t, Wednesday, 13, 0) },
			expected: false,
		},
		{
			name:     "wrong day",
			raw:      "Středa v 12:00",
			now:      func(t *testing.T) time.Time { return weekTime(t, Thursday, 12, 0) },
			expected: false,
		},
		{
			name:     "any entry matching is enough",
			raw:      "Pondělí v 09:00, Pátek v 16:00",
			now:      func(t *testing.T) time.Time { return weekTime(t, Friday, 16, 30) },
			expected: true,
		},
		{
			name:     "no entry matching",
			raw:      "Pondělí v 09:00, Pátek v 16:00",
			now:      func(t *testing.T) time.Time { return weekTime(t, Tuesday, 9, 0) },
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Parse(tt.raw, 12)
			assert.Equal(t, tt.expected, spec.Matches(tt.now(t)))
		})
	}
}

func TestMatches_EachWeekdayOnlyOnItsDay(t *testing.T) {
	names := []string{"Pondělí", "Úterý", "Středa", "Čtvrtek", "Pátek", "Sobota", "Neděle"}

	for i, name := range names {
		slotDay := Weekday(i)
		spec := Parse(name+" v 10:00", 12)

		for day := Monday; day <= Sunday; day++ {
			now := weekTime(t, day, 10, 0)
			assert.Equal(t, day == slotDay, spec.Matches(now),
				fmt.Sprintf("slot %s evaluated on %s", name, day))
		}
	}
}

// ==========================
// Fallback Behaviour Tests
// ==========================

func TestMatches_UnparseableEntriesNeverMatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty schedule", raw: ""},
		{name: "unknown day token", raw: "Monday v 10:00"},
		{name: "lowercased day token", raw: "středa v 12:00"},
		{name: "bare day without time", raw: "Středa"},
		{name: "malformed time", raw: "Středa v dvanáct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Parse(tt.raw, 12)
			for day := Monday; day <= Sunday; day++ {
				for hour := 0; hour < 24; hour++ {
					assert.False(t, spec.Matches(weekTime(t, day, hour, 0)))
				}
			}
		})
	}
}

func TestLocation_FixedOffset(t *testing.T) {
	loc := Location(2)

	utc := time.Date(2024, time.January, 3, 10, 7, 0, 0, time.UTC)
	local := utc.In(loc)

	assert.Equal(t, 12, local.Hour())
	assert.Equal(t, time.Wednesday, local.Weekday())
}
