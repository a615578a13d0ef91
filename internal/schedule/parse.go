// internal/schedule/parse.go
package schedule

import (
	"strconv"
	"strings"
)

const (
	// Both markers mean "run every day". The intake form has emitted each
	// of them over time; the grammar accepts either everywhere.
	markerOnceDaily = "Jednou denně"
	markerEveryDay  = "Každý den"

	entrySeparator = ", "
	timeSeparator  = " v "
)

// Entries splits a raw schedule string into its entry tokens. Blank tokens
// are dropped; nothing is trimmed beyond that, the day-name lookup is exact.
func Entries(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, entrySeparator)
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		entries = append(entries, p)
	}
	return entries
}

// IsDaily reports whether the entry carries one of the every-day markers.
func IsDaily(entry string) bool {
	return strings.Contains(entry, markerOnceDaily) || strings.Contains(entry, markerEveryDay)
}

// ParseEntry classifies a single entry. dailyHour is the hour assigned to
// every-day entries; the sweep and the rule rebuild run their daily work at
// different fixed hours, so the hour belongs to the caller. ok is false when
// the entry fits no known form.
//
// A known day with a malformed or out-of-range time keeps the day but gets
// HourNone: it can never become due, yet the rule rebuild still projects a
// trigger for the day.
func ParseEntry(entry string, dailyHour int) (Slot, bool) {
	if IsDaily(entry) {
		return Slot{Daily: true, Hour: dailyHour}, true
	}

	dayPart, timePart, hasTime := strings.Cut(entry, timeSeparator)
	day, known := dayNames[dayPart]
	if !known {
		return Slot{}, false
	}
	if !hasTime {
		return Slot{Day: day, Hour: HourNone}, true
	}

	hourPart, _, _ := strings.Cut(timePart, ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return Slot{Day: day, Hour: HourNone}, true
	}
	return Slot{Day: day, Hour: hour}, true
}

// Parse maps a schedule string onto the slots it names. Entries that fit no
// known form are dropped: they can never become due. The rule rebuild keeps
// its own catch-all fallback for them, see CronExpression.
func Parse(raw string, dailyHour int) Spec {
	var spec Spec
	for _, entry := range Entries(raw) {
		if slot, ok := ParseEntry(entry, dailyHour); ok {
			spec = append(spec, slot)
		}
	}
	return spec
}
