// internal/schedule/evaluate.go
package schedule

import "time"

// Matches reports whether any slot is due at t. Matching is hour-granular:
// any minute inside the matching hour counts as due, so the caller must not
// evaluate more than once per hour or the same slot fires twice.
func (s Spec) Matches(t time.Time) bool {
	day := FromTime(t.Weekday())
	hour := t.Hour()
	for _, slot := range s {
		if slot.Hour != hour {
			continue
		}
		if slot.Daily || slot.Day == day {
			return true
		}
	}
	return false
}
