// internal/schedule/schedule.go
package schedule

import (
	"fmt"
	"time"
)

// Weekday numbers the days Monday through Sunday, the order the preference
// strings use. time.Weekday counts from Sunday, so convert via FromTime
// before comparing.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// HourNone marks a slot whose entry named a day but no usable time.
const HourNone = -1

// dayNames resolves the Czech day tokens used in schedule strings.
// Lookup is case-sensitive: the intake form emits these exact forms.
var dayNames = map[string]Weekday{
	"Pondělí": Monday,
	"Úterý":   Tuesday,
	"Středa":  Wednesday,
	"Čtvrtek": Thursday,
	"Pátek":   Friday,
	"Sobota":  Saturday,
	"Neděle":  Sunday,
}

var weekdayLabels = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayLabels[d]
}

// FromTime converts a time.Weekday (Sunday = 0) to the Monday-first numbering.
func FromTime(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % 7)
}

// Slot is one parsed schedule entry.
type Slot struct {
	// Daily marks entries carrying an every-day marker; Day is meaningless
	// for those.
	Daily bool
	Day   Weekday
	// Hour is the matching hour, or HourNone when the entry named no
	// parseable time. Minutes never participate in matching.
	Hour int
}

// Spec is the parsed form of one schedule string. Duplicate slots are kept
// as-is; evaluation is a boolean OR so they are harmless.
type Spec []Slot

// Location returns the fixed evaluation zone. Schedules are written in local
// wall-clock terms and evaluated at a single fixed offset; there is no
// per-user timezone.
func Location(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}
