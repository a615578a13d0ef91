// internal/schedule/cron.go
package schedule

import (
	"fmt"
	"strings"
)

// The trigger service's cron grammar numbers days Sunday = 1 through
// Saturday = 7.
var cronDay = map[Weekday]int{
	Monday:    2,
	Tuesday:   3,
	Wednesday: 4,
	Thursday:  5,
	Friday:    6,
	Saturday:  7,
	Sunday:    1,
}

// CronExpression projects one schedule entry onto the trigger service's cron
// grammar. Every projected trigger fires at dailyHour, even when the entry
// names its own time; only the sweep honors per-entry times. Entries naming
// an unknown day fall back to firing every day.
func CronExpression(entry string, dailyHour int) string {
	if IsDaily(entry) {
		return fmt.Sprintf("cron(00 %02d * * ? *)", dailyHour)
	}
	dayPart, _, _ := strings.Cut(entry, timeSeparator)
	if day, known := dayNames[dayPart]; known {
		return fmt.Sprintf("cron(00 %02d ? * %d *)", dailyHour, cronDay[day])
	}
	return fmt.Sprintf("cron(00 %02d ? * * *)", dailyHour)
}
