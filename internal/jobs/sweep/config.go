// internal/jobs/sweep/config.go
package sweep

import "time"

type Config struct {
	// DailyHour is the hour a bare daily schedule entry fires at.
	DailyHour      int
	UTCOffsetHours int
	Concurrency    int
	RecordTimeout  time.Duration

	// Clock returns "now" for due-time evaluation. Defaults to time.Now.
	Clock func() time.Time
}
