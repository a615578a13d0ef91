// internal/jobs/rulesync/config.go
package rulesync

import "time"

type Config struct {
	// DailyHour is the hour every projected rule fires at. The rule path
	// always uses this fixed hour; the time inside a schedule entry only
	// picks the weekday.
	DailyHour int

	// SearchWorkerARN is the Lambda every rule targets.
	SearchWorkerARN string

	// ProtectedMarker guards rules whose name contains it from deletion.
	ProtectedMarker string

	LockKey string
	LockTTL time.Duration
}
