// internal/jobs/invoke/config.go
package invoke

import "time"

type Config struct {
	RecordTimeout time.Duration

	// ErrorPause backs the consume loop off after a receive failure so a
	// broken queue does not spin the process hot.
	ErrorPause time.Duration
}
