// internal/jobs/reconcile/config.go
package reconcile

import "time"

type Config struct {
	// AuthorizedRoles keeps a user's preference record alive. A user whose
	// roles intersect this set is never touched.
	AuthorizedRoles []string

	Concurrency   int
	RecordTimeout time.Duration
}
