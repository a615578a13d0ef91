// internal/jobs/sweep/handler.go
package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/common/metrics"
	"tender-scheduler/internal/models"
	"tender-scheduler/internal/schedule"
)

const (
	JobName = "scheduler-sweep"
)

// PreferenceStore is the slice of the store the sweep needs.
type PreferenceStore interface {
	Scan(ctx context.Context) ([]models.UserPreference, error)
}

// Dispatcher enqueues one dispatch request per due user.
type Dispatcher interface {
	Enqueue(ctx context.Context, req models.DispatchRequest) error
}

type Handler struct {
	config   *Config
	store    PreferenceStore
	queue    Dispatcher
	recorder *errors.Recorder
	logger   logger.Logger
}

func NewHandler(config *Config, store PreferenceStore, queue Dispatcher, log logger.Logger) *Handler {
	if config.Concurrency <= 0 {
		config.Concurrency = 8
	}
	if config.RecordTimeout <= 0 {
		config.RecordTimeout = 10 * time.Second
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	return &Handler{
		config:   config,
		store:    store,
		queue:    queue,
		recorder: errors.NewRecorder(JobName, log),
		logger:   log.WithFields(map[string]interface{}{"job": JobName}),
	}
}

// Run performs one full pass: scan every preference record, evaluate its
// schedule against the current local hour, and enqueue a dispatch request
// for each due user. A scan failure aborts the run; a per-record enqueue
// failure is recorded and skipped so one bad user cannot block the rest.
func (h *Handler) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	now := h.config.Clock().In(schedule.Location(h.config.UTCOffsetHours))

	log := h.logger.WithFields(map[string]interface{}{"runId": runID})
	log.Info("sweep started", map[string]interface{}{
		"localTime": now.Format(time.RFC3339),
	})

	records, err := h.store.Scan(ctx)
	if err != nil {
		return nil, h.recorder.Record("preference scan", err)
	}

	result := &Result{Scanned: len(records)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.config.Concurrency)

	for _, record := range records {
		record := record

		spec := schedule.Parse(record.ScheduleRaw, h.config.DailyHour)
		if !spec.Matches(now) {
			continue
		}
		result.Due++

		// Enqueue failures are recorded per user, never returned, so the
		// pool only bounds concurrency and Wait cannot fail.
		g.Go(func() error {
			recordCtx, cancel := context.WithTimeout(gctx, h.config.RecordTimeout)
			defer cancel()

			if err := h.queue.Enqueue(recordCtx, models.NewDispatchRequest(record)); err != nil {
				h.recorder.Record(record.UserID, err)
				metrics.RecordsProcessed.WithLabelValues(JobName, "failed").Inc()
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return nil
			}

			metrics.RecordsProcessed.WithLabelValues(JobName, "dispatched").Inc()
			mu.Lock()
			result.Dispatched++
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	log.Info("sweep finished", map[string]interface{}{
		"scanned":    result.Scanned,
		"due":        result.Due,
		"dispatched": result.Dispatched,
		"failed":     result.Failed,
	})

	return result, nil
}
