// internal/jobs/rulesync/handler.go
package rulesync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/common/metrics"
	"tender-scheduler/internal/models"
	"tender-scheduler/internal/rules"
	"tender-scheduler/internal/schedule"
)

const (
	JobName = "rule-rebuild"
)

// PreferenceStore is the slice of the store the rebuild needs.
type PreferenceStore interface {
	Scan(ctx context.Context) ([]models.UserPreference, error)
}

// RuleService manages the external trigger rules.
type RuleService interface {
	ListRules(ctx context.Context) ([]models.ScheduleRule, error)
	DeleteRuleWithTargets(ctx context.Context, name string) error
	CreateRule(ctx context.Context, rule models.ScheduleRule) error
}

// LeaseStore guards the rebuild so two instances never interleave their
// delete and create phases.
type LeaseStore interface {
	AcquireLease(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLease(ctx context.Context, key, token string) error
}

type Handler struct {
	config   *Config
	store    PreferenceStore
	rules    RuleService
	lease    LeaseStore
	recorder *errors.Recorder
	logger   logger.Logger
}

func NewHandler(config *Config, store PreferenceStore, ruleService RuleService, lease LeaseStore, log logger.Logger) *Handler {
	if config.LockTTL <= 0 {
		config.LockTTL = 5 * time.Minute
	}

	return &Handler{
		config:   config,
		store:    store,
		rules:    ruleService,
		lease:    lease,
		recorder: errors.NewRecorder(JobName, log),
		logger:   log.WithFields(map[string]interface{}{"job": JobName}),
	}
}

// Run rebuilds the full trigger rule set from current preferences: delete
// every unprotected rule (targets first), then create one rule per
// (user, schedule entry) pair. The whole rebuild holds a lease so
// overlapping runs cannot corrupt the rule set. Per-rule failures are
// recorded and skipped; a failed list or scan aborts the run.
func (h *Handler) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	log := h.logger.WithFields(map[string]interface{}{"runId": runID})

	token, acquired, err := h.lease.AcquireLease(ctx, h.config.LockKey, h.config.LockTTL)
	if err != nil {
		return nil, h.recorder.Record("rebuild lease", err)
	}
	if !acquired {
		return nil, h.recorder.Record("rebuild lease", errors.NewRebuildInFlightError(h.config.LockKey))
	}
	defer func() {
		if err := h.lease.ReleaseLease(ctx, h.config.LockKey, token); err != nil {
			log.Warn("rebuild lease release failed, waiting out the TTL", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	log.Info("rule rebuild started", nil)

	existing, err := h.rules.ListRules(ctx)
	if err != nil {
		return nil, h.recorder.Record("rule listing", err)
	}

	result := &Result{}

	for _, rule := range existing {
		if rule.IsProtected(h.config.ProtectedMarker) {
			result.RulesKept++
			continue
		}

		if err := h.rules.DeleteRuleWithTargets(ctx, rule.Name); err != nil {
			h.recorder.Record(rule.Name, err)
			metrics.RecordsProcessed.WithLabelValues(JobName, "delete_failed").Inc()
			result.Failed++
			continue
		}
		result.RulesDeleted++
	}

	records, err := h.store.Scan(ctx)
	if err != nil {
		return nil, h.recorder.Record("preference scan", err)
	}

	for _, record := range records {
		entries := schedule.Entries(record.ScheduleRaw)
		if len(entries) == 0 {
			continue
		}
		result.UsersProjected++

		input, err := json.Marshal(map[string]string{"user_id": record.UserID})
		if err != nil {
			h.recorder.Record(record.UserID, err)
			result.Failed++
			continue
		}

		// Duplicate entries hash to the same rule name; create each once.
		seen := map[string]bool{}

		for _, entry := range entries {
			name := rules.RuleName(record.UserID, entry)
			if seen[name] {
				continue
			}
			seen[name] = true

			if _, ok := schedule.ParseEntry(entry, h.config.DailyHour); !ok {
				metrics.ScheduleParseFallbacks.WithLabelValues("unknown_day").Inc()
				log.Warn("schedule entry has an unknown day, using catch-all cron", map[string]interface{}{
					"userId": record.UserID,
					"entry":  entry,
				})
			}

			rule := models.ScheduleRule{
				Name:           name,
				CronExpression: schedule.CronExpression(entry, h.config.DailyHour),
				Enabled:        true,
				TargetARN:      h.config.SearchWorkerARN,
				TargetID:       rules.TargetID(record.UserID),
				InputJSON:      string(input),
			}

			if err := h.rules.CreateRule(ctx, rule); err != nil {
				h.recorder.Record(name, err)
				metrics.RecordsProcessed.WithLabelValues(JobName, "create_failed").Inc()
				result.Failed++
				continue
			}

			metrics.RecordsProcessed.WithLabelValues(JobName, "created").Inc()
			result.RulesCreated++
		}
	}

	log.Info("rule rebuild finished", map[string]interface{}{
		"rulesDeleted":   result.RulesDeleted,
		"rulesKept":      result.RulesKept,
		"usersProjected": result.UsersProjected,
		"rulesCreated":   result.RulesCreated,
		"failed":         result.Failed,
	})

	return result, nil
}
