// internal/jobs/reconcile/handler.go
package reconcile

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/common/metrics"
	"tender-scheduler/internal/roleauthority"
)

const (
	JobName = "preference-reconcile"
)

// PreferenceStore is the slice of the store the sweeper needs.
type PreferenceStore interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, userID string) error
}

// RoleAuthority answers who still holds which roles.
type RoleAuthority interface {
	GetUserRoles(ctx context.Context, userID string) ([]string, error)
}

type Handler struct {
	config    *Config
	store     PreferenceStore
	authority RoleAuthority
	recorder  *errors.Recorder
	logger    logger.Logger
}

func NewHandler(config *Config, store PreferenceStore, authority RoleAuthority, log logger.Logger) *Handler {
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.RecordTimeout <= 0 {
		config.RecordTimeout = 10 * time.Second
	}
	if len(config.AuthorizedRoles) == 0 {
		config.AuthorizedRoles = []string{"customer", "administrator"}
	}

	return &Handler{
		config:    config,
		store:     store,
		authority: authority,
		recorder:  errors.NewRecorder(JobName, log),
		logger:    log.WithFields(map[string]interface{}{"job": JobName}),
	}
}

// Run checks every stored user against the role authority and deletes the
// preference record of anyone the authority no longer knows or no longer
// grants an authorized role. Any ambiguous lookup failure leaves the user
// untouched; deleting on a flaky answer is worse than keeping a stale row
// one more day.
func (h *Handler) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	log := h.logger.WithFields(map[string]interface{}{"runId": runID})

	ids, err := h.store.ListUserIDs(ctx)
	if err != nil {
		return nil, h.recorder.Record("user listing", err)
	}

	log.Info("reconcile started", map[string]interface{}{
		"users": len(ids),
	})

	result := &Result{Checked: len(ids)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.config.Concurrency)

	for _, userID := range ids {
		userID := userID

		g.Go(func() error {
			recordCtx, cancel := context.WithTimeout(gctx, h.config.RecordTimeout)
			defer cancel()

			outcome := h.reconcileUser(recordCtx, log, userID)
			metrics.RecordsProcessed.WithLabelValues(JobName, outcome).Inc()

			mu.Lock()
			switch outcome {
			case "retained":
				result.Retained++
			case "deleted":
				result.Deleted++
			default:
				result.Failed++
			}
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	log.Info("reconcile finished", map[string]interface{}{
		"checked":  result.Checked,
		"retained": result.Retained,
		"deleted":  result.Deleted,
		"failed":   result.Failed,
	})

	return result, nil
}

func (h *Handler) reconcileUser(ctx context.Context, log logger.Logger, userID string) string {
	roles, err := h.authority.GetUserRoles(ctx, userID)

	reason := ""
	switch {
	case stderrors.Is(err, roleauthority.ErrUserNotFound):
		reason = "not_found"
	case err != nil:
		h.recorder.Record(userID, errors.NewRoleLookupFailedError(userID, err))
		return "failed"
	case !roleauthority.HasAuthorizedRole(roles, h.config.AuthorizedRoles):
		reason = "no_authorized_role"
	default:
		return "retained"
	}

	if err := h.store.Delete(ctx, userID); err != nil {
		h.recorder.Record(userID, err)
		return "failed"
	}

	log.Info("deleted orphaned preference", map[string]interface{}{
		"userId": userID,
		"reason": reason,
	})
	return "deleted"
}
