// internal/jobs/invoke/handler.go
package invoke

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/common/metrics"
	"tender-scheduler/internal/queue"
)

const (
	JobName = "queue-consumer"
)

// messageSchema gates what the invoker accepts off the queue. Only
// user_id is load-bearing; the other fields ride along for the worker.
const messageSchema = `{
	"type": "object",
	"required": ["user_id"],
	"properties": {
		"user_id": {"type": "string", "minLength": 1},
		"email": {"type": "string"},
		"keywords": {"type": "string"},
		"description": {"type": "string"},
		"role": {"type": "string"},
		"frekvence_zasilani": {"type": "string"}
	}
}`

// MessageSource is the slice of the dispatch queue the consumer needs.
type MessageSource interface {
	Receive(ctx context.Context) ([]queue.Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// WorkerInvoker fires the search worker for one user.
type WorkerInvoker interface {
	InvokeAsync(ctx context.Context, userID string) error
}

type Handler struct {
	config   *Config
	queue    MessageSource
	worker   WorkerInvoker
	schema   *gojsonschema.Schema
	recorder *errors.Recorder
	logger   logger.Logger
}

func NewHandler(config *Config, source MessageSource, worker WorkerInvoker, log logger.Logger) (*Handler, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(messageSchema))
	if err != nil {
		return nil, fmt.Errorf("compile message schema: %w", err)
	}

	if config.RecordTimeout <= 0 {
		config.RecordTimeout = 15 * time.Second
	}
	if config.ErrorPause <= 0 {
		config.ErrorPause = 5 * time.Second
	}

	return &Handler{
		config:   config,
		queue:    source,
		worker:   worker,
		schema:   schema,
		recorder: errors.NewRecorder(JobName, log),
		logger:   log.WithFields(map[string]interface{}{"job": JobName}),
	}, nil
}

// RunOnce pulls one batch and processes each message independently. A
// receive failure is the only error surfaced to the caller.
func (h *Handler) RunOnce(ctx context.Context) (*Result, error) {
	messages, err := h.queue.Receive(ctx)
	if err != nil {
		return nil, h.recorder.Record("queue receive", err)
	}

	result := &Result{Received: len(messages)}

	metrics.QueueDepthObserved.WithLabelValues("dispatch").Set(float64(len(messages)))
	defer metrics.QueueDepthObserved.WithLabelValues("dispatch").Set(0)

	for _, msg := range messages {
		h.handleMessage(ctx, msg, result)
	}

	return result, nil
}

// Consume drains the queue until the context is cancelled.
func (h *Handler) Consume(ctx context.Context) error {
	h.logger.Info("consumer started", nil)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("consumer stopped", nil)
			return ctx.Err()
		default:
		}

		result, err := h.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				h.logger.Info("consumer stopped", nil)
				return ctx.Err()
			}

			select {
			case <-time.After(h.config.ErrorPause):
			case <-ctx.Done():
				h.logger.Info("consumer stopped", nil)
				return ctx.Err()
			}
			continue
		}

		if result.Received > 0 {
			h.logger.Debug("batch processed", map[string]interface{}{
				"received": result.Received,
				"invoked":  result.Invoked,
				"poisoned": result.Poisoned,
				"failed":   result.Failed,
			})
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg queue.Message, result *Result) {
	recordCtx, cancel := context.WithTimeout(ctx, h.config.RecordTimeout)
	defer cancel()

	input, err := h.parseMessage(msg.Body)
	if err != nil {
		// A poison message is acknowledged and dropped; redelivering it
		// would fail identically forever.
		h.recorder.Record(msg.ID, errors.NewMessageInvalidError(err.Error()))
		metrics.RecordsProcessed.WithLabelValues(JobName, "poisoned").Inc()
		result.Poisoned++

		if err := h.queue.Delete(recordCtx, msg.ReceiptHandle); err != nil {
			h.logger.Warn("failed to drop poison message", map[string]interface{}{
				"messageId": msg.ID,
				"error":     err.Error(),
			})
		}
		return
	}

	if err := h.worker.InvokeAsync(recordCtx, input.UserID); err != nil {
		// Leave the message on the queue for redelivery.
		h.recorder.Record(input.UserID, err)
		metrics.RecordsProcessed.WithLabelValues(JobName, "failed").Inc()
		result.Failed++
		return
	}

	metrics.RecordsProcessed.WithLabelValues(JobName, "invoked").Inc()
	result.Invoked++

	if err := h.queue.Delete(recordCtx, msg.ReceiptHandle); err != nil {
		// The worker already fired. Redelivery will double-invoke, which
		// the downstream search tolerates.
		h.logger.Warn("failed to delete message after invoke", map[string]interface{}{
			"messageId": msg.ID,
			"userId":    input.UserID,
			"error":     err.Error(),
		})
	}
}

func (h *Handler) parseMessage(body string) (*Input, error) {
	validation, err := h.schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return nil, fmt.Errorf("message is not valid JSON: %w", err)
	}

	if !validation.Valid() {
		errs := make([]string, len(validation.Errors()))
		for i, desc := range validation.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("message failed validation: %v", errs)
	}

	var input Input
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		return nil, fmt.Errorf("message decode failed: %w", err)
	}

	return &input, nil
}
