// internal/common/errors/recorder.go
package errors

import "time"

// Recorder normalizes and logs per-record failures inside a batch run. The
// jobs record a failure and carry on; only whole-run failures propagate as
// returned errors.
type Recorder struct {
	job    string
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewRecorder(job string, logger Logger) *Recorder {
	return &Recorder{job: job, logger: logger}
}

// Record normalizes err, logs it against the given subject (a user id, rule
// name or message id) and returns the normalized form.
func (r *Recorder) Record(subject string, err error) *StandardError {
	stdErr := r.normalize(err)
	r.logger.Error("record failed", map[string]interface{}{
		"job":           r.job,
		"subject":       subject,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
	return stdErr
}

// normalize ensures we always have a StandardError.
func (r *Recorder) normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
