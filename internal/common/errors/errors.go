// Package errors provides standardized error handling for the scheduling jobs.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Preference store errors.
	ErrCodeScanFailed             ErrorCode = "SCAN_FAILED"
	ErrCodePreferenceDeleteFailed ErrorCode = "PREFERENCE_DELETE_FAILED"

	// Dispatch queue errors.
	ErrCodeDispatchFailed     ErrorCode = "DISPATCH_FAILED"
	ErrCodeQueueReceiveFailed ErrorCode = "QUEUE_RECEIVE_FAILED"
	ErrCodeMessageInvalid     ErrorCode = "MESSAGE_INVALID"

	// Trigger rule errors.
	ErrCodeRuleListFailed    ErrorCode = "RULE_LIST_FAILED"
	ErrCodeRuleCleanupFailed ErrorCode = "RULE_CLEANUP_FAILED"
	ErrCodeRuleCreateFailed  ErrorCode = "RULE_CREATE_FAILED"
	ErrCodeRebuildInFlight   ErrorCode = "REBUILD_IN_FLIGHT"

	// Role authority errors.
	ErrCodeRoleLookupFailed ErrorCode = "ROLE_LOOKUP_FAILED"

	// Search worker errors.
	ErrCodeWorkerInvokeFailed ErrorCode = "WORKER_INVOKE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewScanFailedError creates a retryable store scan error. A failed full
// scan aborts the whole run.
func NewScanFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScanFailed,
		Message:   "Preference store scan failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPreferenceDeleteFailedError creates a retryable per-record delete error.
func NewPreferenceDeleteFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePreferenceDeleteFailed,
		Message:   "Preference record delete failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDispatchFailedError creates a retryable per-record enqueue error.
func NewDispatchFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDispatchFailed,
		Message:   "Dispatch enqueue failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueReceiveFailedError creates a retryable queue receive error.
func NewQueueReceiveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueReceiveFailed,
		Message:   "Dispatch queue receive failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageInvalidError creates a non-retryable poison message error.
// Invalid messages are dropped, never redelivered.
func NewMessageInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageInvalid,
		Message:   "Dispatch message failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRuleListFailedError creates a retryable rule listing error. Listing
// failure aborts a rebuild before any rule is touched.
func NewRuleListFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleListFailed,
		Message:   "Trigger rule listing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRuleCleanupFailedError creates a retryable per-rule deletion error.
// The rule stays in place until the next rebuild.
func NewRuleCleanupFailedError(ruleName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleCleanupFailed,
		Message:   "Trigger rule cleanup failed",
		Details:   fmt.Sprintf("rule: %s, error: %s", ruleName, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRuleCreateFailedError creates a retryable per-rule creation error.
// The user is without a trigger until the next rebuild.
func NewRuleCreateFailedError(ruleName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleCreateFailed,
		Message:   "Trigger rule creation failed",
		Details:   fmt.Sprintf("rule: %s, error: %s", ruleName, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRebuildInFlightError creates a non-retryable error reporting that
// another rebuild holds the lease. The caller skips this run.
func NewRebuildInFlightError(lockKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRebuildInFlight,
		Message:   "Another rule rebuild is in flight",
		Details:   fmt.Sprintf("lockKey: %s", lockKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRoleLookupFailedError creates a retryable role authority error. An
// ambiguous lookup never deletes a record.
func NewRoleLookupFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRoleLookupFailed,
		Message:   "Role authority lookup failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkerInvokeFailedError creates a retryable search worker invocation
// error. The queue's redelivery handles the retry.
func NewWorkerInvokeFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkerInvokeFailed,
		Message:   "Search worker invocation failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryable reports whether err carries a retryable StandardError. Errors
// outside the taxonomy count as non-retryable.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SCAN") || strings.Contains(codeStr, "PREFERENCE"):
		return "STORE"
	case strings.Contains(codeStr, "QUEUE") || strings.Contains(codeStr, "DISPATCH") || strings.Contains(codeStr, "MESSAGE"):
		return "QUEUE"
	case strings.Contains(codeStr, "RULE") || strings.Contains(codeStr, "REBUILD"):
		return "RULES"
	case strings.Contains(codeStr, "ROLE"):
		return "ROLES"
	case strings.Contains(codeStr, "WORKER"):
		return "WORKER"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	default:
		return "OTHER"
	}
}
