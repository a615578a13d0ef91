// internal/alert/notifier.go

// Package alert publishes job failure notifications to an SNS topic so
// operators hear about broken runs without scraping logs.
package alert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"tender-scheduler/internal/common/logger"
)

// Publisher is satisfied by the shared SNS client wrapper.
type Publisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Notifier struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
}

// NewNotifier builds a notifier for topicARN. With an empty topic or nil
// publisher the notifier stays quiet, so callers never have to branch on
// whether alerting is configured.
func NewNotifier(publisher Publisher, topicARN string, log logger.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		topicARN:  topicARN,
		logger:    log,
	}
}

type failurePayload struct {
	Job       string `json:"job"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// RunFailed publishes a failure notification for one job run. Publish
// errors are logged and swallowed; alerting must never break the job
// that raised it.
func (n *Notifier) RunFailed(ctx context.Context, job string, runErr error) {
	if n == nil || n.publisher == nil || n.topicARN == "" {
		return
	}

	payload, err := json.Marshal(failurePayload{
		Job:       job,
		Error:     runErr.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	_, err = n.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String("Scheduler job failed: " + job),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		n.logger.Error("Failed to publish job failure alert", map[string]interface{}{
			"job":   job,
			"error": err.Error(),
		})
	}
}
