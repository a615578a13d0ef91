// internal/queue/queue.go

// Package queue wraps the SQS dispatch queue between the scheduler sweep
// and the search worker invoker.
package queue

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/models"
)

// SQSAPI is the slice of the SQS client the queue needs.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Message is one received dispatch request, still owned by the queue
// until Delete is called with its receipt handle.
type Message struct {
	ID            string
	Body          string
	ReceiptHandle string
}

type DispatchQueue struct {
	client      SQSAPI
	queueURL    string
	waitTime    int32
	maxMessages int32
	logger      logger.Logger
}

func New(client SQSAPI, queueURL string, waitTimeSeconds, maxMessages int, log logger.Logger) *DispatchQueue {
	return &DispatchQueue{
		client:      client,
		queueURL:    queueURL,
		waitTime:    int32(waitTimeSeconds),
		maxMessages: int32(maxMessages),
		logger:      log,
	}
}

// Enqueue sends one dispatch request. The body keeps the downstream field
// names verbatim.
func (q *DispatchQueue) Enqueue(ctx context.Context, req models.DispatchRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return errors.NewDispatchFailedError(req.UserID, err)
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return errors.NewDispatchFailedError(req.UserID, err)
	}

	q.logger.Debug("Dispatch request enqueued", map[string]interface{}{
		"userId":    req.UserID,
		"messageId": aws.ToString(out.MessageId),
	})

	return nil
}

// Receive long-polls the queue for up to the configured batch size.
// An empty slice with a nil error means the poll simply timed out.
func (q *DispatchQueue) Receive(ctx context.Context) ([]Message, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: q.maxMessages,
		WaitTimeSeconds:     q.waitTime,
	})
	if err != nil {
		return nil, errors.NewQueueReceiveFailedError(err)
	}

	messages := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, Message{
			ID:            aws.ToString(m.MessageId),
			Body:          aws.ToString(m.Body),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
		})
	}

	return messages, nil
}

// Delete acknowledges a message so it is not redelivered.
func (q *DispatchQueue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	return err
}
