// internal/queue/queue_test.go
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeSQS struct {
	sendErr    error
	sentBodies []string

	receiveErr   error
	messages     []sqstypes.Message
	lastReceive  *sqs.ReceiveMessageInput
	deleteErr    error
	deletedHands []string
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentBodies = append(f.sentBodies, aws.ToString(params.MessageBody))
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.lastReceive = params
	if f.receiveErr != nil {
		return nil, f.receiveErr
	}
	return &sqs.ReceiveMessageOutput{Messages: f.messages}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deletedHands = append(f.deletedHands, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func createTestQueue(fake *fakeSQS) *DispatchQueue {
	return New(fake, "https://sqs.example/queue", 20, 10, logger.NewNoOpLogger())
}

// ==========================
// Enqueue
// ==========================

func TestEnqueue_SerializesWireFormat(t *testing.T) {
	fake := &fakeSQS{}
	q := createTestQueue(fake)

	req := models.DispatchRequest{
		UserID:      "user-1",
		Email:       "user-1@example.cz",
		Keywords:    "silnice, mosty",
		Description: "Stavební firma",
		Role:        "customer",
		ScheduleRaw: "Středa v 12:00",
	}

	require.NoError(t, q.Enqueue(context.Background(), req))
	require.Len(t, fake.sentBodies, 1)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(fake.sentBodies[0]), &body))

	assert.Equal(t, map[string]string{
		"user_id":            "user-1",
		"email":              "user-1@example.cz",
		"keywords":           "silnice, mosty",
		"description":        "Stavební firma",
		"role":               "customer",
		"frekvence_zasilani": "Středa v 12:00",
	}, body)
}

func TestEnqueue_SendFailure(t *testing.T) {
	fake := &fakeSQS{sendErr: fmt.Errorf("queue unavailable")}
	q := createTestQueue(fake)

	err := q.Enqueue(context.Background(), models.DispatchRequest{UserID: "user-1"})
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeDispatchFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

// ==========================
// Receive / Delete
// ==========================

func TestReceive_ReturnsMessages(t *testing.T) {
	fake := &fakeSQS{
		messages: []sqstypes.Message{
			{
				MessageId:     aws.String("msg-1"),
				Body:          aws.String(`{"user_id":"user-1"}`),
				ReceiptHandle: aws.String("handle-1"),
			},
		},
	}
	q := createTestQueue(fake)

	messages, err := q.Receive(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "msg-1", messages[0].ID)
	assert.Equal(t, `{"user_id":"user-1"}`, messages[0].Body)
	assert.Equal(t, "handle-1", messages[0].ReceiptHandle)

	assert.Equal(t, int32(20), fake.lastReceive.WaitTimeSeconds)
	assert.Equal(t, int32(10), fake.lastReceive.MaxNumberOfMessages)
}

func TestReceive_EmptyPoll(t *testing.T) {
	q := createTestQueue(&fakeSQS{})

	messages, err := q.Receive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestReceive_Failure(t *testing.T) {
	fake := &fakeSQS{receiveErr: fmt.Errorf("connection reset")}
	q := createTestQueue(fake)

	_, err := q.Receive(context.Background())
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeQueueReceiveFailed, stdErr.Code)
}

func TestDelete_AcknowledgesMessage(t *testing.T) {
	fake := &fakeSQS{}
	q := createTestQueue(fake)

	require.NoError(t, q.Delete(context.Background(), "handle-1"))
	assert.Equal(t, []string{"handle-1"}, fake.deletedHands)
}
