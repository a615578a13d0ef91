// internal/search/worker.go

// Package search invokes the downstream search worker Lambda. The worker
// owns the actual tender search and result mailing; this side only fires it.
package search

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
)

// LambdaAPI is the slice of the Lambda client the invoker needs.
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

type WorkerClient struct {
	api         LambdaAPI
	functionARN string
	logger      logger.Logger
}

func NewWorkerClient(api LambdaAPI, functionARN string, log logger.Logger) *WorkerClient {
	return &WorkerClient{
		api:         api,
		functionARN: functionARN,
		logger:      log,
	}
}

// InvokeAsync fires the search worker for one user and returns without
// waiting for the search to finish.
func (w *WorkerClient) InvokeAsync(ctx context.Context, userID string) error {
	payload, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return errors.NewWorkerInvokeFailedError(userID, err)
	}

	out, err := w.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(w.functionARN),
		InvocationType: lambdatypes.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return errors.NewWorkerInvokeFailedError(userID, err)
	}

	w.logger.Debug("Search worker invoked", map[string]interface{}{
		"userId":     userID,
		"statusCode": out.StatusCode,
	})

	return nil
}
