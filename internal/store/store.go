// internal/store/store.go

// Package store reads and deletes user preference records in DynamoDB.
// The table is owned by the preference intake flow; this side only ever
// scans and deletes whole records.
package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/models"
)

// DynamoAPI is the slice of the DynamoDB client the store needs.
type DynamoAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type Store struct {
	client    DynamoAPI
	tableName string
	logger    logger.Logger
}

func New(client DynamoAPI, tableName string, log logger.Logger) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    log,
	}
}

// Scan returns every preference record in the table. Records without a
// user_id or that fail to unmarshal are skipped with a warning; a failed
// page aborts the whole scan.
func (s *Store) Scan(ctx context.Context) ([]models.UserPreference, error) {
	var records []models.UserPreference

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.NewScanFailedError(err)
		}

		for _, item := range page.Items {
			var parsed preferenceItem
			if err := attributevalue.UnmarshalMap(item, &parsed); err != nil {
				s.logger.Warn("Skipping preference record that failed to unmarshal", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}

			if parsed.UserID == "" {
				s.logger.Warn("Skipping preference record without user_id", nil)
				continue
			}

			records = append(records, parsed.toModel())
		}
	}

	return records, nil
}

// ListUserIDs returns the user_id of every record in the table without
// loading full preference payloads.
func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:            aws.String(s.tableName),
		ProjectionExpression: aws.String("user_id"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.NewScanFailedError(err)
		}

		for _, item := range page.Items {
			var parsed struct {
				UserID string `dynamodbav:"user_id"`
			}
			if err := attributevalue.UnmarshalMap(item, &parsed); err != nil || parsed.UserID == "" {
				continue
			}
			ids = append(ids, parsed.UserID)
		}
	}

	return ids, nil
}

// Delete removes a user's preference record.
func (s *Store) Delete(ctx context.Context, userID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return errors.NewPreferenceDeleteFailedError(userID, err)
	}

	s.logger.Info("Deleted preference record", map[string]interface{}{
		"userId": userID,
	})

	return nil
}
