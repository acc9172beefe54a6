package store

import (
	"context"
	"fmt"

	"upload-pipeline/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StatusStore keeps lifecycle records in a DynamoDB table with fileId as the
// partition key and timestamp as the sort key. Writes append; reads take the
// newest row. The expiry attribute drives the table's TTL sweep.
type StatusStore struct {
	db        *dynamodb.Client
	tableName string
}

func NewStatusStore(cfg aws.Config, tableName string) *StatusStore {
	return &StatusStore{
		db:        dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}
}

// Put appends one lifecycle record. It never overwrites: every record carries
// a fresh timestamp, so duplicate pipeline runs just add rows the latest-wins
// read absorbs.
func (s *StatusStore) Put(ctx context.Context, rec models.LifecycleRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record for %s: %w", rec.FileID, err)
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put record for %s: %w", rec.FileID, err)
	}
	return nil
}

// Latest returns the most recent record for fileID, or a synthetic UNKNOWN
// record when none exists. Absence is not an error; only store-level faults
// are.
func (s *StatusStore) Latest(ctx context.Context, fileID string) (models.LifecycleRecord, error) {
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("fileId = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":f": &types.AttributeValueMemberS{Value: fileID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return models.LifecycleRecord{}, fmt.Errorf("query status for %s: %w", fileID, err)
	}

	if len(out.Items) == 0 {
		return models.Unknown(), nil
	}

	var rec models.LifecycleRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return models.LifecycleRecord{}, fmt.Errorf("unmarshal status for %s: %w", fileID, err)
	}
	return rec, nil
}
