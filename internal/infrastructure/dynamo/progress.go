package dynamo

import (
	"context"
	"fmt"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProgressRepo provides typed DynamoDB operations for the progress table.
// The sort key "<date>#<type>" makes a day/type pair unique, so re-logging
// the same completion is an idempotent overwrite, and a BETWEEN on the sort
// key covers date-range queries without an extra index.
type ProgressRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewProgressRepo(client *dynamodb.Client, tableName string) *ProgressRepo {
	return &ProgressRepo{client: client, tableName: tableName}
}

func (r *ProgressRepo) Put(ctx context.Context, e *domain.ProgressEntry) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal progress entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListRange returns the user's entries with from <= date <= to, oldest
// first. Dates are YYYY-MM-DD, so the lexicographic BETWEEN is a date
// comparison; the "#" suffix bounds cover both types on the edge days.
func (r *ProgressRepo) ListRange(ctx context.Context, userID, from, to string) ([]domain.ProgressEntry, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid AND entry_key BETWEEN :lo AND :hi"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":lo":  &types.AttributeValueMemberS{Value: from + "#"},
			":hi":  &types.AttributeValueMemberS{Value: to + "#~"},
		},
	})
	if err != nil {
		return nil, err
	}
	var entries []domain.ProgressEntry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByType counts the user's entries of one completion type across the
// whole table partition. Used for badge milestones.
func (r *ProgressRepo) CountByType(ctx context.Context, userID, progressType string) (int, error) {
	count := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                aws.String(r.tableName),
			KeyConditionExpression:   aws.String("user_id = :uid"),
			FilterExpression:         aws.String("#t = :pt"),
			ExpressionAttributeNames: map[string]string{"#t": "type"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
				":pt":  &types.AttributeValueMemberS{Value: progressType},
			},
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, err
		}
		count += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return count, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
