package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// BadgeRepo provides typed DynamoDB operations for the badges table.
type BadgeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBadgeRepo(client *dynamodb.Client, tableName string) *BadgeRepo {
	return &BadgeRepo{client: client, tableName: tableName}
}

// PutIfAbsent writes the badge only when the user has not earned it yet.
// Returns true when the badge was newly written, false when it already
// existed. The conditional put makes concurrent awards race-safe: exactly
// one writer wins.
func (r *BadgeRepo) PutIfAbsent(ctx context.Context, b *domain.Badge) (bool, error) {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return false, fmt.Errorf("marshal badge: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *BadgeRepo) ListByUser(ctx context.Context, userID string) ([]domain.Badge, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var badges []domain.Badge
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}
