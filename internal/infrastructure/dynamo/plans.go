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

// PlanRepo provides typed DynamoDB operations for the plans table.
// Keyed (user_id, plan_type): one active plan per type per user, replaced
// wholesale on save.
type PlanRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPlanRepo(client *dynamodb.Client, tableName string) *PlanRepo {
	return &PlanRepo{client: client, tableName: tableName}
}

func (r *PlanRepo) Put(ctx context.Context, p *domain.Plan) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PlanRepo) Get(ctx context.Context, userID, planType string) (*domain.Plan, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "plan_type", planType),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("plan not found: %w", domain.ErrNotFound)
	}
	var p domain.Plan
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepo) ListByUser(ctx context.Context, userID string) ([]domain.Plan, error) {
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
	var plans []domain.Plan
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepo) Delete(ctx context.Context, userID, planType string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "plan_type", planType),
	})
	return err
}
