package dynamo

import (
	"context"
	"fmt"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// ExerciseRepo provides typed DynamoDB operations for the exercises table.
type ExerciseRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewExerciseRepo(client *dynamodb.Client, tableName string) *ExerciseRepo {
	return &ExerciseRepo{client: client, tableName: tableName}
}

func (r *ExerciseRepo) Put(ctx context.Context, e *domain.Exercise) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal exercise: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ExerciseRepo) Get(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("exercise_id", exerciseID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("exercise not found: %w", domain.ErrNotFound)
	}
	var e domain.Exercise
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Scan returns the whole catalog. The table is a small curated list, so a
// full scan is fine.
func (r *ExerciseRepo) Scan(ctx context.Context) ([]domain.Exercise, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var exercises []domain.Exercise
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// HardDelete permanently removes a catalog entry.
func (r *ExerciseRepo) HardDelete(ctx context.Context, exerciseID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("exercise_id", exerciseID),
	})
	return err
}

func (r *ExerciseRepo) Update(ctx context.Context, exerciseID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("exercise_id", exerciseID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
