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

// PhotoRepo provides typed DynamoDB operations for the progress_photos table.
type PhotoRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPhotoRepo(client *dynamodb.Client, tableName string) *PhotoRepo {
	return &PhotoRepo{client: client, tableName: tableName}
}

func (r *PhotoRepo) Put(ctx context.Context, p *domain.ProgressPhoto) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal progress photo: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PhotoRepo) Get(ctx context.Context, photoID string) (*domain.ProgressPhoto, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("photo_id", photoID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("progress photo not found: %w", domain.ErrNotFound)
	}
	var p domain.ProgressPhoto
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PhotoRepo) ListByUser(ctx context.Context, userID string) ([]domain.ProgressPhoto, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var photos []domain.ProgressPhoto
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PhotoRepo) Delete(ctx context.Context, photoID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("photo_id", photoID),
	})
	return err
}
