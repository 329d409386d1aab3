package dynamo

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const userCreatedIndex = "user_id-created_at-index"

// NotificationRepo provides typed DynamoDB operations for the notifications
// table. Per-user queries run against the user_id-created_at GSI; created_at
// is written at whole-second precision, so its RFC 3339 form is fixed-width
// and lexicographic sort order is chronological order.
type NotificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNotificationRepo(client *dynamodb.Client, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("notification_id", notificationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	var n domain.Notification
	if err := attributevalue.UnmarshalMap(out.Item, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns one page of a user's notifications, newest first. cursor is
// an opaque position token from a previous page; the returned cursor is
// empty when no pages remain.
func (r *NotificationRepo) List(ctx context.Context, userID string, limit int32, cursor string) ([]domain.Notification, string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(userCreatedIndex),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	}
	if cursor != "" {
		startKey, err := decodePageCursor(cursor, userID)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = startKey
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var notifications []domain.Notification
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &notifications); err != nil {
		return nil, "", err
	}
	return notifications, encodePageCursor(out.LastEvaluatedKey), nil
}

// FindUnread returns up to limit unread notifications, newest first.
// DynamoDB applies FilterExpression after the read limit, so a single Query
// with Limit would bound scanned rows rather than unread rows; instead each
// page is drained and unread rows accumulated until limit is reached or the
// partition is exhausted.
func (r *NotificationRepo) FindUnread(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	var found []domain.Notification
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                aws.String(r.tableName),
			IndexName:                aws.String(userCreatedIndex),
			KeyConditionExpression:   aws.String("user_id = :uid"),
			FilterExpression:         aws.String("#r = :f"),
			ExpressionAttributeNames: map[string]string{"#r": fieldRead},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
				":f":   &types.AttributeValueMemberBOOL{Value: false},
			},
			ScanIndexForward:  aws.Bool(false),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Notification
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		for _, n := range page {
			found = append(found, n)
			if len(found) == limit {
				return found, nil
			}
		}
		if out.LastEvaluatedKey == nil {
			return found, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldRead: true})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("notification_id", notificationID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// MarkAllRead flips every unread record for the user and returns how many
// were updated. Per-record failures are logged and skipped so one bad row
// cannot wedge the whole operation.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	ids, err := r.unreadIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, id := range ids {
		if err := r.MarkRead(ctx, id); err != nil {
			slog.Warn("failed to mark notification read", "notification_id", id, "user_id", userID, "err", err)
			continue
		}
		updated++
	}
	return updated, nil
}

func (r *NotificationRepo) Delete(ctx context.Context, notificationID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("notification_id", notificationID),
	})
	return err
}

// DeleteAllForUser removes every notification record the user has and
// returns how many were deleted.
func (r *NotificationRepo) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	ids, err := r.allIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			slog.Warn("failed to delete notification", "notification_id", id, "user_id", userID, "err", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// CountUnread counts the user's unread records. Always computed live; there
// is no cached counter to drift out of sync.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                aws.String(r.tableName),
			IndexName:                aws.String(userCreatedIndex),
			KeyConditionExpression:   aws.String("user_id = :uid"),
			FilterExpression:         aws.String("#r = :f"),
			ExpressionAttributeNames: map[string]string{"#r": fieldRead},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
				":f":   &types.AttributeValueMemberBOOL{Value: false},
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

// Stats aggregates total, unread, and per-kind counts across every record
// the user has.
func (r *NotificationRepo) Stats(ctx context.Context, userID string) (*domain.NotificationStats, error) {
	stats := &domain.NotificationStats{ByKind: make(map[domain.Kind]int)}
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(userCreatedIndex),
			KeyConditionExpression: aws.String("user_id = :uid"),
			ProjectionExpression:   aws.String("#k, #r"),
			ExpressionAttributeNames: map[string]string{
				"#k": "kind",
				"#r": fieldRead,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []struct {
			Kind domain.Kind `dynamodbav:"kind"`
			Read bool        `dynamodbav:"read"`
		}
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		for _, item := range page {
			stats.Total++
			stats.ByKind[item.Kind]++
			if !item.Read {
				stats.Unread++
			}
		}
		if out.LastEvaluatedKey == nil {
			return stats, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *NotificationRepo) unreadIDs(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, userID, true)
}

func (r *NotificationRepo) allIDs(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, userID, false)
}

func (r *NotificationRepo) queryIDs(ctx context.Context, userID string, unreadOnly bool) ([]string, error) {
	var ids []string
	var startKey map[string]types.AttributeValue
	for {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(userCreatedIndex),
			KeyConditionExpression: aws.String("user_id = :uid"),
			ProjectionExpression:   aws.String("notification_id"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
			},
			ExclusiveStartKey: startKey,
		}
		if unreadOnly {
			input.FilterExpression = aws.String("#r = :f")
			input.ExpressionAttributeNames = map[string]string{"#r": fieldRead}
			input.ExpressionAttributeValues[":f"] = &types.AttributeValueMemberBOOL{Value: false}
		}
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			if v, ok := item["notification_id"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, v.Value)
			}
		}
		if out.LastEvaluatedKey == nil {
			return ids, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// encodePageCursor packs a Query LastEvaluatedKey into an opaque token.
// The GSI resume key needs created_at and notification_id; user_id is
// re-supplied by the caller on decode.
func encodePageCursor(key map[string]types.AttributeValue) string {
	created, okC := key["created_at"].(*types.AttributeValueMemberS)
	id, okID := key["notification_id"].(*types.AttributeValueMemberS)
	if !okC || !okID {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(created.Value + "|" + id.Value))
}

func decodePageCursor(cursor, userID string) (map[string]types.AttributeValue, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(string(b), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed cursor")
	}
	return map[string]types.AttributeValue{
		"user_id":         &types.AttributeValueMemberS{Value: userID},
		"created_at":      &types.AttributeValueMemberS{Value: parts[0]},
		"notification_id": &types.AttributeValueMemberS{Value: parts[1]},
	}, nil
}
