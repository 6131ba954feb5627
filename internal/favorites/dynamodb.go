package favorites

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI interface for mocking
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// favoritesItem is one row per owner; station_ids is a DynamoDB string set,
// which the service drops entirely once its last element is deleted.
type favoritesItem struct {
	OwnerID    string   `dynamodbav:"owner_id"`
	StationIDs []string `dynamodbav:"station_ids,stringset,omitempty"`
}

// DynamoDBStore implements Store on a table keyed by owner_id.
type DynamoDBStore struct {
	client    DynamoDBAPI
	tableName string
}

func NewDynamoDBStore(client DynamoDBAPI, tableName string) *DynamoDBStore {
	return &DynamoDBStore{
		client:    client,
		tableName: tableName,
	}
}

func (d *DynamoDBStore) key(ownerID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"owner_id": &types.AttributeValueMemberS{Value: ownerID},
	}
}

func (d *DynamoDBStore) Get(ctx context.Context, ownerID string) (Set, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.tableName),
		Key:            d.key(ownerID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites for %s: %w", ownerID, err)
	}

	if result.Item == nil {
		return Set{}, nil
	}

	var item favoritesItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorites: %w", err)
	}

	return NewSet(item.StationIDs...), nil
}

func (d *DynamoDBStore) Add(ctx context.Context, ownerID, stationID string) error {
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.tableName),
		Key:              d.key(ownerID),
		UpdateExpression: aws.String("ADD station_ids :station"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":station": &types.AttributeValueMemberSS{Value: []string{stationID}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add favorite %s: %w", stationID, err)
	}

	return nil
}

func (d *DynamoDBStore) Remove(ctx context.Context, ownerID, stationID string) error {
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.tableName),
		Key:              d.key(ownerID),
		UpdateExpression: aws.String("DELETE station_ids :station"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":station": &types.AttributeValueMemberSS{Value: []string{stationID}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to remove favorite %s: %w", stationID, err)
	}

	return nil
}
