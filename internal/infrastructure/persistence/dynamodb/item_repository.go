// Package dynamodb stores items in a single DynamoDB table.
//
// Table layout (PK/SK are strings):
//
//	PK=ITEM     SK=<20-digit id>  ID, Name, Description
//	PK=COUNTER  SK=ITEM           LastID (last id handed out)
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/repository"
	appErrors "github.com/novacaap/java-sample-docker/pkg/errors"
)

const (
	itemPartition    = "ITEM"
	counterPartition = "COUNTER"
	counterSortKey   = "ITEM"
	lastIDAttribute  = "LastID"
)

// API is the subset of the DynamoDB client the repository calls.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// itemRecord is the stored shape of an item.
type itemRecord struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	ID          int64  `dynamodbav:"ID"`
	Name        string `dynamodbav:"Name"`
	Description string `dynamodbav:"Description"`
}

// ItemRepository implements repository.ItemRepository using DynamoDB.
type ItemRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// Compile-time interface check
var _ repository.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a repository over the given table.
func NewItemRepository(client API, tableName string, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Bootstrap writes the seed items and the matching counter the first time the
// table is used. Seeds go first so that a failed run is retried in full; the
// counter marks the table as bootstrapped and is written last.
func (r *ItemRepository) Bootstrap(ctx context.Context) error {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            counterKey(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return classify(err, "read id counter")
	}
	if len(out.Item) > 0 {
		r.logger.Debug("Item table already bootstrapped", zap.String("table", r.tableName))
		return nil
	}

	seeds := domain.SeedItems()
	for _, item := range seeds {
		// Left over from an interrupted bootstrap.
		if err := r.put(ctx, item, true); err != nil && !isConditionalCheckFailed(err) {
			return err
		}
	}

	counter := counterKey()
	counter[lastIDAttribute] = &types.AttributeValueMemberN{
		Value: strconv.FormatInt(int64(seeds[len(seeds)-1].ID), 10),
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                counter,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil
		}
		return classify(err, "bootstrap counter")
	}

	r.logger.Info("Seeded DynamoDB item table",
		zap.String("table", r.tableName),
		zap.Int("items", len(seeds)),
	)
	return nil
}

// List queries the item partition in ascending sort-key order.
func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(itemPartition))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.NewInternal("build list expression", err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
		ConsistentRead:            aws.Bool(true),
	})

	items := make([]domain.Item, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "list items")
		}

		var records []itemRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			return nil, appErrors.NewInternal("decode items", err)
		}
		for _, rec := range records {
			items = append(items, rec.toDomain())
		}
	}

	return items, nil
}

// Get reads one item with a consistent read.
func (r *ItemRepository) Get(ctx context.Context, id domain.ItemID) (domain.Item, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            itemKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Item{}, false, classify(err, "get item")
	}
	if len(out.Item) == 0 {
		return domain.Item{}, false, nil
	}

	var rec itemRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return domain.Item{}, false, appErrors.NewInternal("decode item", err)
	}
	return rec.toDomain(), true, nil
}

// Create takes the next id from the counter item and writes the new item.
func (r *ItemRepository) Create(ctx context.Context, name, description string) (domain.Item, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return domain.Item{}, err
	}

	item := domain.Item{ID: id, Name: name, Description: description}
	if err := r.put(ctx, item, true); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

// Delete removes the item and reports whether DynamoDB returned an old image.
func (r *ItemRepository) Delete(ctx context.Context, id domain.ItemID) (bool, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          itemKey(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, classify(err, "delete item")
	}
	return len(out.Attributes) > 0, nil
}

// nextID atomically increments the counter and returns the new value.
func (r *ItemRepository) nextID(ctx context.Context) (domain.ItemID, error) {
	update := expression.Add(expression.Name(lastIDAttribute), expression.Value(1))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return 0, appErrors.NewInternal("build counter expression", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       counterKey(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, classify(err, "advance id counter")
	}

	var counter struct {
		LastID int64 `dynamodbav:"LastID"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &counter); err != nil {
		return 0, appErrors.NewInternal("decode id counter", err)
	}
	if counter.LastID <= 0 {
		return 0, appErrors.NewInternal("id counter returned no value", nil)
	}
	return domain.ItemID(counter.LastID), nil
}

func (r *ItemRepository) put(ctx context.Context, item domain.Item, mustBeNew bool) error {
	av, err := attributevalue.MarshalMap(newItemRecord(item))
	if err != nil {
		return appErrors.NewInternal("encode item", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}
	if mustBeNew {
		input.ConditionExpression = aws.String("attribute_not_exists(PK)")
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return appErrors.NewInternal(fmt.Sprintf("item %d already exists", item.ID), err)
		}
		return classify(err, "put item")
	}
	return nil
}

func newItemRecord(item domain.Item) itemRecord {
	return itemRecord{
		PK:          itemPartition,
		SK:          sortKey(item.ID),
		ID:          int64(item.ID),
		Name:        item.Name,
		Description: item.Description,
	}
}

func (rec itemRecord) toDomain() domain.Item {
	return domain.Item{
		ID:          domain.ItemID(rec.ID),
		Name:        rec.Name,
		Description: rec.Description,
	}
}

func sortKey(id domain.ItemID) string {
	return fmt.Sprintf("%020d", id)
}

func counterKey() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: counterPartition},
		"SK": &types.AttributeValueMemberS{Value: counterSortKey},
	}
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func itemKey(id domain.ItemID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: itemPartition},
		"SK": &types.AttributeValueMemberS{Value: sortKey(id)},
	}
}

// classify maps AWS API errors onto application error types.
func classify(err error, op string) error {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "ProvisionedThroughputExceededException", "ThrottlingException",
			"RequestLimitExceeded", "ServiceUnavailable", "InternalServerError":
			return appErrors.NewUnavailable(op, err)
		case "ResourceNotFoundException":
			return appErrors.NewInternal(op+": table missing", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.NewUnavailable(op, err)
	}
	return appErrors.NewInternal(op, err)
}
