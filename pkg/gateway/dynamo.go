package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-courseform/pkg/course"
)

// DynamoAPI is the slice of the DynamoDB client the gateway needs.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Dynamo stores one item per course in a table whose partition key is
// "id". Updates replace the whole item and require it to exist.
type Dynamo struct {
	client DynamoAPI
	table  string
	newID  func() string
}

// DynamoOption customises a Dynamo gateway.
type DynamoOption func(*Dynamo)

// WithDynamoIDGenerator replaces the uuid generator.
func WithDynamoIDGenerator(fn func() string) DynamoOption {
	return func(d *Dynamo) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// NewDynamo creates a gateway for table. The client should be built from
// the shared AWS config.
func NewDynamo(client DynamoAPI, table string, opts ...DynamoOption) *Dynamo {
	d := &Dynamo{
		client: client,
		table:  table,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

var _ Gateway = (*Dynamo)(nil)

// Create implements Gateway.
func (d *Dynamo) Create(ctx context.Context, rec course.Record) (Response, error) {
	id := d.newID()
	stored, err := d.put(ctx, id, rec, "attribute_not_exists(id)")
	if err != nil {
		return Response{}, fmt.Errorf("gateway: create: %w", err)
	}
	log.Debug().Str("table", d.table).Str("id", id).Msg("course created")
	return Response{Success: true, Message: "Course created successfully", Data: stored}, nil
}

// Update implements Gateway.
func (d *Dynamo) Update(ctx context.Context, id string, rec course.Record) (Response, error) {
	if id == "" {
		return Response{}, ErrMissingID
	}
	stored, err := d.put(ctx, id, rec, "attribute_exists(id)")
	if err != nil {
		var failed *types.ConditionalCheckFailedException
		if errors.As(err, &failed) {
			return Response{}, fmt.Errorf("gateway: update %s: %w", id, ErrNotFound)
		}
		return Response{}, fmt.Errorf("gateway: update %s: %w", id, err)
	}
	log.Debug().Str("table", d.table).Str("id", id).Msg("course updated")
	return Response{Success: true, Message: "Course updated successfully", Data: stored}, nil
}

// FetchByID implements Gateway.
func (d *Dynamo) FetchByID(ctx context.Context, id string) (Response, error) {
	if id == "" {
		return Response{}, ErrMissingID
	}
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			course.KeyID: &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return Response{}, fmt.Errorf("gateway: GetItem id=%s: %w", id, err)
	}
	if result.Item == nil {
		return Response{}, fmt.Errorf("gateway: fetch %s: %w", id, ErrNotFound)
	}
	var rec map[string]any
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return Response{}, fmt.Errorf("gateway: unmarshal id=%s: %w", id, err)
	}
	return Response{Success: true, Data: course.Record(rec)}, nil
}

func (d *Dynamo) put(ctx context.Context, id string, rec course.Record, condition string) (course.Record, error) {
	stored := rec.Clone()
	if stored == nil {
		stored = course.Record{}
	}
	stored[course.KeyID] = id

	item, err := attributevalue.MarshalMap(map[string]any(stored))
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                item,
		ConditionExpression: aws.String(condition),
	})
	if err != nil {
		return nil, fmt.Errorf("PutItem id=%s: %w", id, err)
	}
	return stored, nil
}
