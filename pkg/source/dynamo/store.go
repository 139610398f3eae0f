// Package dynamo reads field values from a DynamoDB table.
//
// The table stores one item per subject and storage key:
//
//	pk     subject identifier ("post_12", "options")
//	sk     physical storage key ("items_0_label", "options_title")
//	value  the raw value
//
// Attribute names are configurable with Options.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/goliatone/go-fields/pkg/source"
)

// Client is the subset of the DynamoDB API the store needs. *dynamodb.Client
// satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *ddb.GetItemInput, optFns ...func(*ddb.Options)) (*ddb.GetItemOutput, error)
	Query(ctx context.Context, params *ddb.QueryInput, optFns ...func(*ddb.Options)) (*ddb.QueryOutput, error)
}

// Options configures a Store.
type Options struct {
	Table string
	// PartitionKey, SortKey and ValueAttribute default to pk, sk and value.
	PartitionKey   string
	SortKey        string
	ValueAttribute string
	// ConsistentRead requests strongly consistent reads.
	ConsistentRead bool
}

// Store is a fields.ValueSource backed by DynamoDB.
type Store struct {
	client Client
	opts   Options
}

// New returns a Store reading from opts.Table through client.
func New(client Client, opts Options) (*Store, error) {
	if client == nil {
		return nil, errors.New("dynamo: client is required")
	}
	if opts.Table == "" {
		return nil, errors.New("dynamo: table name is required")
	}
	if opts.PartitionKey == "" {
		opts.PartitionKey = "pk"
	}
	if opts.SortKey == "" {
		opts.SortKey = "sk"
	}
	if opts.ValueAttribute == "" {
		opts.ValueAttribute = "value"
	}
	return &Store{client: client, opts: opts}, nil
}

// Read implements fields.ValueSource with one GetItem per key.
func (s *Store) Read(ctx context.Context, subject, key string) (any, bool, error) {
	parsed, err := source.ParseSubject(subject)
	if err != nil {
		return nil, false, err
	}
	id, err := parsed.Identifier()
	if err != nil {
		return nil, false, err
	}
	out, err := s.client.GetItem(ctx, &ddb.GetItemInput{
		TableName: aws.String(s.opts.Table),
		Key: map[string]types.AttributeValue{
			s.opts.PartitionKey: &types.AttributeValueMemberS{Value: id},
			s.opts.SortKey:      &types.AttributeValueMemberS{Value: parsed.StorageKey(key)},
		},
		ConsistentRead:       aws.Bool(s.opts.ConsistentRead),
		ProjectionExpression: aws.String("#v"),
		ExpressionAttributeNames: map[string]string{
			"#v": s.opts.ValueAttribute,
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("dynamo: get %s/%s: %w", id, parsed.StorageKey(key), err)
	}
	if out == nil || out.Item == nil {
		return nil, false, nil
	}
	av, ok := out.Item[s.opts.ValueAttribute]
	if !ok {
		return nil, false, nil
	}
	value, err := decode(av)
	if err != nil {
		return nil, false, fmt.Errorf("dynamo: decode %s/%s: %w", id, parsed.StorageKey(key), err)
	}
	return value, true, nil
}

// Snapshot loads every item stored for subject into a MemoryStore with a
// paginated Query. Resolving against the snapshot costs one round trip per
// page instead of one per key.
func (s *Store) Snapshot(ctx context.Context, subject string) (*source.MemoryStore, error) {
	parsed, err := source.ParseSubject(subject)
	if err != nil {
		return nil, err
	}
	id, err := parsed.Identifier()
	if err != nil {
		return nil, err
	}

	snapshot := source.NewMemoryStore()
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &ddb.QueryInput{
			TableName:              aws.String(s.opts.Table),
			KeyConditionExpression: aws.String("#pk = :pk"),
			ExpressionAttributeNames: map[string]string{
				"#pk": s.opts.PartitionKey,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: id},
			},
			ConsistentRead:    aws.Bool(s.opts.ConsistentRead),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamo: query %s: %w", id, err)
		}
		for _, item := range out.Items {
			if err := s.copyItem(snapshot, id, item); err != nil {
				return nil, err
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return snapshot, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (s *Store) copyItem(snapshot *source.MemoryStore, id string, item map[string]types.AttributeValue) error {
	var storageKey string
	if err := attributevalue.Unmarshal(item[s.opts.SortKey], &storageKey); err != nil || storageKey == "" {
		return fmt.Errorf("dynamo: item in %s has no %s", id, s.opts.SortKey)
	}
	av, ok := item[s.opts.ValueAttribute]
	if !ok {
		return nil
	}
	value, err := decode(av)
	if err != nil {
		return fmt.Errorf("dynamo: decode %s/%s: %w", id, storageKey, err)
	}
	snapshot.SetRaw(id, storageKey, value)
	return nil
}

// decode converts an attribute value into plain Go values. Numbers become
// float64, lists []any and maps map[string]any.
func decode(av types.AttributeValue) (any, error) {
	if _, isNull := av.(*types.AttributeValueMemberNULL); isNull {
		return nil, nil
	}
	var value any
	if err := attributevalue.Unmarshal(av, &value); err != nil {
		return nil, err
	}
	return value, nil
}
