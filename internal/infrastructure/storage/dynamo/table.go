package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"repairdesk/pkg/logger"
)

const (
	attrKind = "kind"
	attrID   = "id"
)

// Table is the shared records table. Every kind lives under its own partition.
type Table struct {
	api   API
	name  string
	codec *codec
}

// TableOption configures a Table.
type TableOption func(*tableOptions)

type tableOptions struct {
	compressThreshold int
}

// WithCompressThreshold sets the size above which documents are compressed.
// Zero disables compression.
func WithCompressThreshold(n int) TableOption {
	return func(o *tableOptions) { o.compressThreshold = n }
}

// NewTable binds api to the table name.
func NewTable(api API, name string, opts ...TableOption) (*Table, error) {
	o := tableOptions{compressThreshold: DefaultCompressThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	c, err := newCodec(o.compressThreshold)
	if err != nil {
		return nil, err
	}
	return &Table{api: api, name: name, codec: c}, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// EnsureTable creates the table with on-demand billing when it does not exist.
func (t *Table) EnsureTable(ctx context.Context) error {
	_, err := t.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(t.name)})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %s: %w", t.name, err)
	}

	_, err = t.api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(t.name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrKind), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrID), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrKind), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrID), KeyType: types.KeyTypeRange},
		},
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("create table %s: %w", t.name, err)
	}

	logger.Info(ctx, "dynamodb table created", "table", t.name)
	return nil
}

func (t *Table) key(kind, recordID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrKind: &types.AttributeValueMemberS{Value: kind},
		attrID:   &types.AttributeValueMemberS{Value: recordID},
	}
}

func isConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return errors.As(err, &cfe)
}
