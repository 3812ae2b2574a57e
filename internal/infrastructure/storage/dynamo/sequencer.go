package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"repairdesk/internal/core/apperror"
	"repairdesk/pkg/numerator"
)

// sequenceKind is the partition holding document counters.
const sequenceKind = "sys_sequence"

const attrValue = "current_value"

var _ numerator.Sequencer = (*Sequencer)(nil)

// Sequencer keeps document counters in the records table using atomic ADD.
type Sequencer struct {
	table *Table
}

// NewSequencer creates a sequencer over table.
func NewSequencer(table *Table) *Sequencer {
	return &Sequencer{table: table}
}

// Reserve implements numerator.Sequencer.
func (s *Sequencer) Reserve(ctx context.Context, key string, n int64) (int64, error) {
	out, err := s.table.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.table.name),
		Key:              s.table.key(sequenceKind, key),
		UpdateExpression: aws.String("ADD #value :n"),
		ExpressionAttributeNames: map[string]string{
			"#value": attrValue,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("reserve sequence %s: %w", key, err))
	}

	num, ok := out.Attributes[attrValue].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("reserve sequence %s: missing %s in response", key, attrValue)
	}
	value, err := strconv.ParseInt(num.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("reserve sequence %s: %w", key, err)
	}
	return value, nil
}

// Set implements numerator.Sequencer.
func (s *Sequencer) Set(ctx context.Context, key string, value int64) error {
	item := s.table.key(sequenceKind, key)
	item[attrValue] = &types.AttributeValueMemberN{Value: strconv.FormatInt(value, 10)}

	_, err := s.table.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table.name),
		Item:      item,
	})
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("set sequence %s: %w", key, err))
	}
	return nil
}
