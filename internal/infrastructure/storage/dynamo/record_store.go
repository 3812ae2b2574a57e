package dynamo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain"
)

// maxUpdateAttempts bounds optimistic retries when concurrent writers race.
const maxUpdateAttempts = 5

type recordItem struct {
	Kind      string `dynamodbav:"kind"`
	ID        string `dynamodbav:"id"`
	Data      string `dynamodbav:"data,omitempty"`
	Packed    []byte `dynamodbav:"packed,omitempty"`
	Encoding  string `dynamodbav:"encoding,omitempty"`
	Revision  int64  `dynamodbav:"revision"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// RecordStore keeps one kind in the shared table. The sort key is the
// UUIDv7 string, so a partition query returns records in insertion order.
//
// Writes are conditional: Create refuses to overwrite an id and Update
// only replaces the revision it read.
type RecordStore[T entity.Record[T]] struct {
	table *Table
	kind  string

	version atomic.Uint64
	now     func() time.Time
}

// NewRecordStore creates a store for kind.
func NewRecordStore[T entity.Record[T]](table *Table, kind string) *RecordStore[T] {
	return &RecordStore[T]{table: table, kind: kind, now: time.Now}
}

// GetAll implements domain.RecordStore.
func (s *RecordStore[T]) GetAll(ctx context.Context) ([]T, error) {
	p := dynamodb.NewQueryPaginator(s.table.api, &dynamodb.QueryInput{
		TableName:              aws.String(s.table.name),
		KeyConditionExpression: aws.String("#kind = :kind"),
		ExpressionAttributeNames: map[string]string{
			"#kind": attrKind,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kind": &types.AttributeValueMemberS{Value: s.kind},
		},
		ConsistentRead: aws.Bool(true),
	})

	var out []T
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, apperror.NewDatabase(fmt.Errorf("query %s: %w", s.kind, err))
		}
		for _, av := range page.Items {
			record, _, err := s.decode(av)
			if err != nil {
				return nil, err
			}
			out = append(out, record)
		}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Create implements domain.RecordStore.
func (s *RecordStore[T]) Create(ctx context.Context, data T) (T, error) {
	var zero T
	record := data.WithID(id.New())
	if err := s.putNew(ctx, record); err != nil {
		return zero, err
	}
	s.version.Add(1)
	return record, nil
}

// Import implements domain.Importer. Records keep their ids; the load
// stops at the first record that already exists.
func (s *RecordStore[T]) Import(ctx context.Context, records []T) (int64, error) {
	var n int64
	for _, r := range records {
		if id.IsNil(r.GetID()) {
			r = r.WithID(id.New())
		}
		if err := s.putNew(ctx, r); err != nil {
			return n, err
		}
		n++
	}
	if n > 0 {
		s.version.Add(1)
	}
	return n, nil
}

// putNew writes record at revision 1 unless its id is taken.
func (s *RecordStore[T]) putNew(ctx context.Context, record T) error {
	av, err := s.encode(record, 1)
	if err != nil {
		return err
	}

	_, err = s.table.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table.name),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": attrID,
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return apperror.NewConflict(s.kind + " already exists").WithDetail("id", record.GetID())
		}
		return apperror.NewDatabase(fmt.Errorf("put %s: %w", s.kind, err))
	}
	return nil
}

// Update implements domain.RecordStore. patch may run more than once when
// another writer updates the same record concurrently.
func (s *RecordStore[T]) Update(ctx context.Context, recordID id.ID, patch domain.Patch[T]) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		out, err := s.table.api.GetItem(ctx, &dynamodb.GetItemInput{
			TableName:      aws.String(s.table.name),
			Key:            s.table.key(s.kind, recordID.String()),
			ConsistentRead: aws.Bool(true),
		})
		if err != nil {
			return apperror.NewDatabase(fmt.Errorf("get %s: %w", s.kind, err))
		}
		if len(out.Item) == 0 {
			return apperror.NewNotFound(s.kind, recordID)
		}

		current, revision, err := s.decode(out.Item)
		if err != nil {
			return err
		}
		patch(&current)

		av, err := s.encode(current.WithID(recordID), revision+1)
		if err != nil {
			return err
		}

		_, err = s.table.api.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(s.table.name),
			Item:                av,
			ConditionExpression: aws.String("#rev = :rev"),
			ExpressionAttributeNames: map[string]string{
				"#rev": "revision",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":rev": &types.AttributeValueMemberN{Value: strconv.FormatInt(revision, 10)},
			},
		})
		if err == nil {
			s.version.Add(1)
			return nil
		}
		if !isConditionFailed(err) {
			return apperror.NewDatabase(fmt.Errorf("put %s: %w", s.kind, err))
		}
	}
	return apperror.NewConflict(s.kind + " is being modified concurrently").WithDetail("id", recordID)
}

// Delete implements domain.RecordStore.
func (s *RecordStore[T]) Delete(ctx context.Context, recordID id.ID) error {
	_, err := s.table.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table.name),
		Key:                 s.table.key(s.kind, recordID.String()),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": attrID,
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return apperror.NewNotFound(s.kind, recordID)
		}
		return apperror.NewDatabase(fmt.Errorf("delete %s: %w", s.kind, err))
	}
	s.version.Add(1)
	return nil
}

// Version implements domain.Versioned. Only writes made through this
// process are counted.
func (s *RecordStore[T]) Version() uint64 {
	return s.version.Load()
}

func (s *RecordStore[T]) encode(record T, revision int64) (map[string]types.AttributeValue, error) {
	doc, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", s.kind, err)
	}

	item := recordItem{
		Kind:      s.kind,
		ID:        record.GetID().String(),
		Revision:  revision,
		UpdatedAt: s.now().UTC().Format(time.RFC3339Nano),
	}
	s.table.codec.pack(doc, &item)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal %s item: %w", s.kind, err)
	}
	return av, nil
}

func (s *RecordStore[T]) decode(av map[string]types.AttributeValue) (T, int64, error) {
	var record T

	var item recordItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return record, 0, fmt.Errorf("unmarshal %s item: %w", s.kind, err)
	}

	recordID, err := id.Parse(item.ID)
	if err != nil {
		return record, 0, fmt.Errorf("decode %s id %q: %w", s.kind, item.ID, err)
	}

	doc, err := s.table.codec.unpack(item)
	if err != nil {
		return record, 0, err
	}
	if err := json.Unmarshal(doc, &record); err != nil {
		return record, 0, fmt.Errorf("decode %s %s: %w", s.kind, item.ID, err)
	}
	return record.WithID(recordID), item.Revision, nil
}
