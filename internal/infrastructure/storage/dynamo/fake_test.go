package dynamo

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeAPI is an in-memory table understanding the few condition
// expressions this package issues.
type fakeAPI struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	created  bool
	pageSize int

	// beforePut runs once before the next conditional PutItem.
	beforePut func(f *fakeAPI)
}

var _ API = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: make(map[string]map[string]types.AttributeValue)}
}

func keyString(m map[string]types.AttributeValue) string {
	return str(m[attrKind]) + "\x00" + str(m[attrID])
}

func str(v types.AttributeValue) string {
	if s, ok := v.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func num(v types.AttributeValue) int64 {
	if n, ok := v.(*types.AttributeValueMemberN); ok {
		i, _ := strconv.ParseInt(n.Value, 10, 64)
		return i
	}
	return 0
}

func copyItem(m map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[keyString(in.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	if hook := f.beforePut; hook != nil && in.ConditionExpression != nil {
		f.beforePut = nil
		f.mu.Unlock()
		hook(f)
		f.mu.Lock()
	}
	defer f.mu.Unlock()

	k := keyString(in.Item)
	existing, exists := f.items[k]

	switch aws.ToString(in.ConditionExpression) {
	case "":
	case "attribute_not_exists(#id)":
		if exists {
			return nil, conditionFailed()
		}
	case "#rev = :rev":
		if !exists || num(existing["revision"]) != num(in.ExpressionAttributeValues[":rev"]) {
			return nil, conditionFailed()
		}
	}

	f.items[k] = copyItem(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyString(in.Key)
	if _, ok := f.items[k]; !ok {
		return nil, conditionFailed()
	}
	delete(f.items, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyString(in.Key)
	item, ok := f.items[k]
	if !ok {
		item = copyItem(in.Key)
	}
	next := num(item[attrValue]) + num(in.ExpressionAttributeValues[":n"])
	item[attrValue] = &types.AttributeValueMemberN{Value: strconv.FormatInt(next, 10)}
	f.items[k] = item
	return &dynamodb.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{attrValue: item[attrValue]},
	}, nil
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kind := str(in.ExpressionAttributeValues[":kind"])
	var ids []string
	for _, item := range f.items {
		if str(item[attrKind]) == kind {
			ids = append(ids, str(item[attrID]))
		}
	}
	sort.Strings(ids)

	start := ""
	if in.ExclusiveStartKey != nil {
		start = str(in.ExclusiveStartKey[attrID])
	}

	out := &dynamodb.QueryOutput{}
	for _, recordID := range ids {
		if start != "" && recordID <= start {
			continue
		}
		if f.pageSize > 0 && len(out.Items) == f.pageSize {
			last := out.Items[len(out.Items)-1]
			out.LastEvaluatedKey = map[string]types.AttributeValue{attrKind: last[attrKind], attrID: last[attrID]}
			break
		}
		out.Items = append(out.Items, copyItem(f.items[kind+"\x00"+recordID]))
	}
	return out, nil
}

func (f *fakeAPI) DescribeTable(_ context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.created {
		return nil, &types.ResourceNotFoundException{Message: aws.String("no table")}
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func (f *fakeAPI) CreateTable(_ context.Context, _ *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.created {
		return nil, &types.ResourceInUseException{Message: aws.String("exists")}
	}
	f.created = true
	return &dynamodb.CreateTableOutput{}, nil
}
