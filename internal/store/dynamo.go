package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/authwave/apiserver/config"
	"github.com/authwave/apiserver/types"
)

const tableWaitTimeout = 2 * time.Minute

// DynamoStore persists user records in a DynamoDB table keyed by email.
type DynamoStore struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoStore constructs a DynamoDB-backed store from config. An
// endpoint override points the client at a local emulator.
func NewDynamoStore(ctx context.Context, cfg config.DynamoConfig) (*DynamoStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &DynamoStore{client: client, table: cfg.Table}, nil
}

func (s *DynamoStore) key(email string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"email": &ddbtypes.AttributeValueMemberS{Value: email},
	}
}

// GetByEmail fetches a user record, or ErrNotFound.
func (s *DynamoStore) GetByEmail(ctx context.Context, email string) (types.User, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(email),
	})
	if err != nil {
		return types.User{}, err
	}
	if len(out.Item) == 0 {
		return types.User{}, ErrNotFound
	}

	var user types.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Create inserts the record with a condition that no item with the same
// email exists, so two concurrent signups cannot both win.
func (s *DynamoStore) Create(ctx context.Context, user types.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return err
	}

	cond := expression.AttributeNotExists(expression.Name("email"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailed *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateFields builds an UpdateItem SET expression touching exactly the
// provided fields. The expression builder aliases attribute names, so
// reserved words like "name" are escaped without changing semantics.
func (s *DynamoStore) UpdateFields(ctx context.Context, email string, update types.UserUpdate) (types.User, error) {
	fields := update.Fields()
	if len(fields) == 0 {
		return s.GetByEmail(ctx, email)
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var upd expression.UpdateBuilder
	for _, key := range keys {
		upd = upd.Set(expression.Name(key), expression.Value(fields[key]))
	}

	cond := expression.AttributeExists(expression.Name("email"))
	expr, err := expression.NewBuilder().WithUpdate(upd).WithCondition(cond).Build()
	if err != nil {
		return types.User{}, err
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(email),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              ddbtypes.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}

	var user types.User
	if err := attributevalue.UnmarshalMap(out.Attributes, &user); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// EnsureTable creates the users table if it does not exist and waits
// for it to become active. Used by the provision command.
func (s *DynamoStore) EnsureTable(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		return nil
	}
	var notFound *ddbtypes.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return err
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []ddbtypes.AttributeDefinition{
			{AttributeName: aws.String("email"), AttributeType: ddbtypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String("email"), KeyType: ddbtypes.KeyTypeHash},
		},
		BillingMode: ddbtypes.BillingModePayPerRequest,
	})
	if err != nil {
		return err
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	}, tableWaitTimeout)
}
