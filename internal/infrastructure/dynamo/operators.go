package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/student-election-api/internal/domain"
)

// OperatorRepo provides typed DynamoDB operations for the operators table.
type OperatorRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOperatorRepo(client *dynamodb.Client, tableName string) *OperatorRepo {
	return &OperatorRepo{client: client, tableName: tableName}
}

func (r *OperatorRepo) Get(ctx context.Context, email string) (*domain.Operator, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(keyOperator, email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("operator not found: %w", domain.ErrNotFound)
	}
	var o domain.Operator
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create stores a new operator; an existing record with the same email wins.
func (r *OperatorRepo) Create(ctx context.Context, o *domain.Operator) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal operator: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("operator exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *OperatorRepo) TouchLogin(ctx context.Context, email string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{"last_login_at": at})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(keyOperator, email),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
