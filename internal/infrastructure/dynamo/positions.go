package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/student-election-api/internal/domain"
)

// PositionRepo provides typed DynamoDB operations for the positions table.
type PositionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPositionRepo(client *dynamodb.Client, tableName string) *PositionRepo {
	return &PositionRepo{client: client, tableName: tableName}
}

func (r *PositionRepo) Put(ctx context.Context, p *domain.Position) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PositionRepo) Get(ctx context.Context, positionID string) (*domain.Position, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(keyPosition, positionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("position not found: %w", domain.ErrNotFound)
	}
	var p domain.Position
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PositionRepo) ScanAll(ctx context.Context) ([]domain.Position, error) {
	var positions []domain.Position
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.Position
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		positions = append(positions, batch...)
	}
	return positions, nil
}

// IsEmpty reports whether the table holds no positions.
func (r *PositionRepo) IsEmpty(ctx context.Context) (bool, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Items) == 0, nil
}

// Update writes only the given fields; the position must already exist.
func (r *PositionRepo) Update(ctx context.Context, positionID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(keyPosition, positionID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(position_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("position not found: %w", domain.ErrNotFound)
	}
	return err
}
