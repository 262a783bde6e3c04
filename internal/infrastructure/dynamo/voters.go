package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/student-election-api/internal/domain"
)

// VoterRepo provides typed DynamoDB operations for the voters table.
type VoterRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVoterRepo(client *dynamodb.Client, tableName string) *VoterRepo {
	return &VoterRepo{client: client, tableName: tableName}
}

func (r *VoterRepo) Get(ctx context.Context, registrationNumber string) (*domain.Voter, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(keyRegistrationNumber, registrationNumber),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("voter not found: %w", domain.ErrNotFound)
	}
	var v domain.Voter
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByToken looks up the voter holding a session token via the token-index GSI.
// GSI reads are eventually consistent; callers re-check status inside the
// conditional write that consumes the token.
func (r *VoterRepo) GetByToken(ctx context.Context, token string) (*domain.Voter, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexVoterToken),
		KeyConditionExpression: aws.String("#t = :t"),
		ExpressionAttributeNames: map[string]string{"#t": fieldToken},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: token},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("voter token not found: %w", domain.ErrNotFound)
	}
	var v domain.Voter
	if err := attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ScanAll returns every voter, following pagination to the end of the table.
func (r *VoterRepo) ScanAll(ctx context.Context) ([]domain.Voter, error) {
	var voters []domain.Voter
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.Voter
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		voters = append(voters, batch...)
	}
	return voters, nil
}

// Block moves a voter that has not voted to BLOCKED and drops its token.
func (r *VoterRepo) Block(ctx context.Context, registrationNumber string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldStatus:    domain.VoterBlocked,
		fieldUpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	ue.remove(fieldToken)
	ue.Names["#cs"] = fieldStatus
	ue.Values[":voted"] = &types.AttributeValueMemberS{Value: string(domain.VoterVoted)}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(keyRegistrationNumber, registrationNumber),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(registration_number) AND #cs <> :voted"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("voter missing or already voted: %w", domain.ErrConflict)
	}
	return err
}

// Unblock returns a BLOCKED voter to ELIGIBLE.
func (r *VoterRepo) Unblock(ctx context.Context, registrationNumber string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldStatus:    domain.VoterEligible,
		fieldUpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	ue.Names["#cs"] = fieldStatus
	ue.Values[":blocked"] = &types.AttributeValueMemberS{Value: string(domain.VoterBlocked)}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(keyRegistrationNumber, registrationNumber),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#cs = :blocked"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("voter is not blocked: %w", domain.ErrConflict)
	}
	return err
}
