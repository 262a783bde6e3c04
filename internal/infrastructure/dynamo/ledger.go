package dynamo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/student-election-api/internal/domain"
)

// Ledger performs the multi-item voter state transitions as single
// TransactWriteItems calls.
type Ledger struct {
	client *dynamodb.Client
	voters string
	otps   string
	votes  string
}

func NewLedger(client *dynamodb.Client, votersTable, otpsTable, votesTable string) *Ledger {
	return &Ledger{client: client, voters: votersTable, otps: otpsTable, votes: votesTable}
}

// CompleteVerification marks the voter VERIFIED with token and consumes the
// PIN. The voter update requires the status read by the caller to be
// unchanged; the delete requires the stored PIN to still equal pin.
// A changed voter yields ErrConflict, a consumed or replaced PIN ErrNotFound.
func (l *Ledger) CompleteVerification(ctx context.Context, registrationNumber string, expected domain.VoterStatus, token, otpKey, pin string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldStatus:     domain.VoterVerified,
		fieldToken:      token,
		fieldVerifiedAt: at,
		fieldUpdatedAt:  at,
	})
	if err != nil {
		return err
	}
	ue.Names["#st"] = fieldStatus
	ue.Values[":expected"] = &types.AttributeValueMemberS{Value: string(expected)}

	_, err = l.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:                 aws.String(l.voters),
				Key:                       strKey(keyRegistrationNumber, registrationNumber),
				UpdateExpression:          aws.String(ue.Expr),
				ConditionExpression:       aws.String("#st = :expected"),
				ExpressionAttributeNames:  ue.Names,
				ExpressionAttributeValues: ue.Values,
			}},
			{Delete: &types.Delete{
				TableName:                 aws.String(l.otps),
				Key:                       strKey(keyOTP, otpKey),
				ConditionExpression:       aws.String("#p = :pin"),
				ExpressionAttributeNames:  map[string]string{"#p": fieldPIN},
				ExpressionAttributeValues: map[string]types.AttributeValue{":pin": &types.AttributeValueMemberS{Value: pin}},
			}},
		},
	})
	if failed := failedConditions(err); failed != nil {
		if slices.Contains(failed, 0) {
			return fmt.Errorf("voter changed during verification: %w", domain.ErrConflict)
		}
		return fmt.Errorf("pin already consumed: %w", domain.ErrNotFound)
	}
	if transactionConflict(err) {
		return fmt.Errorf("concurrent verification: %w", domain.ErrConflict)
	}
	return err
}

// CommitBallot moves the voter holding token from VERIFIED to VOTED and
// records votes in the same transaction. Votes carry no voter identity.
func (l *Ledger) CommitBallot(ctx context.Context, registrationNumber, token string, votes []domain.Vote, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldStatus:    domain.VoterVoted,
		fieldVotedAt:   at,
		fieldUpdatedAt: at,
	})
	if err != nil {
		return err
	}
	ue.Names["#st"] = fieldStatus
	ue.Names["#tk"] = fieldToken
	ue.Values[":verified"] = &types.AttributeValueMemberS{Value: string(domain.VoterVerified)}
	ue.Values[":tk"] = &types.AttributeValueMemberS{Value: token}

	items := []types.TransactWriteItem{{Update: &types.Update{
		TableName:                 aws.String(l.voters),
		Key:                       strKey(keyRegistrationNumber, registrationNumber),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#st = :verified AND #tk = :tk"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	}}}
	for i := range votes {
		av, err := attributevalue.MarshalMap(votes[i])
		if err != nil {
			return fmt.Errorf("marshal vote: %w", err)
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName:           aws.String(l.votes),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(vote_id)"),
		}})
	}

	_, err = l.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if failed := failedConditions(err); failed != nil {
		if slices.Contains(failed, 0) {
			return fmt.Errorf("ballot already cast: %w", domain.ErrAlreadyVoted)
		}
		return fmt.Errorf("vote id collision: %w", domain.ErrConflict)
	}
	if transactionConflict(err) {
		return fmt.Errorf("concurrent ballot: %w", domain.ErrConflict)
	}
	return err
}
