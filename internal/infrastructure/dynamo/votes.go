package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// VoteRepo reads vote records. Votes are only written inside the ballot
// transaction (see Ledger.CommitBallot).
type VoteRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVoteRepo(client *dynamodb.Client, tableName string) *VoteRepo {
	return &VoteRepo{client: client, tableName: tableName}
}

// CountByPosition returns candidate_id -> number of votes for one position.
func (r *VoteRepo) CountByPosition(ctx context.Context, positionID string) (map[string]int, error) {
	counts := map[string]int{}
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexVotePosition),
		KeyConditionExpression: aws.String("position_id = :pid"),
		ProjectionExpression:   aws.String("candidate_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: positionID},
		},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if cid, ok := item[keyCandidate].(*types.AttributeValueMemberS); ok {
				counts[cid.Value]++
			}
		}
	}
	return counts, nil
}
