package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/student-election-api/internal/domain"
)

// AuditLogRepo stores audit entries. Entry ids are ULIDs so they sort by time.
type AuditLogRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAuditLogRepo(client *dynamodb.Client, tableName string) *AuditLogRepo {
	return &AuditLogRepo{client: client, tableName: tableName}
}

// Put appends e. Entries are immutable, so an existing id is rejected.
func (r *AuditLogRepo) Put(ctx context.Context, e *domain.AuditEntry) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("audit entry %s exists: %w", e.EntryID, domain.ErrConflict)
	}
	return err
}

// ListRecent returns up to limit entries, newest first.
// Reads the whole table, so cost grows with the log.
func (r *AuditLogRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.AuditEntry
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		entries = append(entries, batch...)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EntryID > entries[j].EntryID })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
