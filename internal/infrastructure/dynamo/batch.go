package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/student-election-api/internal/config"
	"github.com/student-election-api/internal/domain"
)

// maxBatchWrite is the BatchWriteItem request limit.
const maxBatchWrite = 25

const maxBatchAttempts = 5

// BatchWriter bulk-loads seed data. Unlike a transaction it has no item cap,
// but each chunk is applied independently.
type BatchWriter struct {
	client *dynamodb.Client
	tables config.DynamoTables
}

func NewBatchWriter(client *dynamodb.Client, tables config.DynamoTables) *BatchWriter {
	return &BatchWriter{client: client, tables: tables}
}

func (w *BatchWriter) PutVoters(ctx context.Context, voters []domain.Voter) error {
	return putAll(ctx, w, w.tables.Voters, voters)
}

func (w *BatchWriter) PutCandidates(ctx context.Context, candidates []domain.Candidate) error {
	return putAll(ctx, w, w.tables.Candidates, candidates)
}

func (w *BatchWriter) PutPositions(ctx context.Context, positions []domain.Position) error {
	return putAll(ctx, w, w.tables.Positions, positions)
}

// putAll marshals items and writes them in chunks, retrying unprocessed
// items with a linear backoff.
func putAll[T any](ctx context.Context, w *BatchWriter, tableName string, items []T) error {
	requests := make([]types.WriteRequest, 0, len(items))
	for i := range items {
		av, err := attributevalue.MarshalMap(items[i])
		if err != nil {
			return fmt.Errorf("marshal batch item %d: %w", i, err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}
	for start := 0; start < len(requests); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(requests))
		if err := w.write(ctx, tableName, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (w *BatchWriter) write(ctx context.Context, tableName string, chunk []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{tableName: chunk}
	for attempt := 1; ; attempt++ {
		out, err := w.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("batch write %s: %w", tableName, err)
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
		if attempt == maxBatchAttempts {
			return fmt.Errorf("batch write %s: %d items unprocessed", tableName, len(pending[tableName]))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
}
