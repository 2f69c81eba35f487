package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yunseo-dev/disasterscope/internal/clients"
	"github.com/yunseo-dev/disasterscope/internal/models"
	"github.com/yunseo-dev/disasterscope/internal/utils"
)

const (
	// DynamoDB caps BatchWriteItem at 25 requests
	MAX_WRITE_BATCH_SIZE = 25
	ARCHIVE_ROW_TTL      = 30 * 24 * time.Hour
)

// Archive persists completed analysis runs to DynamoDB. It is optional:
// when the table is not configured the rest of the system runs unchanged.
type Archive struct {
	client *dynamodb.Client
	table  string
}

// NewArchive builds the run archive from configuration. A missing table
// name or AWS config failure disables archiving only.
func NewArchive() (*Archive, error) {
	table := os.Getenv("ANALYSIS_ARCHIVE_TABLE")
	if table == "" {
		slog.Warn("[Archive] ANALYSIS_ARCHIVE_TABLE not set, run archiving disabled")
		return nil, errors.New("[Archive] ANALYSIS_ARCHIVE_TABLE is not set")
	}

	client, err := clients.GetDynamoDBClient()
	if err != nil {
		return nil, fmt.Errorf("[Archive] Failed to build DynamoDB client: %w", err)
	}

	return &Archive{client: client, table: table}, nil
}

// archivedRow is one dataset row plus the run-scoped keys and TTL.
type archivedRow struct {
	RowID     string `dynamodbav:"row_id"`
	RunID     string `dynamodbav:"run_id"`
	CreatedAt int64  `dynamodbav:"archived_at"`
	ExpiresAt int64  `dynamodbav:"ttl"`
	models.LabeledComment
}

// StoreRun batch-writes every dataset row, 25 at a time, retrying
// unprocessed items with backoff.
func (a *Archive) StoreRun(ctx context.Context, dataset *models.AnalysisDataset) error {
	if a == nil {
		return nil
	}
	if dataset == nil || len(dataset.Rows) == 0 {
		return nil
	}

	now := time.Now()
	expiresAt := now.Add(ARCHIVE_ROW_TTL).Unix()

	for _, chunk := range utils.Chunks(dataset.Rows, MAX_WRITE_BATCH_SIZE) {
		select {
		case <-ctx.Done():
			slog.Warn("[Archive] context canceled")
			return ctx.Err()
		default:
		}

		writeRequests := make([]types.WriteRequest, 0, len(chunk))
		for _, row := range chunk {
			item, err := attributevalue.MarshalMap(archivedRow{
				RowID:          fmt.Sprintf("%s#%s#%s", dataset.RunID, row.VideoID, row.CommentID),
				RunID:          dataset.RunID,
				CreatedAt:      now.Unix(),
				ExpiresAt:      expiresAt,
				LabeledComment: row,
			})
			if err != nil {
				slog.Error("[Archive] Failed to marshal row, skipping",
					slog.String("comment_id", row.CommentID),
					slog.String("error", err.Error()))
				continue
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}
		if len(writeRequests) == 0 {
			continue
		}

		out, err := a.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				a.table: writeRequests,
			},
		})
		if err != nil {
			return fmt.Errorf("[Archive] Failed to batch write run rows: %w", err)
		}

		retryCount := 0
		backoff := 500 * time.Millisecond
		for len(out.UnprocessedItems) > 0 && retryCount < 3 {
			time.Sleep(backoff)
			backoff *= 2

			slog.Warn("[Archive] Retrying unprocessed rows...",
				slog.Int("attempt", retryCount+1),
				slog.Int("remaining", len(out.UnprocessedItems[a.table])))

			out, err = a.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: out.UnprocessedItems,
			})
			if err != nil {
				return fmt.Errorf("[Archive] Retry error: %w", err)
			}
			retryCount++
		}

		if len(out.UnprocessedItems) > 0 {
			slog.Error("[Archive] Some rows were not written even after retries",
				slog.Int("remaining", len(out.UnprocessedItems[a.table])))
		}
	}

	slog.Info("[Archive] Successfully archived analysis run",
		slog.String("run_id", dataset.RunID),
		slog.Int("rows", len(dataset.Rows)))
	return nil
}

// GetRunRows scans the archive for every row of one run.
func (a *Archive) GetRunRows(ctx context.Context, runID string) ([]models.LabeledComment, error) {
	if a == nil {
		return nil, errors.New("[Archive] archiving is disabled")
	}

	input := &dynamodb.ScanInput{
		TableName:        aws.String(a.table),
		FilterExpression: aws.String("run_id = :run"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":run": &types.AttributeValueMemberS{Value: runID},
		},
	}

	var rows []models.LabeledComment
	paginator := dynamodb.NewScanPaginator(a.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[Archive] Scan for run rows failed: %w", err)
		}

		var page []archivedRow
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[Archive] Unable to unmarshal archive page",
				slog.String("error", err.Error()))
			return nil, err
		}
		for _, row := range page {
			rows = append(rows, row.LabeledComment)
		}
	}

	slog.Info("[Archive] Successfully retrieved archived run",
		slog.String("run_id", runID),
		slog.Int("rows", len(rows)))
	return rows, nil
}
