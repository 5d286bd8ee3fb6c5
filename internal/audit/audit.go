// Package audit records pipeline outcomes in a DynamoDB table.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"ivrbot/internal/pipeline"
)

type itemPutter interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Entry is one row of delivery history, keyed by run_id.
type Entry struct {
	RunID        string `dynamodbav:"run_id"`
	ChatID       int64  `dynamodbav:"chat_id"`
	MessageID    int    `dynamodbav:"message_id"`
	Kind         string `dynamodbav:"kind"`
	StartedAt    string `dynamodbav:"started_at"`
	Duration     string `dynamodbav:"duration"`
	Action       string `dynamodbav:"action"`
	Target       string `dynamodbav:"target,omitempty"`
	Reason       string `dynamodbav:"reason,omitempty"`
	Redirected   bool   `dynamodbav:"redirected"`
	Delivered    bool   `dynamodbav:"delivered"`
	UploadStatus int    `dynamodbav:"upload_status,omitempty"`
	UploadBody   string `dynamodbav:"upload_body,omitempty"`
	CalloutFired bool   `dynamodbav:"callout_fired"`
	ArchiveKey   string `dynamodbav:"archive_key,omitempty"`
	Error        string `dynamodbav:"error,omitempty"`
}

func entryFrom(r pipeline.Report) Entry {
	return Entry{
		RunID:        r.RunID,
		ChatID:       r.ChatID,
		MessageID:    r.MessageID,
		Kind:         string(r.Kind),
		StartedAt:    r.StartedAt.UTC().Format(time.RFC3339),
		Duration:     r.Duration,
		Action:       string(r.Action),
		Target:       r.Target,
		Reason:       r.Reason,
		Redirected:   r.Redirected,
		Delivered:    r.Delivered(),
		UploadStatus: r.UploadStatus,
		UploadBody:   r.UploadBody,
		CalloutFired: r.CalloutFired,
		ArchiveKey:   r.ArchiveKey,
		Error:        r.Error,
	}
}

type Store struct {
	db    itemPutter
	table string
}

// New writes to table. endpoint overrides the service URL, e.g. for a local
// DynamoDB.
func New(cfg aws.Config, table, endpoint string) *Store {
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &Store{db: client, table: table}
}

// Report implements pipeline.Reporter.
func (s *Store) Report(ctx context.Context, r pipeline.Report) error {
	item, err := attributevalue.MarshalMap(entryFrom(r))
	if err != nil {
		return fmt.Errorf("audit: marshal: %w", err)
	}
	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("audit: put %s: %w", r.RunID, err)
	}
	return nil
}
