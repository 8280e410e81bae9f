package storage

import (
	"context"
	"io"
	"time"
)

// BlobContainerClient uploads a payload to a blob container addressed by a
// CredentialedHandle and reports the authenticated URL of the stored blob.
type BlobContainerClient interface {
	UploadBlob(ctx context.Context, blobName string, body io.Reader) (blobURL string, err error)
}

// QueueClient posts a single message to an ingestion-notification queue.
type QueueClient interface {
	PostMessage(ctx context.Context, body []byte) error
}

// TableClient inserts a single entity into the status table.
type TableClient interface {
	InsertEntity(ctx context.Context, entity TableEntity) error
}

// TableEntity mirrors an IngestionStatus row: partition key and row key are
// both the ingestion source id, and Properties carries the status fields.
type TableEntity struct {
	PartitionKey string
	RowKey       string
	Properties   map[string]any
}

// QueueRequestOptions is applied to queue handles constructed after
// Manager.SetQueueRequestOptions is called; already-constructed handles keep
// whatever options were in effect when they were built.
type QueueRequestOptions struct {
	MaxRetries    int
	RetryInterval time.Duration
	Timeout       time.Duration
}
