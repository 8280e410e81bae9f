package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cuemby/ingestflow/pkg/log"
	"github.com/cuemby/ingestflow/pkg/metrics"
	"github.com/cuemby/ingestflow/pkg/resource"
	"github.com/cuemby/ingestflow/pkg/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newSourceID() string { return uuid.New().String() }

// Ingestor is the public entry point for queued ingestion: it takes one of
// the four source kinds plus IngestionProperties and drives the full
// upload-then-enqueue reduction chain.
type Ingestor struct {
	manager    *resource.Manager
	compressor Compressor
	logger     zerolog.Logger
}

// NewIngestor wraps a resource.Manager with the ingest façade. The manager
// is expected to already be running (constructed via resource.NewManager);
// Ingestor never starts or stops its refresh scheduler.
func NewIngestor(manager *resource.Manager) *Ingestor {
	return &Ingestor{
		manager:    manager,
		compressor: GzipCompressor{},
		logger:     log.WithComponent("ingest.Ingestor"),
	}
}

// IngestFromBlob enqueues a blob that already lives in the service's own
// storage account. This is the only source kind that skips the upload step.
func (ig *Ingestor) IngestFromBlob(ctx context.Context, src BlobSource, props IngestionProperties) (IngestResult, error) {
	return ig.run(ctx, "blob", props, func(sourceID string) (string, int64, error) {
		return src.BlobPath, src.RawDataSize, nil
	})
}

// IngestFromFile uploads a local file to temp storage, then enqueues it.
func (ig *Ingestor) IngestFromFile(ctx context.Context, src FileSource, props IngestionProperties) (IngestResult, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, &ClientError{Op: "ingestFromFile", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ClientError{Op: "ingestFromFile", Err: err}
	}

	return ig.run(ctx, "file", props, func(sourceID string) (string, int64, error) {
		blobURL, _, err := ig.uploadToTempStorage(ctx, sourceID, props.DatabaseName, props.TableName, src.Path, props.Format, f)
		return blobURL, info.Size(), err
	})
}

// IngestFromReader uploads an arbitrary stream to temp storage, then
// enqueues it. name is used only to derive the uploaded blob's base name
// (its own extension is stripped) and to decide whether to compress.
func (ig *Ingestor) IngestFromReader(ctx context.Context, src ReaderSource, props IngestionProperties) (IngestResult, error) {
	return ig.run(ctx, "stream", props, func(sourceID string) (string, int64, error) {
		return ig.uploadToTempStorage(ctx, sourceID, props.DatabaseName, props.TableName, src.Name, props.Format, src.Reader)
	})
}

// IngestFromResultSet serializes a ResultSet to CSV, uploads it, then
// enqueues it. props.Format is forced to "csv" regardless of caller input.
func (ig *Ingestor) IngestFromResultSet(ctx context.Context, src ResultSetSource, props IngestionProperties) (IngestResult, error) {
	props.Format = "csv"

	data, err := serializeResultSet(src.Set)
	if err != nil {
		return nil, &ClientError{Op: "ingestFromResultSet", Err: err}
	}

	return ig.run(ctx, "resultset", props, func(sourceID string) (string, int64, error) {
		return ig.uploadToTempStorage(ctx, sourceID, props.DatabaseName, props.TableName, sourceID+".csv", "csv", bytes.NewReader(data))
	})
}

// run is the shared tail of every IngestFrom* method: validate properties,
// obtain a source id and a ready-to-enqueue blob path (via upload, which
// varies per source kind), attach the identity token, build the blob info
// document, optionally write a status table row, and post to the queue.
func (ig *Ingestor) run(ctx context.Context, sourceKind string, props IngestionProperties, upload func(sourceID string) (blobPath string, rawSize int64, err error)) (IngestResult, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.IngestDuration, sourceKind)

	if err := props.Validate(); err != nil {
		metrics.IngestTotal.WithLabelValues(sourceKind, "invalid").Inc()
		return nil, err
	}

	sourceID := newSourceID()
	logger := log.WithSourceID(ig.logger, sourceID)

	blobPath, rawSize, err := upload(sourceID)
	if err != nil {
		metrics.IngestTotal.WithLabelValues(sourceKind, "upload_failed").Inc()
		return nil, &ClientError{Op: "upload", Err: err}
	}
	if rawSize == 0 {
		logger.Warn().Msg("raw data size hint missing; ingestion will proceed without it")
	}

	token, err := ig.manager.GetIdentityToken()
	if err != nil {
		metrics.IngestTotal.WithLabelValues(sourceKind, "token_failed").Inc()
		return nil, err
	}
	props.AuthorizationContext = token

	info := IngestionBlobInfo{
		BlobPath:             blobPath,
		DatabaseName:         props.DatabaseName,
		TableName:            props.TableName,
		RawDataSize:          rawSize,
		ReportLevel:          props.ReportLevel,
		ReportMethod:         props.ReportMethod,
		FlushImmediately:     props.FlushImmediately,
		ValidationPolicy:     props.ValidationPolicy,
		AdditionalProperties: props.AdditionalProperties,
		Id:                   sourceID,
	}

	status := IngestionStatus{
		Database:            props.DatabaseName,
		Table:               props.TableName,
		Status:              StatusPending,
		UpdatedOn:           time.Now().UTC(),
		IngestionSourceID:   sourceID,
		IngestionSourcePath: blobPath,
	}

	var tableConnectionString string
	wantsTableReport := props.ReportLevel != ReportLevelNone && props.ReportMethod == ReportMethodTable

	if wantsTableReport {
		tableHandle, err := ig.manager.GetStatusTable()
		if err != nil {
			metrics.IngestTotal.WithLabelValues(sourceKind, "status_table_failed").Inc()
			return nil, err
		}
		entity := storage.TableEntity{
			PartitionKey: sourceID,
			RowKey:       sourceID,
			Properties: map[string]any{
				"Database":            status.Database,
				"Table":               status.Table,
				"Status":              string(StatusPending),
				"UpdatedOn":           status.UpdatedOn,
				"IngestionSourceId":   sourceID,
				"IngestionSourcePath": blobPath,
			},
		}
		if err := tableHandle.TableClient().InsertEntity(ctx, entity); err != nil {
			metrics.IngestTotal.WithLabelValues(sourceKind, "status_table_failed").Inc()
			return nil, resource.NewServiceError("insertStatusEntity", err)
		}
		tableConnectionString = tableHandle.URL + "?" + tableHandle.SAS
		info.IngestionStatusInTable = &IngestionStatusInTable{
			TableConnectionString: tableConnectionString,
			PartitionKey:          sourceID,
			RowKey:                sourceID,
		}
	}

	body, err := json.Marshal(info)
	if err != nil {
		metrics.IngestTotal.WithLabelValues(sourceKind, "encode_failed").Inc()
		return nil, &ClientError{Op: "encodeBlobInfo", Err: err}
	}

	queueHandle, err := ig.manager.GetQueue()
	if err != nil {
		metrics.IngestTotal.WithLabelValues(sourceKind, "queue_failed").Inc()
		return nil, err
	}
	if err := queueHandle.QueueClient().PostMessage(ctx, body); err != nil {
		metrics.IngestTotal.WithLabelValues(sourceKind, "queue_failed").Inc()
		return nil, resource.NewServiceError("postIngestMessage", err)
	}

	if !wantsTableReport {
		status.Status = StatusQueued
	}
	logger.Info().Str("blob_path", blobPath).Msg("ingestion queued")
	metrics.IngestTotal.WithLabelValues(sourceKind, "success").Inc()

	if wantsTableReport {
		return TableReportIngestionResult{
			TableConnectionString: tableConnectionString,
			PartitionKey:          sourceID,
			RowKey:                sourceID,
			Status:                status,
		}, nil
	}
	return IngestionStatusResult{Status: status}, nil
}

// uploadToTempStorage compresses r (unless already compressed) and uploads
// it to a temp storage handle, returning the blob path the queue message
// should reference.
func (ig *Ingestor) uploadToTempStorage(ctx context.Context, sourceID, db, table, name, format string, r io.Reader) (string, int64, error) {
	handle, err := ig.manager.GetTempStorage()
	if err != nil {
		return "", 0, err
	}

	compressed := ShouldCompress(ig.compressor, name)

	upload := r
	if compressed {
		upload, err = ig.compressor.Compress(r)
		if err != nil {
			return "", 0, fmt.Errorf("compress: %w", err)
		}
	}

	blobName, _ := BuildBlobName(db, table, name, format, compressed)
	blobURL, err := handle.BlobContainerClient().UploadBlob(ctx, blobName, upload)
	if err != nil {
		return "", 0, fmt.Errorf("upload: %w", err)
	}
	return blobURL, 0, nil
}
