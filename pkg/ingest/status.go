package ingest

import "time"

// Status is the lifecycle state of one ingestion, mirrored into the
// status table's Status property when table reporting is requested.
type Status string

const (
	StatusPending Status = "Pending"
	StatusQueued  Status = "Queued"
	StatusSuccess Status = "Success"
	StatusFailure Status = "Failure"
)

// IngestionStatus is the in-memory or table-row record of one ingestion's
// outcome.
type IngestionStatus struct {
	Database            string    `json:"database"`
	Table                string    `json:"table"`
	Status               Status    `json:"status"`
	UpdatedOn            time.Time `json:"updatedOn"`
	IngestionSourceID    string    `json:"ingestionSourceId"`
	IngestionSourcePath  string    `json:"ingestionSourcePath"`
}

// IngestResult is returned by every Ingestor.IngestFrom* call. It is either
// an IngestionStatusResult (queue-only reporting) or a
// TableReportIngestionResult (table reporting was requested and a status
// row was inserted), per spec §4.5 step 7.
type IngestResult interface {
	// IngestionStatus returns the in-memory status snapshot common to
	// both result kinds.
	IngestionStatus() IngestionStatus
}

// IngestionStatusResult wraps an in-memory status for callers that asked
// for queue-only reporting (no status table row was written).
type IngestionStatusResult struct {
	Status IngestionStatus
}

// IngestionStatus implements IngestResult.
func (r IngestionStatusResult) IngestionStatus() IngestionStatus { return r.Status }

// TableReportIngestionResult is returned when a status table row was
// inserted; it carries the coordinates needed to poll that row later.
type TableReportIngestionResult struct {
	TableConnectionString string
	PartitionKey          string
	RowKey                string
	Status                IngestionStatus
}

// IngestionStatus implements IngestResult.
func (r TableReportIngestionResult) IngestionStatus() IngestionStatus { return r.Status }
