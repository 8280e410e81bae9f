package ingest

import "io"

// SourceKind identifies which of the façade's four entry points produced
// a given source descriptor.
type SourceKind int

const (
	SourceBlob SourceKind = iota
	SourceFile
	SourceReader
	SourceResultSet
)

// BlobSource points at data that already sits in the service's own
// storage account, ready to enqueue as-is.
type BlobSource struct {
	BlobPath     string
	RawDataSize  int64
}

// FileSource points at a file on local disk that must be uploaded to
// temp storage before it can be enqueued.
type FileSource struct {
	Path string
}

// ReaderSource wraps an arbitrary stream. Name is used only to derive the
// blob's base name and to decide whether to compress; it need not
// correspond to a real file.
type ReaderSource struct {
	Reader io.Reader
	Name   string
}

// ResultSet is the minimal interface Ingestor needs to serialize an
// in-memory table to CSV before uploading it as the "result set" source
// kind.
type ResultSet interface {
	Columns() []string
	// Next advances to the next row, returning false when exhausted or
	// on error (callers should check Err after Next returns false).
	Next() bool
	// Row returns the current row's values as strings, in column order.
	Row() []string
	Err() error
}

// ResultSetSource wraps a ResultSet for ingestion via the stream path.
type ResultSetSource struct {
	Set ResultSet
}
