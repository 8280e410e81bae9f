/*
Package ingest implements the ingestion façade: it takes a source
descriptor (blob URL, file, reader, or result set) plus IngestionProperties
and drives upload, queue notification, and optional status-table tracking
through a resource.Manager.

Every source reduces to the blob form: file and stream sources upload to
temp storage first, result sets are serialized to CSV and reduce through
the stream path, and a blob source is what finally gets enqueued.
*/
package ingest
