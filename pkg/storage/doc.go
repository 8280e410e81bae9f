// Package storage names the storage/queue/table SDKs ingestflow treats as
// black-box collaborators: it defines the narrow interfaces the ingest
// façade needs (BlobContainerClient, QueueClient, TableClient) and ships one
// minimal HTTP-backed implementation of each, built directly from a
// CredentialedHandle's base URL and SAS-style query string. Production
// deployments may swap in a real storage/queue/table SDK client that
// satisfies these interfaces without touching resource or ingest.
package storage
