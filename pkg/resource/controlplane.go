package resource

import "context"

// ResourceRow is one row returned by ShowIngestionResources: a resource kind,
// its authenticated base URL, and the SAS-style query string that
// authorizes requests against it.
type ResourceRow struct {
	Kind Kind
	URL  string
	SAS  string
}

// ControlPlaneClient is the narrow surface Manager needs from the ingestion
// control plane. Implementations translate these three calls into whatever
// wire protocol the backing service speaks; resource never depends on the
// protocol directly. A failure should be returned as a *ControlPlaneError so
// RetryPolicy and the refresh logic can classify it correctly.
type ControlPlaneClient interface {
	// ShowIngestionResources lists every live resource endpoint.
	ShowIngestionResources(ctx context.Context) ([]ResourceRow, error)
	// GetIdentityToken fetches a fresh bearer token for blob/queue/table
	// access.
	GetIdentityToken(ctx context.Context) (string, error)
	// ShowVersion is a cheap, idempotent call used by Manager's readiness
	// probe; it never feeds the resource or token refresh cycles.
	ShowVersion(ctx context.Context) (string, error)
}
