package resource

import "github.com/cuemby/ingestflow/pkg/storage"

// ResourceSnapshot is the immutable result of one successful
// ShowIngestionResources call: one EndpointPool per Kind, empty for kinds
// the control plane returned no rows for. Snapshots are swapped wholesale under Manager's
// snapshotMu, never mutated in place.
type ResourceSnapshot struct {
	pools map[Kind]*EndpointPool
}

// emptySnapshot is the pre-refresh snapshot every Manager starts with: every
// kind maps to an empty pool, so Pool never returns a nil map entry.
func emptySnapshot() *ResourceSnapshot {
	pools := make(map[Kind]*EndpointPool, len(Kinds()))
	for _, k := range Kinds() {
		pools[k] = NewEndpointPool(k, nil)
	}
	return &ResourceSnapshot{pools: pools}
}

// buildSnapshot groups rows by kind and builds one handle-backed pool per
// kind, applying opts to every queue-backed handle it constructs. Every row
// already carries a known Kind: the caller aborts the refresh on an unknown
// one. Kinds absent from rows still get an empty pool.
func buildSnapshot(rows []ResourceRow, opts storage.QueueRequestOptions) *ResourceSnapshot {
	byKind := make(map[Kind][]*CredentialedHandle, len(Kinds()))
	for _, k := range Kinds() {
		byKind[k] = nil
	}
	for _, row := range rows {
		h := NewCredentialedHandle(row.Kind, row.URL, row.SAS, opts)
		byKind[row.Kind] = append(byKind[row.Kind], h)
	}

	pools := make(map[Kind]*EndpointPool, len(byKind))
	for k, handles := range byKind {
		pools[k] = NewEndpointPool(k, handles)
	}
	return &ResourceSnapshot{pools: pools}
}

// Pool returns the pool for kind, or an empty pool if the kind has never had
// a successful row.
func (s *ResourceSnapshot) Pool(kind Kind) *EndpointPool {
	if s == nil {
		return NewEndpointPool(kind, nil)
	}
	if p, ok := s.pools[kind]; ok {
		return p
	}
	return NewEndpointPool(kind, nil)
}
