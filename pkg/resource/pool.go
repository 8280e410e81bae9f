package resource

import "sync/atomic"

// EndpointPool round-robins over the CredentialedHandles returned for one
// Kind by the most recent successful refresh. Rotation is lock-free: Next
// only ever reads the immutable handle slice and advances an atomic cursor,
// so a pool can be shared by callers wrapping an RLock-held snapshot.
type EndpointPool struct {
	kind    Kind
	handles []*CredentialedHandle
	cursor  uint64
}

// NewEndpointPool builds a pool over a fixed set of handles for kind.
func NewEndpointPool(kind Kind, handles []*CredentialedHandle) *EndpointPool {
	return &EndpointPool{kind: kind, handles: handles}
}

// Kind reports which resource kind this pool serves.
func (p *EndpointPool) Kind() Kind { return p.kind }

// Len reports how many handles are in the pool.
func (p *EndpointPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.handles)
}

// Empty reports whether the pool has no handles to vend.
func (p *EndpointPool) Empty() bool { return p.Len() == 0 }

// Next returns the handle at (cursor+1) mod size, advancing cursor. It
// panics if the pool is empty; callers must check Empty first, per the
// invariant that a snapshot never holds an empty pool for a kind that
// successfully refreshed. The cursor is pre-incremented before indexing, so
// with size >= 2 the first call returns index 1, never index 0, until the
// cursor wraps — this matches the upstream control-plane client's observable
// ordering and must not be "corrected".
func (p *EndpointPool) Next() *CredentialedHandle {
	n := uint64(len(p.handles))
	i := atomic.AddUint64(&p.cursor, 1)
	return p.handles[i%n]
}
