package resource

import (
	"sync"

	"github.com/cuemby/ingestflow/pkg/storage"
)

// CredentialedHandle is one endpoint vended by the control plane: a base URL
// plus a SAS-style query string, good until the next successful refresh.
// Typed storage clients are built lazily and cached for the handle's
// lifetime: handles are immutable, typed clients are lazy.
type CredentialedHandle struct {
	Kind    Kind
	URL     string
	SAS     string
	Options storage.QueueRequestOptions

	once   sync.Once
	blob   storage.BlobContainerClient
	queue  storage.QueueClient
	table  storage.TableClient
}

// NewCredentialedHandle builds a handle for the given kind, URL and SAS.
func NewCredentialedHandle(kind Kind, url, sas string, opts storage.QueueRequestOptions) *CredentialedHandle {
	return &CredentialedHandle{Kind: kind, URL: url, SAS: sas, Options: opts}
}

func (h *CredentialedHandle) init() {
	h.blob = storage.NewHTTPBlobContainerClient(h.URL, h.SAS)
	h.queue = storage.NewHTTPQueueClient(h.URL, h.SAS, h.Options)
	h.table = storage.NewHTTPTableClient(h.URL, h.SAS)
}

// BlobContainerClient returns this handle's typed blob client, constructing
// it on first use.
func (h *CredentialedHandle) BlobContainerClient() storage.BlobContainerClient {
	h.once.Do(h.init)
	return h.blob
}

// QueueClient returns this handle's typed queue client, constructing it on
// first use.
func (h *CredentialedHandle) QueueClient() storage.QueueClient {
	h.once.Do(h.init)
	return h.queue
}

// TableClient returns this handle's typed table client, constructing it on
// first use.
func (h *CredentialedHandle) TableClient() storage.TableClient {
	h.once.Do(h.init)
	return h.table
}
