package resource

import (
	"testing"

	"github.com/cuemby/ingestflow/pkg/storage"
)

func TestEndpointPoolBasicRotation(t *testing.T) {
	h1 := NewCredentialedHandle(KindTempStorage, "https://a.blob/c1", "sas1", storage.QueueRequestOptions{})
	h2 := NewCredentialedHandle(KindTempStorage, "https://a.blob/c2", "sas2", storage.QueueRequestOptions{})
	h3 := NewCredentialedHandle(KindTempStorage, "https://a.blob/c3", "sas3", storage.QueueRequestOptions{})

	pool := NewEndpointPool(KindTempStorage, []*CredentialedHandle{h1, h2, h3})

	// The cursor is pre-incremented before indexing, so with size >= 2 the
	// first call returns index 1, not index 0 (spec §4.1 / S1).
	got := []*CredentialedHandle{pool.Next(), pool.Next(), pool.Next(), pool.Next()}
	want := []*CredentialedHandle{h2, h3, h1, h2}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d: got handle %v, want %v", i, got[i].URL, want[i].URL)
		}
	}
}

func TestEndpointPoolEmpty(t *testing.T) {
	pool := NewEndpointPool(KindTempStorage, nil)
	if !pool.Empty() {
		t.Fatal("expected empty pool to report Empty() == true")
	}
	if pool.Len() != 0 {
		t.Fatalf("expected Len() == 0, got %d", pool.Len())
	}
}

func TestEndpointPoolSingleHandle(t *testing.T) {
	h1 := NewCredentialedHandle(KindTempStorage, "https://a.blob/c1", "sas1", storage.QueueRequestOptions{})
	pool := NewEndpointPool(KindTempStorage, []*CredentialedHandle{h1})

	for i := 0; i < 5; i++ {
		if got := pool.Next(); got != h1 {
			t.Fatalf("call %d: got %v, want the single handle", i, got.URL)
		}
	}
}
