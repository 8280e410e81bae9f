package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeControlPlane is a hand-rolled stub satisfying ControlPlaneClient,
// exercising real retry/classification code paths rather than mocking them
// away.
type fakeControlPlane struct {
	mu sync.Mutex

	resourceCalls int
	resourceRows  []ResourceRow
	resourceErr   error
	resourceDelay time.Duration

	tokenCalls int
	token      string
	tokenErr   error

	versionServiceType string
	versionErr         error
}

func (f *fakeControlPlane) ShowIngestionResources(ctx context.Context) ([]ResourceRow, error) {
	// resourceDelay keeps a refresh in flight long enough for concurrent
	// callers to overlap with it.
	time.Sleep(f.resourceDelay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resourceCalls++
	if f.resourceErr != nil {
		return nil, f.resourceErr
	}
	return f.resourceRows, nil
}

func (f *fakeControlPlane) GetIdentityToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCalls++
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return f.token, nil
}

func (f *fakeControlPlane) ShowVersion(ctx context.Context) (string, error) {
	if f.versionErr != nil {
		return "", f.versionErr
	}
	return f.versionServiceType, nil
}

func (f *fakeControlPlane) callCount() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resourceCalls, f.tokenCalls
}

func testConfig() Config {
	return Config{
		DefaultRefreshInterval: time.Hour,
		FailureRefreshInterval: 15 * time.Minute,
		UploadTimeout:          5 * time.Second,
	}
}

func TestManagerEmptyPoolTriggersRefresh(t *testing.T) {
	client := &fakeControlPlane{
		resourceRows: []ResourceRow{
			{Kind: KindSecuredReadyForAggregationQueue, URL: "https://a/q", SAS: "sas=x"},
		},
		token: "tok",
	}
	m := NewManager(client, testConfig())
	defer m.Close()

	h, err := m.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}
	if h.URL != "https://a/q" {
		t.Fatalf("got handle URL %q, want %q", h.URL, "https://a/q")
	}
}

func TestManagerConcurrentRefreshCollapses(t *testing.T) {
	client := &fakeControlPlane{
		resourceRows: []ResourceRow{
			{Kind: KindTempStorage, URL: "https://a/c", SAS: "sas=x"},
		},
		token:         "tok",
		resourceDelay: 100 * time.Millisecond,
	}
	m := NewManager(client, testConfig())
	defer m.Close()

	var wg sync.WaitGroup
	var successes int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.refreshResources(); err == nil {
				atomic.AddInt32(&successes, 1)
			}
		}()
	}
	wg.Wait()

	resourceCalls, _ := client.callCount()
	// One call happened during NewManager's initial refresh; the
	// concurrent burst should collapse to at most one additional call.
	if resourceCalls > 2 {
		t.Fatalf("expected at most 2 total resource calls (initial + one collapsed refresh), got %d", resourceCalls)
	}
}

func TestManagerUnknownKindFatal(t *testing.T) {
	client := &fakeControlPlane{
		resourceRows: []ResourceRow{
			{Kind: Kind("MysteryQueue"), URL: "https://a/q", SAS: "sas=x"},
		},
		token: "tok",
	}
	m := NewManager(client, testConfig())
	defer m.Close()

	_, err := m.GetQueue()
	if err == nil {
		t.Fatal("expected error for unknown kind, got nil")
	}

	var resErr *Error
	if !errors.As(err, &resErr) {
		t.Fatalf("expected a *resource.Error, got %v (%T)", err, err)
	}
}

func TestManagerIdentityTokenIndependence(t *testing.T) {
	client := &fakeControlPlane{
		resourceErr: &ControlPlaneError{Throttle: false, Origin: OriginService, Err: fmt.Errorf("resources down")},
		token:       "tok-123",
	}
	m := NewManager(client, testConfig())
	defer m.Close()

	tok, err := m.GetIdentityToken()
	if err != nil {
		t.Fatalf("expected token refresh to succeed independently, got error: %v", err)
	}
	if tok != "tok-123" {
		t.Fatalf("got token %q, want %q", tok, "tok-123")
	}

	_, err = m.GetQueue()
	if err == nil {
		t.Fatal("expected GetQueue to fail because resources refresh is broken")
	}
}

func TestManagerProbeServiceTypeSwallowsError(t *testing.T) {
	client := &fakeControlPlane{
		token:      "tok",
		versionErr: fmt.Errorf("boom"),
	}
	m := NewManager(client, testConfig())
	defer m.Close()

	got := m.ProbeServiceType(context.Background())
	if got != "" {
		t.Fatalf("expected empty string on probe failure, got %q", got)
	}
}

func TestManagerHealthTracksConsecutiveFailures(t *testing.T) {
	client := &fakeControlPlane{
		resourceErr: fmt.Errorf("control plane down"),
		token:       "tok",
	}
	m := NewManager(client, testConfig())
	defer m.Close()

	// A single blip (the failed initial refresh) should not flip the
	// manager unhealthy; it takes three consecutive failures.
	if !m.Health().Healthy {
		t.Fatal("expected a single failure not to flip healthy to false yet")
	}

	if err := m.refreshResources(); err == nil {
		t.Fatal("expected second refresh to fail")
	}
	if err := m.refreshResources(); err == nil {
		t.Fatal("expected third refresh to fail")
	}
	if m.Health().Healthy {
		t.Fatal("expected unhealthy after three consecutive failures")
	}

	client.mu.Lock()
	client.resourceErr = nil
	client.resourceRows = []ResourceRow{{Kind: KindTempStorage, URL: "https://a/c", SAS: "sas=x"}}
	client.mu.Unlock()

	if err := m.refreshResources(); err != nil {
		t.Fatalf("expected recovery refresh to succeed: %v", err)
	}
	if !m.Health().Healthy {
		t.Fatal("expected healthy after a successful refresh")
	}
}

func TestManagerProbeServiceTypeReturnsValue(t *testing.T) {
	client := &fakeControlPlane{
		token:              "tok",
		versionServiceType: "DataManagement",
	}
	m := NewManager(client, testConfig())
	defer m.Close()

	got := m.ProbeServiceType(context.Background())
	if got != "DataManagement" {
		t.Fatalf("got %q, want %q", got, "DataManagement")
	}
}
