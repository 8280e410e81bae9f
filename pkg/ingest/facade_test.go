package ingest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cuemby/ingestflow/pkg/resource"
)

type stubControlPlane struct {
	blobURL, queueURL, tableURL string
}

func (s *stubControlPlane) ShowIngestionResources(ctx context.Context) ([]resource.ResourceRow, error) {
	return []resource.ResourceRow{
		{Kind: resource.KindTempStorage, URL: s.blobURL, SAS: ""},
		{Kind: resource.KindSecuredReadyForAggregationQueue, URL: s.queueURL, SAS: ""},
		{Kind: resource.KindIngestionsStatusTable, URL: s.tableURL, SAS: ""},
		{Kind: resource.KindFailedIngestionsQueue, URL: s.queueURL, SAS: ""},
		{Kind: resource.KindSuccessfulIngestionsQueue, URL: s.queueURL, SAS: ""},
	}, nil
}

func (s *stubControlPlane) GetIdentityToken(ctx context.Context) (string, error) {
	return "test-token", nil
}

func (s *stubControlPlane) ShowVersion(ctx context.Context) (string, error) {
	return "Kusto", nil
}

func newTestManager(t *testing.T, blobURL, queueURL, tableURL string) *resource.Manager {
	t.Helper()
	m := resource.NewManager(&stubControlPlane{blobURL: blobURL, queueURL: queueURL, tableURL: tableURL}, resource.Config{
		DefaultRefreshInterval: time.Hour,
		FailureRefreshInterval: time.Minute,
		UploadTimeout:          5 * time.Second,
	})
	t.Cleanup(m.Close)
	return m
}

func TestIngestFromFileSuccess(t *testing.T) {
	var queueHits int
	var mu sync.Mutex

	blobSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer blobSrv.Close()

	queueSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queueHits++
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer queueSrv.Close()

	tableSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer tableSrv.Close()

	mgr := newTestManager(t, blobSrv.URL, queueSrv.URL, tableSrv.URL)
	ig := NewIngestor(mgr)

	dir := t.TempDir()
	path := filepath.Join(dir, "events.csv")
	if err := os.WriteFile(path, []byte("id,value\n1,a\n"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	result, err := ig.IngestFromFile(context.Background(), FileSource{Path: path}, IngestionProperties{
		DatabaseName: "NetDefaultDB",
		TableName:    "Events",
		Format:       "csv",
	})
	if err != nil {
		t.Fatalf("IngestFromFile failed: %v", err)
	}
	if _, ok := result.(IngestionStatusResult); !ok {
		t.Fatalf("got %T, want IngestionStatusResult", result)
	}
	if status := result.IngestionStatus(); status.Status != StatusQueued {
		t.Errorf("got status %v, want Queued", status.Status)
	}

	mu.Lock()
	defer mu.Unlock()
	if queueHits != 1 {
		t.Errorf("got %d queue posts, want 1", queueHits)
	}
}

func TestIngestFromFileTableReport(t *testing.T) {
	blobSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer blobSrv.Close()
	queueSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer queueSrv.Close()
	var tableHits int
	tableSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tableHits++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer tableSrv.Close()

	mgr := newTestManager(t, blobSrv.URL, queueSrv.URL, tableSrv.URL)
	ig := NewIngestor(mgr)

	dir := t.TempDir()
	path := filepath.Join(dir, "events.csv")
	if err := os.WriteFile(path, []byte("id,value\n1,a\n"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	result, err := ig.IngestFromFile(context.Background(), FileSource{Path: path}, IngestionProperties{
		DatabaseName: "NetDefaultDB",
		TableName:    "Events",
		Format:       "csv",
		ReportLevel:  ReportLevelFailuresAndSuccesses,
		ReportMethod: ReportMethodTable,
	})
	if err != nil {
		t.Fatalf("IngestFromFile failed: %v", err)
	}
	tableResult, ok := result.(TableReportIngestionResult)
	if !ok {
		t.Fatalf("got %T, want TableReportIngestionResult", result)
	}
	if tableResult.PartitionKey == "" || tableResult.RowKey != tableResult.PartitionKey {
		t.Errorf("expected matching non-empty partition/row key, got %q/%q", tableResult.PartitionKey, tableResult.RowKey)
	}
	if tableResult.TableConnectionString == "" {
		t.Error("expected a non-empty table connection string")
	}
	if tableHits != 1 {
		t.Errorf("got %d table inserts, want 1", tableHits)
	}
}

func TestIngestFromFileInvalidProperties(t *testing.T) {
	ig := NewIngestor(newTestManager(t, "http://blob.invalid", "http://queue.invalid", "http://table.invalid"))

	path := filepath.Join(t.TempDir(), "events.csv")
	if err := os.WriteFile(path, []byte("id,value\n1,a\n"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := ig.IngestFromFile(context.Background(), FileSource{Path: path}, IngestionProperties{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Op != "validate" {
		t.Fatalf("expected a validate ClientError, got %v (%T)", err, err)
	}
}

func TestIngestFromReaderSuccess(t *testing.T) {
	blobSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer blobSrv.Close()
	queueSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer queueSrv.Close()
	tableSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer tableSrv.Close()

	mgr := newTestManager(t, blobSrv.URL, queueSrv.URL, tableSrv.URL)
	ig := NewIngestor(mgr)

	result, err := ig.IngestFromReader(context.Background(), ReaderSource{
		Reader: &byteReader{data: []byte("a,b\n1,2\n")},
		Name:   "stream.csv",
	}, IngestionProperties{DatabaseName: "db", TableName: "table", Format: "csv"})
	if err != nil {
		t.Fatalf("IngestFromReader failed: %v", err)
	}
	if result.IngestionStatus().IngestionSourcePath == "" {
		t.Error("expected a non-empty blob path")
	}
}

type byteReader struct {
	data []byte
	pos  int
}

func (b *byteReader) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}
