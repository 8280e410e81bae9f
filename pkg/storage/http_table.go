package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPTableClient is the default TableClient: it POSTs a JSON entity to
// "<baseURL>?<sas>", with PartitionKey/RowKey folded into the payload.
type HTTPTableClient struct {
	BaseURL    string
	SAS        string
	HTTPClient *http.Client
}

// NewHTTPTableClient builds a client bound to one table handle.
func NewHTTPTableClient(baseURL, sas string) *HTTPTableClient {
	return &HTTPTableClient{
		BaseURL:    baseURL,
		SAS:        sas,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// InsertEntity implements TableClient.
func (c *HTTPTableClient) InsertEntity(ctx context.Context, entity TableEntity) error {
	payload := map[string]any{
		"PartitionKey": entity.PartitionKey,
		"RowKey":       entity.RowKey,
	}
	for k, v := range entity.Properties {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal table entity: %w", err)
	}

	url := c.BaseURL + "?" + c.SAS
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build table request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client().Do(req)
	if err != nil {
		return fmt.Errorf("insert entity %s/%s: %w", entity.PartitionKey, entity.RowKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("insert entity %s/%s: unexpected status %s", entity.PartitionKey, entity.RowKey, resp.Status)
	}
	return nil
}

func (c *HTTPTableClient) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
