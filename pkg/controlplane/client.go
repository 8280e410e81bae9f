// Package controlplane is the default HTTP implementation of
// resource.ControlPlaneClient: it posts Kusto-style management commands to a
// "/v1/rest/mgmt" endpoint and decodes the tabular response shape the
// control plane returns. It is a thin, swappable default — tests exercise
// resource.Manager against a hand-rolled fake, never this client.
package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cuemby/ingestflow/pkg/resource"
)

// Client talks to one control-plane endpoint over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a Client bound to endpoint (e.g.
// "https://cluster.region.kusto.windows.net"), with a per-request timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// mgmtRequest mirrors the minimal shape the control plane expects for a
// management command.
type mgmtRequest struct {
	CSL string `json:"csl"`
	DB  string `json:"db"`
}

// mgmtTable is one table in a Kusto-style tabular response: a list of column
// names followed by rows of untyped values in the same order.
type mgmtTable struct {
	Columns []struct {
		ColumnName string `json:"ColumnName"`
	} `json:"Columns"`
	Rows [][]any `json:"Rows"`
}

type mgmtResponse struct {
	Tables []mgmtTable `json:"Tables"`
}

func (c *Client) execute(ctx context.Context, command string) (mgmtTable, error) {
	body, err := json.Marshal(mgmtRequest{CSL: command, DB: "NetDefaultDB"})
	if err != nil {
		return mgmtTable{}, &resource.ControlPlaneError{Origin: resource.OriginClient, Err: fmt.Errorf("encode management command: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/rest/mgmt", bytes.NewReader(body))
	if err != nil {
		return mgmtTable{}, &resource.ControlPlaneError{Origin: resource.OriginClient, Err: fmt.Errorf("build management request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mgmtTable{}, &resource.ControlPlaneError{Origin: resource.OriginService, Err: fmt.Errorf("execute %q: %w", command, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		return mgmtTable{}, &resource.ControlPlaneError{Throttle: true, Origin: resource.OriginService, Err: fmt.Errorf("%q throttled: status %s", command, resp.Status)}
	}
	if resp.StatusCode >= 500 {
		return mgmtTable{}, &resource.ControlPlaneError{Origin: resource.OriginService, Err: fmt.Errorf("%q failed: status %s", command, resp.Status)}
	}
	if resp.StatusCode >= 400 {
		return mgmtTable{}, &resource.ControlPlaneError{Origin: resource.OriginClient, Err: fmt.Errorf("%q failed: status %s", command, resp.Status)}
	}

	var parsed mgmtResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return mgmtTable{}, &resource.ControlPlaneError{Origin: resource.OriginService, Err: fmt.Errorf("decode response to %q: %w", command, err)}
	}
	if len(parsed.Tables) == 0 {
		return mgmtTable{}, &resource.ControlPlaneError{Origin: resource.OriginService, Err: fmt.Errorf("%q returned no tables", command)}
	}
	return parsed.Tables[0], nil
}

func (t mgmtTable) columnIndex(name string) int {
	for i, c := range t.Columns {
		if c.ColumnName == name {
			return i
		}
	}
	return -1
}

// ShowIngestionResources implements resource.ControlPlaneClient.
func (c *Client) ShowIngestionResources(ctx context.Context) ([]resource.ResourceRow, error) {
	table, err := c.execute(ctx, ".get ingestion resources")
	if err != nil {
		return nil, err
	}

	kindIdx := table.columnIndex("ResourceTypeName")
	urlIdx := table.columnIndex("StorageRoot")
	if kindIdx < 0 || urlIdx < 0 {
		return nil, &resource.ControlPlaneError{Origin: resource.OriginService, Err: fmt.Errorf("missing ResourceTypeName/StorageRoot columns")}
	}

	rows := make([]resource.ResourceRow, 0, len(table.Rows))
	for _, r := range table.Rows {
		kindName, _ := r[kindIdx].(string)
		fullURL, _ := r[urlIdx].(string)
		baseURL, sas := splitURL(fullURL)
		rows = append(rows, resource.ResourceRow{
			Kind: resource.Kind(kindName),
			URL:  baseURL,
			SAS:  sas,
		})
	}
	return rows, nil
}

// GetIdentityToken implements resource.ControlPlaneClient.
func (c *Client) GetIdentityToken(ctx context.Context) (string, error) {
	table, err := c.execute(ctx, ".get kusto identity token")
	if err != nil {
		return "", err
	}
	if len(table.Rows) == 0 || len(table.Rows[0]) == 0 {
		return "", &resource.ControlPlaneError{Origin: resource.OriginService, Err: fmt.Errorf("identity token response had no rows")}
	}
	token, _ := table.Rows[0][0].(string)
	return token, nil
}

// ShowVersion implements resource.ControlPlaneClient.
func (c *Client) ShowVersion(ctx context.Context) (string, error) {
	table, err := c.execute(ctx, ".show version")
	if err != nil {
		return "", err
	}
	idx := table.columnIndex("ServiceType")
	if idx < 0 || len(table.Rows) == 0 {
		return "", &resource.ControlPlaneError{Origin: resource.OriginService, Err: fmt.Errorf("show version response had no ServiceType column")}
	}
	serviceType, _ := table.Rows[0][idx].(string)
	return serviceType, nil
}

// splitURL separates a full "https://host/path?sas" URL into its base and
// the raw query string, matching how resource handles are constructed.
func splitURL(full string) (baseURL, sas string) {
	for i := 0; i < len(full); i++ {
		if full[i] == '?' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
