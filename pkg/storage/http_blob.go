package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPBlobContainerClient is the default BlobContainerClient: it PUTs the
// payload straight to "<baseURL>/<blobName>?<sas>", matching the handle's
// URL layout.
type HTTPBlobContainerClient struct {
	BaseURL    string
	SAS        string
	HTTPClient *http.Client
}

// NewHTTPBlobContainerClient builds a client bound to one container handle.
func NewHTTPBlobContainerClient(baseURL, sas string) *HTTPBlobContainerClient {
	return &HTTPBlobContainerClient{
		BaseURL:    baseURL,
		SAS:        sas,
		HTTPClient: &http.Client{Timeout: 10 * time.Minute},
	}
}

// UploadBlob implements BlobContainerClient.
func (c *HTTPBlobContainerClient) UploadBlob(ctx context.Context, blobName string, body io.Reader) (string, error) {
	url := c.BaseURL + "/" + blobName + "?" + c.SAS

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("x-ms-blob-type", "BlockBlob")

	resp, err := c.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("upload blob %s: %w", blobName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload blob %s: unexpected status %s", blobName, resp.Status)
	}

	return url, nil
}

func (c *HTTPBlobContainerClient) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
