package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"
)

// HTTPQueueClient is the default QueueClient: it POSTs the base64-encoded
// message body to "<baseURL>/messages?<sas>".
type HTTPQueueClient struct {
	BaseURL    string
	SAS        string
	Options    QueueRequestOptions
	HTTPClient *http.Client
}

// NewHTTPQueueClient builds a client bound to one queue handle, applying the
// QueueRequestOptions in effect at construction time.
func NewHTTPQueueClient(baseURL, sas string, opts QueueRequestOptions) *HTTPQueueClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPQueueClient{
		BaseURL:    baseURL,
		SAS:        sas,
		Options:    opts,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// PostMessage implements QueueClient, retrying locally per Options before
// giving up. This local retry is independent of resource.RetryPolicy, which
// governs control-plane calls, not queue posts.
func (c *HTTPQueueClient) PostMessage(ctx context.Context, body []byte) error {
	encoded := base64.StdEncoding.EncodeToString(body)
	url := c.BaseURL + "/messages" + "?" + c.SAS

	attempts := c.Options.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte(xmlEnvelope(encoded))))
		if err != nil {
			return fmt.Errorf("build queue request: %w", err)
		}
		req.Header.Set("Content-Type", "application/xml")

		resp, err := c.client().Do(req)
		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			if resp.StatusCode < 300 {
				return nil
			}
			lastErr = fmt.Errorf("post message: unexpected status %s", resp.Status)
		}

		if attempt < attempts-1 && c.Options.RetryInterval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.Options.RetryInterval):
			}
		}
	}
	return lastErr
}

func (c *HTTPQueueClient) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func xmlEnvelope(base64Body string) string {
	return "<QueueMessage><MessageText>" + base64Body + "</MessageText></QueueMessage>"
}
