package resource

import (
	"time"

	"github.com/cuemby/ingestflow/pkg/storage"
)

// Config configures a Manager. Zero-valued fields are filled with
// defaults by NewManager.
type Config struct {
	// DefaultRefreshInterval is the success-cadence for both refreshers.
	DefaultRefreshInterval time.Duration
	// FailureRefreshInterval is the cadence used after a failed refresh.
	FailureRefreshInterval time.Duration
	// UploadTimeout bounds storage-adjacent control-plane calls.
	UploadTimeout time.Duration
	// QueueRequestOptions seeds the options applied to queue handles
	// constructed before the first SetQueueRequestOptions call.
	QueueRequestOptions storage.QueueRequestOptions
}

const (
	defaultRefreshInterval = time.Hour
	failureRefreshInterval = 15 * time.Minute
	defaultUploadTimeout   = 10 * time.Minute
)

func (c Config) withDefaults() Config {
	if c.DefaultRefreshInterval <= 0 {
		c.DefaultRefreshInterval = defaultRefreshInterval
	}
	if c.FailureRefreshInterval <= 0 {
		c.FailureRefreshInterval = failureRefreshInterval
	}
	if c.UploadTimeout <= 0 {
		c.UploadTimeout = defaultUploadTimeout
	}
	return c
}
