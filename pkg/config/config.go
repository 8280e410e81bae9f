// Package config loads ingestflow's YAML configuration file, following an
// unmarshal-then-default pattern rather than a flags-only surface.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/cuemby/ingestflow/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration surface for a control plane endpoint.
type Config struct {
	ControlPlaneEndpoint string `yaml:"controlPlaneEndpoint"`
	Database             string `yaml:"database"`

	DefaultRefreshIntervalMS int `yaml:"defaultRefreshInterval"`
	FailureRefreshIntervalMS int `yaml:"failureRefreshInterval"`
	UploadTimeoutMinutes     int `yaml:"uploadTimeoutMinutes"`

	QueueRequestOptions QueueRequestOptions `yaml:"queueRequestOptions"`

	Log LogConfig `yaml:"log"`
}

// QueueRequestOptions mirrors storage.QueueRequestOptions with YAML tags.
type QueueRequestOptions struct {
	MaxRetries      int `yaml:"maxRetries"`
	RetryIntervalMS int `yaml:"retryIntervalMs"`
	TimeoutSeconds  int `yaml:"timeoutSeconds"`
}

// LogConfig configures the ambient structured logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	JSONOutput bool   `yaml:"jsonOutput"`
}

const (
	defaultRefreshIntervalMS = 3_600_000
	failureRefreshIntervalMS = 900_000
	defaultUploadTimeoutMins = 10
)

// Load reads and parses the YAML file at path, filling in defaults for
// zero-valued fields.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.DefaultRefreshIntervalMS <= 0 {
		c.DefaultRefreshIntervalMS = defaultRefreshIntervalMS
	}
	if c.FailureRefreshIntervalMS <= 0 {
		c.FailureRefreshIntervalMS = failureRefreshIntervalMS
	}
	if c.UploadTimeoutMinutes <= 0 {
		c.UploadTimeoutMinutes = defaultUploadTimeoutMins
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return c
}

// DefaultRefreshInterval returns the success-cadence as a time.Duration.
func (c Config) DefaultRefreshInterval() time.Duration {
	return time.Duration(c.DefaultRefreshIntervalMS) * time.Millisecond
}

// FailureRefreshInterval returns the failure-cadence as a time.Duration.
func (c Config) FailureRefreshInterval() time.Duration {
	return time.Duration(c.FailureRefreshIntervalMS) * time.Millisecond
}

// UploadTimeout returns the per-call storage timeout as a time.Duration.
func (c Config) UploadTimeout() time.Duration {
	return time.Duration(c.UploadTimeoutMinutes) * time.Minute
}

// ToStorageOptions converts the YAML-friendly QueueRequestOptions into the
// storage package's runtime type.
func (c Config) ToStorageOptions() storage.QueueRequestOptions {
	return storage.QueueRequestOptions{
		MaxRetries:    c.QueueRequestOptions.MaxRetries,
		RetryInterval: time.Duration(c.QueueRequestOptions.RetryIntervalMS) * time.Millisecond,
		Timeout:       time.Duration(c.QueueRequestOptions.TimeoutSeconds) * time.Second,
	}
}
