package resource

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cuemby/ingestflow/pkg/health"
	"github.com/cuemby/ingestflow/pkg/log"
	"github.com/cuemby/ingestflow/pkg/metrics"
	"github.com/cuemby/ingestflow/pkg/storage"
	"github.com/rs/zerolog"
)

// Manager is the thread-safe façade over one control plane's resources and
// identity token. It is instance-scoped: an application may hold several,
// one per control plane, with no shared global state.
type Manager struct {
	cfg    Config
	client ControlPlaneClient
	retry  *RetryPolicy
	logger zerolog.Logger

	snapshotMu sync.RWMutex
	snapshot   *ResourceSnapshot
	refreshing atomic.Bool

	tokenMu    sync.RWMutex
	token      string
	tokenReady bool
	tokenBusy  atomic.Bool

	optsMu  sync.Mutex
	options storage.QueueRequestOptions

	scheduler *RefreshScheduler

	healthMu     sync.Mutex
	healthStatus *health.Status
	healthCfg    health.Config

	closeOnce sync.Once
}

// NewManager constructs a Manager, performs the initial synchronous refresh
// of both resources and the identity token, and starts the background
// refresh scheduler. A failure in the initial refresh is logged but does
// not prevent construction — callers see it surfaced on first use, via an
// on-demand refresh that then fails.
func NewManager(client ControlPlaneClient, cfg Config) *Manager {
	cfg = cfg.withDefaults()
	healthCfg := health.DefaultConfig()
	healthCfg.Retries = 3

	m := &Manager{
		cfg:          cfg,
		client:       client,
		retry:        NewRetryPolicy(),
		logger:       log.WithComponent("resource.Manager"),
		snapshot:     emptySnapshot(),
		options:      cfg.QueueRequestOptions,
		healthStatus: health.NewStatus(),
		healthCfg:    healthCfg,
	}

	m.refreshResources()
	m.refreshIdentityToken()

	m.scheduler = NewRefreshScheduler(cfg.DefaultRefreshInterval, cfg.FailureRefreshInterval, m.logger,
		m.refreshResourcesErr, m.refreshIdentityTokenErr)
	m.scheduler.StartAfterInitialRun()

	return m
}

func (m *Manager) getHandle(kind Kind) (*CredentialedHandle, error) {
	m.snapshotMu.RLock()
	pool := m.snapshot.Pool(kind)
	if !pool.Empty() {
		h := pool.Next()
		m.snapshotMu.RUnlock()
		return h, nil
	}
	m.snapshotMu.RUnlock()

	m.refreshResources()

	m.snapshotMu.RLock()
	defer m.snapshotMu.RUnlock()
	pool = m.snapshot.Pool(kind)
	if pool.Empty() {
		log.WithKind(m.logger, string(kind)).Error().Msg("pool still empty after on-demand refresh")
		return nil, NewServiceError("get"+string(kind), fmt.Errorf("pool for kind %s is empty after refresh", kind))
	}
	return pool.Next(), nil
}

// GetTempStorage returns one blob-container handle.
func (m *Manager) GetTempStorage() (*CredentialedHandle, error) { return m.getHandle(KindTempStorage) }

// GetQueue returns one ingestion-notification queue handle.
func (m *Manager) GetQueue() (*CredentialedHandle, error) {
	return m.getHandle(KindSecuredReadyForAggregationQueue)
}

// GetStatusTable returns one status-table handle.
func (m *Manager) GetStatusTable() (*CredentialedHandle, error) {
	return m.getHandle(KindIngestionsStatusTable)
}

// GetFailedQueue returns one failure-report queue handle.
func (m *Manager) GetFailedQueue() (*CredentialedHandle, error) {
	return m.getHandle(KindFailedIngestionsQueue)
}

// GetSuccessfulQueue returns one success-report queue handle.
func (m *Manager) GetSuccessfulQueue() (*CredentialedHandle, error) {
	return m.getHandle(KindSuccessfulIngestionsQueue)
}

// GetIdentityToken returns the current bearer token, triggering an on-demand
// refresh if none has been obtained yet.
func (m *Manager) GetIdentityToken() (string, error) {
	m.tokenMu.RLock()
	if m.tokenReady {
		tok := m.token
		m.tokenMu.RUnlock()
		return tok, nil
	}
	m.tokenMu.RUnlock()

	m.refreshIdentityToken()

	m.tokenMu.RLock()
	defer m.tokenMu.RUnlock()
	if !m.tokenReady {
		return "", NewServiceError("getIdentityToken", fmt.Errorf("unable to get identity token"))
	}
	return m.token, nil
}

// SetQueueRequestOptions updates the options applied to queue handles
// constructed after this call; already-built handles are unaffected.
func (m *Manager) SetQueueRequestOptions(opts storage.QueueRequestOptions) {
	m.optsMu.Lock()
	m.options = opts
	m.optsMu.Unlock()
}

func (m *Manager) currentQueueOptions() storage.QueueRequestOptions {
	m.optsMu.Lock()
	defer m.optsMu.Unlock()
	return m.options
}

// refreshResourcesErr adapts refreshResources to the error-returning shape
// RefreshScheduler expects.
func (m *Manager) refreshResourcesErr() error {
	return m.refreshResources()
}

// refreshResources performs an on-demand or scheduled refresh of the
// resource snapshot. Only one refresh runs at a time: a concurrent caller
// that finds refreshing already true returns immediately without
// contacting the control plane.
func (m *Manager) refreshResources() error {
	if !m.refreshing.CompareAndSwap(false, true) {
		metrics.RefreshTotal.WithLabelValues("resources", "skipped").Inc()
		return nil
	}
	defer m.refreshing.Store(false)

	start := time.Now()
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.RefreshDuration, "resources")

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.UploadTimeout)
	defer cancel()

	rows, err := Run(ctx, m.retry, func(ctx context.Context) ([]ResourceRow, error) {
		return m.client.ShowIngestionResources(ctx)
	})
	if err != nil {
		wrapped := classify("refreshResources", err)
		m.logger.Error().Err(wrapped).Msg("resource refresh failed")
		metrics.RefreshTotal.WithLabelValues("resources", "failure").Inc()
		m.recordHealth(false, wrapped.Error(), start)
		return wrapped
	}

	valid := make([]ResourceRow, 0, len(rows))
	for _, row := range rows {
		kind, ok := ParseKind(string(row.Kind))
		if !ok {
			err := NewFatalConfigError("refreshResources", fmt.Errorf("unknown resource kind %q", row.Kind))
			log.WithKind(m.logger, string(row.Kind)).Error().Err(err).Msg("resource refresh aborted")
			metrics.RefreshTotal.WithLabelValues("resources", "failure").Inc()
			m.recordHealth(false, err.Error(), start)
			return err
		}
		row.Kind = kind
		valid = append(valid, row)
	}

	snap := buildSnapshot(valid, m.currentQueueOptions())

	m.snapshotMu.Lock()
	m.snapshot = snap
	m.snapshotMu.Unlock()

	for _, k := range Kinds() {
		metrics.PoolSize.WithLabelValues(string(k)).Set(float64(snap.Pool(k).Len()))
	}
	metrics.RefreshTotal.WithLabelValues("resources", "success").Inc()
	m.recordHealth(true, "resources refreshed", start)
	return nil
}

// recordHealth folds one resource-refresh outcome into the manager's
// rolling health.Status, consulted by Health.
func (m *Manager) recordHealth(healthy bool, message string, start time.Time) {
	result := health.Result{
		Healthy:   healthy,
		Message:   message,
		CheckedAt: start,
		Duration:  time.Since(start),
	}
	m.healthMu.Lock()
	m.healthStatus.Update(result, m.healthCfg)
	m.healthMu.Unlock()
}

// Health reports the manager's resource-refresh health, tracked as
// consecutive successes/failures rather than a single snapshot so transient
// blips don't flip callers straight to unhealthy.
func (m *Manager) Health() health.Status {
	m.healthMu.Lock()
	defer m.healthMu.Unlock()
	return *m.healthStatus
}

// refreshIdentityTokenErr adapts refreshIdentityToken to the
// error-returning shape RefreshScheduler expects.
func (m *Manager) refreshIdentityTokenErr() error {
	return m.refreshIdentityToken()
}

// refreshIdentityToken performs an on-demand or scheduled refresh of the
// identity token. It uses its own lock and its own try-lock collapse flag,
// independent of resource refresh.
func (m *Manager) refreshIdentityToken() error {
	if !m.tokenBusy.CompareAndSwap(false, true) {
		metrics.RefreshTotal.WithLabelValues("token", "skipped").Inc()
		return nil
	}
	defer m.tokenBusy.Store(false)

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.RefreshDuration, "token")

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.UploadTimeout)
	defer cancel()

	tok, err := Run(ctx, m.retry, func(ctx context.Context) (string, error) {
		return m.client.GetIdentityToken(ctx)
	})
	if err != nil {
		wrapped := classify("refreshIdentityToken", err)
		m.logger.Error().Err(wrapped).Msg("identity token refresh failed")
		metrics.RefreshTotal.WithLabelValues("token", "failure").Inc()
		return wrapped
	}

	m.tokenMu.Lock()
	m.token = tok
	m.tokenReady = true
	m.tokenMu.Unlock()

	metrics.RefreshTotal.WithLabelValues("token", "success").Inc()
	return nil
}

// ProbeServiceType issues a one-shot, retry-free "show version" call and
// returns the ServiceType column, or "" if the call fails. Errors are
// swallowed and logged, never propagated.
func (m *Manager) ProbeServiceType(ctx context.Context) string {
	serviceType, err := m.client.ShowVersion(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("service type probe failed")
		return ""
	}
	return serviceType
}

// Close stops the background refresh scheduler. No new refresh task is
// scheduled after Close returns; in-flight refreshes are allowed to finish.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.scheduler != nil {
			m.scheduler.Stop()
		}
	})
}
