package resource

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RefreshScheduler runs two independent periodic tasks — resources and
// identity token — each rescheduling itself from its own completion handler
// rather than ticking on a fixed interval. This guarantees at most one
// instance of a given task is ever in flight.
type RefreshScheduler struct {
	defaultInterval time.Duration
	failureInterval time.Duration
	logger          zerolog.Logger

	resourcesFn func() error
	tokenFn     func() error

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewRefreshScheduler builds a scheduler that calls refreshResources and
// refreshToken on the configured cadence.
func NewRefreshScheduler(defaultInterval, failureInterval time.Duration, logger zerolog.Logger, refreshResources, refreshToken func() error) *RefreshScheduler {
	return &RefreshScheduler{
		defaultInterval: defaultInterval,
		failureInterval: failureInterval,
		logger:          logger,
		resourcesFn:     refreshResources,
		tokenFn:         refreshToken,
		stopCh:          make(chan struct{}),
	}
}

// Start launches both periodic tasks, each running for the first time at
// now (interval 0), then rescheduling itself from its own completion.
func (s *RefreshScheduler) Start() {
	s.start(false)
}

// StartAfterInitialRun launches both periodic tasks assuming the caller
// already performed their "at now" invocation itself (Manager does this so
// construction yields a populated snapshot and token from a single initial
// call, rather than a second redundant one from the scheduler's own first
// tick). Each task's first recurring tick fires after defaultInterval.
func (s *RefreshScheduler) StartAfterInitialRun() {
	s.start(true)
}

func (s *RefreshScheduler) start(skipFirstRun bool) {
	s.wg.Add(2)
	go func() { defer s.wg.Done(); s.runLoop("resources", skipFirstRun, s.resourcesFn) }()
	go func() { defer s.wg.Done(); s.runLoop("identity_token", skipFirstRun, s.tokenFn) }()
}

func (s *RefreshScheduler) runLoop(name string, skipFirstRun bool, refresh func() error) {
	initial := time.Duration(0)
	if skipFirstRun {
		initial = s.defaultInterval
	}
	timer := time.NewTimer(initial)
	defer timer.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-timer.C:
		}

		next := s.defaultInterval
		if err := refresh(); err != nil {
			s.logger.Error().Str("task", name).Err(err).Msg("scheduled refresh failed")
			next = s.failureInterval
		}

		select {
		case <-s.stopCh:
			return
		default:
			timer.Reset(next)
		}
	}
}

// Stop cancels the timers and drops any pending task invocations. Tasks
// already mid-flight are allowed to finish; Stop does not join them —
// refresh work is idempotent and safe to abandon because publication is
// atomic. Stop is safe to call more than once.
func (s *RefreshScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
