/*
Package resource implements ingestflow's Resource Manager: a long-lived,
concurrent cache of short-lived, service-issued endpoint handles (storage
containers, queues, a status table) plus an identity token, all refreshed
periodically from a control-plane service.

# Architecture

	┌─────────────────────────── Manager ───────────────────────────┐
	│                                                                  │
	│  snapshot (RWMutex + atomic refresh-in-progress flag)           │
	│    ├── EndpointPool[SecuredReadyForAggregationQueue]            │
	│    ├── EndpointPool[FailedIngestionsQueue]                      │
	│    ├── EndpointPool[SuccessfulIngestionsQueue]                  │
	│    ├── EndpointPool[TempStorage]                                │
	│    └── EndpointPool[IngestionsStatusTable]                      │
	│                                                                  │
	│  token (separate RWMutex + atomic refresh-in-progress flag)     │
	│                                                                  │
	│  RefreshScheduler — two independent periodic tasks              │
	│    ├── refreshResources  (success: 1h, failure: 15m)            │
	│    └── refreshIdentityToken (success: 1h, failure: 15m)         │
	└──────────────────────────────────────────────────────────────────┘

Callers ask the Manager for a handle ("give me the next queue") or for the
current identity token; the Manager serves it from its cache, triggering a
synchronous on-demand refresh only when the relevant pool (or the token) is
still empty. Refresh collapses concurrent callers to a single control-plane
round trip via a non-blocking, CAS-based write attempt: a caller that loses
the race simply returns, trusting that the in-flight refresh (or the next
get) will make progress.
*/
package resource
