// Package health provides small, composable reachability checks.
//
// ingestflow uses it in two places: the CLI's healthcheck command uses
// HTTPChecker to probe whether a configured control-plane endpoint is
// reachable before issuing a management command through it, and
// resource.Manager folds each resource refresh outcome into a Status. The
// Checker interface and HTTPChecker builder are intentionally generic —
// they carry no ingestion-specific assumptions. resource.Manager's
// service-type probe does not use this package.
package health
