/*
Package metrics defines and registers the Prometheus metrics exposed by
ingestflow: resource pool sizes, refresh outcomes/latency, and façade ingest
outcomes/latency. Metrics are registered at package init against the default
registry and exposed via Handler() for scraping.

	timer := metrics.NewTimer()
	// ... do work ...
	timer.ObserveDurationVec(metrics.RefreshDuration, "resources")
*/
package metrics
