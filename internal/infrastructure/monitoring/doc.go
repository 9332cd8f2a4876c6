// Package monitoring provides Prometheus metrics for the search engine.
//
// Metrics cover the engine's hot paths: category searches, per-source
// extraction outcomes, cache effectiveness, and outbound fetches.
//
// Example Usage:
//
//	metrics := monitoring.NewMetrics()
//	metrics.RecordCacheHit("pulsemcp.com")
//	defer monitoring.NewTimer(metrics, "url_param", "pulsemcp.com").Stop("ok")
package monitoring
