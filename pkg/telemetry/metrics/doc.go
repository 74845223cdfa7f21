// Package metrics provides Prometheus metrics collection for yaproxy.
//
// # Metrics Categories
//
//   - HTTP: inbound request count, duration and in-flight gauge, labelled by
//     route pattern
//   - Upstream: Yandex Music API call count, latency, errors and health
//   - Resolution: download link outcomes and the codec of the chosen descriptor
//   - History: record writes and retention pruning
//
// Track and user identifiers are never used as labels.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	collector.RecordResolution("success", "mp3", false, 180*time.Millisecond)
package metrics
