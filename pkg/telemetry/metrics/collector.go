package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"yaproxy-hq/yaproxy/pkg/config"
)

// Collector owns every Prometheus metric the gateway exports and provides a
// single recording surface for the HTTP layer, the upstream client, the
// resolver and the history recorder.
//
// A nil *Collector is valid and records nothing, so components can be built
// without metrics in tests.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	httpMetrics     *HTTPMetrics
	upstreamMetrics *UpstreamMetrics
	resolveMetrics  *ResolveMetrics
	historyMetrics  *HistoryMetrics

	// codecs bounds the codec label, which is taken from upstream data.
	codecs *CardinalityLimiter
}

// NewCollector creates a collector and registers all metrics, plus the Go
// runtime and process collectors, on registry. A nil registry gets a fresh
// one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		codecs:   NewCardinalityLimiter(32),
	}

	c.httpMetrics = NewHTTPMetrics(cfg, registry)
	c.upstreamMetrics = NewUpstreamMetrics(cfg, registry)
	c.resolveMetrics = NewResolveMetrics(cfg, registry)
	c.historyMetrics = NewHistoryMetrics(cfg, registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordHTTPRequest records a completed inbound request. route is the
// registered pattern, never the raw path.
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.httpMetrics.RecordRequest(route, method, status, duration)
}

// HTTPRequestStarted increments the in-flight gauge and returns a function
// that decrements it.
func (c *Collector) HTTPRequestStarted() func() {
	if !c.enabled() {
		return func() {}
	}
	c.httpMetrics.inFlight.Inc()
	return c.httpMetrics.inFlight.Dec
}

// RecordUpstreamCall records one call to the Yandex Music API.
//
// Parameters:
//   - endpoint: logical endpoint name (e.g., "download_info", "signing_params")
//   - errorType: empty on success, otherwise the error classification
//     ("auth", "not_found", "rate_limit", "server_error", "network", "parse")
//   - duration: call latency
func (c *Collector) RecordUpstreamCall(endpoint, errorType string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.upstreamMetrics.RecordCall(endpoint, errorType, duration)
}

// UpdateUpstreamHealth sets the upstream health gauge.
func (c *Collector) UpdateUpstreamHealth(healthy bool) {
	if !c.enabled() {
		return
	}
	c.upstreamMetrics.UpdateHealth(healthy)
}

// RecordResolution records the outcome of one download link resolution.
// codec is empty when no descriptor was selected; fallback reports whether
// the first-descriptor fallback was used.
func (c *Collector) RecordResolution(outcome, codec string, fallback bool, duration time.Duration) {
	if !c.enabled() {
		return
	}
	if codec != "" && !c.codecs.Allow(codec) {
		codec = "other"
	}
	c.resolveMetrics.RecordResolution(outcome, codec, fallback, duration)
}

// RecordHistoryWrite records the result of persisting a history record
// ("stored", "dropped" or "failed").
func (c *Collector) RecordHistoryWrite(result string) {
	if !c.enabled() {
		return
	}
	c.historyMetrics.RecordWrite(result)
}

// RecordHistoryPruned adds n deleted records to the pruned counter.
func (c *Collector) RecordHistoryPruned(n int64) {
	if !c.enabled() {
		return
	}
	c.historyMetrics.RecordPruned(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value may be used as a label: either it was seen
// before or the limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
