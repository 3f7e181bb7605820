// Package telemetry provides request metrics and a Prometheus text
// exposition endpoint using only standard library constructs, without
// importing a metrics SDK.
package telemetry

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// defaultDurationBuckets are histogram bucket boundaries in seconds for
// HTTP request duration.
var defaultDurationBuckets = []float64{
	0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
}

// histogram is a thread-safe histogram with configurable bucket boundaries.
// Bucket counts are non-cumulative in storage; cumulative counts are computed
// at export time.
type histogram struct {
	boundaries   []float64
	bucketCounts []int64
	count        int64
	sum          uint64 // math.Float64bits for atomic add
	mu           sync.Mutex
}

func newHistogram(boundaries []float64) *histogram {
	return &histogram{
		boundaries:   boundaries,
		bucketCounts: make([]int64, len(boundaries)),
	}
}

func (h *histogram) Observe(v float64) {
	atomic.AddInt64(&h.count, 1)
	atomicAddFloat64(&h.sum, v)

	h.mu.Lock()
	for i, b := range h.boundaries {
		if v <= b {
			h.bucketCounts[i]++
			h.mu.Unlock()
			return
		}
	}
	h.mu.Unlock()
}

func (h *histogram) Count() int64 {
	return atomic.LoadInt64(&h.count)
}

func (h *histogram) Sum() float64 {
	return math.Float64frombits(atomic.LoadUint64(&h.sum))
}

func (h *histogram) cumulativeBuckets() []int64 {
	h.mu.Lock()
	raw := make([]int64, len(h.bucketCounts))
	copy(raw, h.bucketCounts)
	h.mu.Unlock()

	cum := make([]int64, len(raw))
	var running int64
	for i, c := range raw {
		running += c
		cum[i] = running
	}
	return cum
}

func atomicAddFloat64(addr *uint64, delta float64) {
	for {
		old := atomic.LoadUint64(addr)
		newVal := math.Float64frombits(old) + delta
		if atomic.CompareAndSwapUint64(addr, old, math.Float64bits(newVal)) {
			return
		}
	}
}

type counterStore struct {
	mu    sync.RWMutex
	items map[string]*int64
}

func newCounterStore() *counterStore {
	return &counterStore{items: make(map[string]*int64)}
}

func (s *counterStore) inc(key string) {
	s.mu.RLock()
	p, ok := s.items[key]
	s.mu.RUnlock()
	if ok {
		atomic.AddInt64(p, 1)
		return
	}
	s.mu.Lock()
	p, ok = s.items[key]
	if !ok {
		v := int64(1)
		s.items[key] = &v
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	atomic.AddInt64(p, 1)
}

func (s *counterStore) get(key string) int64 {
	s.mu.RLock()
	p, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return atomic.LoadInt64(p)
}

func (s *counterStore) snapshot() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[string]int64, len(s.items))
	for k, p := range s.items {
		cp[k] = atomic.LoadInt64(p)
	}
	return cp
}

// Provider holds all metrics state for the service.
type Provider struct {
	serviceName string

	durations map[string]*histogram // keyed by method|route|status
	histMu    sync.RWMutex

	counters *counterStore

	activeRequests int64
}

func NewProvider(serviceName string) *Provider {
	return &Provider{
		serviceName: serviceName,
		durations:   make(map[string]*histogram),
		counters:    newCounterStore(),
	}
}

func (p *Provider) getOrCreateDuration(key string) *histogram {
	p.histMu.RLock()
	h, ok := p.durations[key]
	p.histMu.RUnlock()
	if ok {
		return h
	}
	p.histMu.Lock()
	h, ok = p.durations[key]
	if !ok {
		h = newHistogram(defaultDurationBuckets)
		p.durations[key] = h
	}
	p.histMu.Unlock()
	return h
}

// DiagnosisCounter increments the diagnosis request counter for the given
// outcome (ok, validation_error, upstream_error, internal_error).
func (p *Provider) DiagnosisCounter(outcome string) {
	p.counters.inc("diagnosis|" + outcome)
}

// UpstreamCounter increments the upstream call counter for the given provider
// (genai, places) and result (ok, error).
func (p *Provider) UpstreamCounter(provider, result string) {
	p.counters.inc("upstream|" + provider + "|" + result)
}

// GetDiagnosisCounter returns the diagnosis counter for an outcome, for tests.
func (p *Provider) GetDiagnosisCounter(outcome string) int64 {
	return p.counters.get("diagnosis|" + outcome)
}

// GetUpstreamCounter returns the upstream counter for a provider and result.
func (p *Provider) GetUpstreamCounter(provider, result string) int64 {
	return p.counters.get("upstream|" + provider + "|" + result)
}

// ActiveRequests returns the number of in-flight HTTP requests.
func (p *Provider) ActiveRequests() int64 {
	return atomic.LoadInt64(&p.activeRequests)
}

// Middleware records duration and in-flight gauges for every HTTP request.
func (p *Provider) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&p.activeRequests, 1)
			start := time.Now()

			err := next(c)

			atomic.AddInt64(&p.activeRequests, -1)
			duration := time.Since(start).Seconds()

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			key := c.Request().Method + "|" + route + "|" + fmt.Sprintf("%d", c.Response().Status)
			p.getOrCreateDuration(key).Observe(duration)

			return err
		}
	}
}

// PrometheusHandler serves metrics in Prometheus text exposition format.
func (p *Provider) PrometheusHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		var b strings.Builder

		b.WriteString("# HELP http_server_request_duration_seconds Duration of HTTP requests in seconds.\n")
		b.WriteString("# TYPE http_server_request_duration_seconds histogram\n")
		p.histMu.RLock()
		snap := make(map[string]*histogram, len(p.durations))
		for k, h := range p.durations {
			snap[k] = h
		}
		p.histMu.RUnlock()
		for key, h := range snap {
			parts := strings.SplitN(key, "|", 3)
			if len(parts) != 3 {
				continue
			}
			labels := fmt.Sprintf("method=%q,route=%q,status_code=%q", parts[0], parts[1], parts[2])
			writeHistogram(&b, "http_server_request_duration_seconds", labels, h)
		}
		b.WriteByte('\n')

		b.WriteString("# HELP http_server_active_requests Number of active HTTP requests.\n")
		b.WriteString("# TYPE http_server_active_requests gauge\n")
		fmt.Fprintf(&b, "http_server_active_requests %d\n\n", p.ActiveRequests())

		counters := p.counters.snapshot()

		b.WriteString("# HELP diagnosis_requests_total Total diagnosis requests by outcome.\n")
		b.WriteString("# TYPE diagnosis_requests_total counter\n")
		for key, val := range counters {
			parts := strings.SplitN(key, "|", 2)
			if len(parts) == 2 && parts[0] == "diagnosis" {
				fmt.Fprintf(&b, "diagnosis_requests_total{outcome=%q} %d\n", parts[1], val)
			}
		}
		b.WriteByte('\n')

		b.WriteString("# HELP upstream_calls_total Total upstream provider calls by result.\n")
		b.WriteString("# TYPE upstream_calls_total counter\n")
		for key, val := range counters {
			parts := strings.SplitN(key, "|", 3)
			if len(parts) == 3 && parts[0] == "upstream" {
				fmt.Fprintf(&b, "upstream_calls_total{provider=%q,result=%q} %d\n", parts[1], parts[2], val)
			}
		}

		return c.String(http.StatusOK, b.String())
	}
}

func writeHistogram(b *strings.Builder, name, labels string, h *histogram) {
	cum := h.cumulativeBuckets()
	total := h.Count()

	for i, boundary := range h.boundaries {
		fmt.Fprintf(b, "%s_bucket{%s,le=\"%g\"} %d\n", name, labels, boundary, cum[i])
	}
	fmt.Fprintf(b, "%s_bucket{%s,le=\"+Inf\"} %d\n", name, labels, total)
	fmt.Fprintf(b, "%s_sum{%s} %g\n", name, labels, h.Sum())
	fmt.Fprintf(b, "%s_count{%s} %d\n", name, labels, total)
}
