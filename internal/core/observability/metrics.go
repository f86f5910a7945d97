// Package observability holds the Prometheus collectors shared by the service.
package observability

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	digipinOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digipin_ops_total",
			Help: "Encode/decode operations by outcome.",
		},
		[]string{"op", "outcome"},
	)

	gridCells = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grid_cells_returned",
			Help:    "Number of cells returned per grid request.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to 16384
		},
	)

	cacheOpTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_op_total",
			Help: "Cache backend operations by result.",
		},
		[]string{"op", "result"},
	)

	cacheOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache backend operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"op"},
	)

	overlayCacheResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlay_cache_results_total",
			Help: "Overlay cache lookups by tier and outcome.",
		},
		[]string{"tier", "outcome"},
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "digipin_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

var (
	initMu  sync.Mutex
	enabled atomic.Bool
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDurationSeconds,
		digipinOps,
		gridCells,
		cacheOpTotal,
		cacheOpDuration,
		overlayCacheResults,
		buildInfo,
	}
}

// Init registers the collectors with reg. A nil reg selects the default
// registerer. With on=false observations become no-ops. Registering the same
// collectors twice with one registry is tolerated.
func Init(reg prometheus.Registerer, on bool) {
	initMu.Lock()
	defer initMu.Unlock()
	if !on {
		enabled.Store(false)
		return
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			panic(err)
		}
	}
	enabled.Store(true)
}

func isEnabled() bool { return enabled.Load() }

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	if !isEnabled() {
		return
	}
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

// ObserveOp counts an encode/decode call. outcome is "ok" or an error kind.
func ObserveOp(op, outcome string) {
	if !isEnabled() {
		return
	}
	digipinOps.WithLabelValues(op, outcome).Inc()
}

func ObserveGridCells(n int) {
	if !isEnabled() {
		return
	}
	gridCells.Observe(float64(n))
}

func ObserveCacheOp(op string, err error, durationSeconds float64) {
	if !isEnabled() {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	cacheOpTotal.WithLabelValues(op, result).Inc()
	cacheOpDuration.WithLabelValues(op).Observe(durationSeconds)
}

func IncOverlayCache(tier, outcome string) {
	if !isEnabled() {
		return
	}
	overlayCacheResults.WithLabelValues(tier, outcome).Inc()
}

func ExposeBuildInfo(version string) {
	if !isEnabled() {
		return
	}
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
