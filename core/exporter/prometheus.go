package exporter

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

// PrometheusExporter keeps run metrics in a private registry.
type PrometheusExporter struct {
	mu       sync.Mutex
	registry *prometheus.Registry
	textfile string

	runsTotal       *prometheus.CounterVec
	artifactsTotal  *prometheus.CounterVec
	noticesTotal    *prometheus.CounterVec
	durationSeconds *prometheus.HistogramVec
	methods         *prometheus.GaugeVec
	lastRun         *prometheus.GaugeVec
}

// PrometheusConfig configures the Prometheus exporter.
type PrometheusConfig struct {
	// Prefix is added to all metric names (default: "rpcgen").
	Prefix string

	// Textfile is where Flush writes the registry in text format; empty disables it.
	Textfile string

	// Runtime registers the Go and process collectors (for long-running commands).
	Runtime bool

	// Buckets for the run duration histogram (in seconds).
	Buckets []float64
}

// DefaultPrometheusBuckets returns default histogram buckets.
func DefaultPrometheusBuckets() []float64 {
	return []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
}

// NewPrometheusExporter creates a new Prometheus exporter.
func NewPrometheusExporter(cfg PrometheusConfig) *PrometheusExporter {
	if cfg.Prefix == "" {
		cfg.Prefix = "rpcgen"
	}
	if cfg.Buckets == nil {
		cfg.Buckets = DefaultPrometheusBuckets()
	}

	reg := prometheus.NewRegistry()

	e := &PrometheusExporter{
		registry: reg,
		textfile: cfg.Textfile,
	}

	e.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: cfg.Prefix + "_runs_total",
			Help: "Total number of generator runs",
		},
		[]string{"package", "status"},
	)

	e.artifactsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: cfg.Prefix + "_artifacts_total",
			Help: "Total number of artifacts applied, by outcome",
		},
		[]string{"package", "kind", "outcome"},
	)

	e.noticesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: cfg.Prefix + "_notices_total",
			Help: "Total number of non-fatal notices reported",
		},
		[]string{"package", "kind"},
	)

	e.durationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    cfg.Prefix + "_run_duration_seconds",
			Help:    "Generator run duration in seconds",
			Buckets: cfg.Buckets,
		},
		[]string{"package"},
	)

	e.methods = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: cfg.Prefix + "_methods",
			Help: "Number of RPC methods in the last run",
		},
		[]string{"package"},
	)

	e.lastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: cfg.Prefix + "_last_run_timestamp_seconds",
			Help: "Unix time of the last run",
		},
		[]string{"package", "status"},
	)

	reg.MustRegister(
		e.runsTotal,
		e.artifactsTotal,
		e.noticesTotal,
		e.durationSeconds,
		e.methods,
		e.lastRun,
	)

	if cfg.Runtime {
		reg.MustRegister(prometheus.NewGoCollector())
		reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	}

	return e
}

// Name returns the exporter name.
func (e *PrometheusExporter) Name() string {
	return "prometheus"
}

// Record updates the metrics with one run.
func (e *PrometheusExporter) Record(ctx context.Context, pkg string, summary *generate.Summary, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := string(StatusOf(summary, err))
	e.runsTotal.WithLabelValues(pkg, status).Inc()

	if summary == nil {
		return nil
	}

	for _, r := range summary.Results {
		e.artifactsTotal.WithLabelValues(pkg, string(r.Kind), string(r.Outcome)).Inc()
	}
	for _, n := range summary.Notices {
		e.noticesTotal.WithLabelValues(pkg, string(n.Kind)).Inc()
	}
	e.durationSeconds.WithLabelValues(pkg).Observe(summary.Duration.Seconds())
	e.methods.WithLabelValues(pkg).Set(float64(summary.Methods))
	if !summary.StartedAt.IsZero() {
		e.lastRun.WithLabelValues(pkg, status).Set(float64(summary.StartedAt.Add(summary.Duration).Unix()))
	}
	return nil
}

// Flush writes the registry to the configured textfile.
func (e *PrometheusExporter) Flush(ctx context.Context) error {
	if e.textfile == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := prometheus.WriteToTextfile(e.textfile, e.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying Prometheus registry.
func (e *PrometheusExporter) Registry() *prometheus.Registry {
	return e.registry
}
