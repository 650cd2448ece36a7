// Package exporter records generator runs as metrics.
// The Prometheus exporter serves them over HTTP or writes them to a node_exporter textfile;
// the log exporter writes one structured line per run.
package exporter

import (
	"context"

	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

// Exporter records the outcome of generator runs.
type Exporter interface {
	// Name returns the exporter identifier (e.g., "prometheus", "log").
	Name() string

	// Record records one run. summary is nil when the run failed before writing;
	// err is the run error, if any.
	Record(ctx context.Context, pkg string, summary *generate.Summary, err error) error

	// Flush persists recorded metrics, if the exporter keeps any.
	Flush(ctx context.Context) error
}

// Status classifies a run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// StatusOf returns the status of a run.
func StatusOf(summary *generate.Summary, err error) Status {
	switch {
	case err != nil:
		return StatusError
	case summary != nil && summary.Skipped:
		return StatusSkipped
	default:
		return StatusOK
	}
}

// Multi fans one run out to several exporters.
type Multi []Exporter

// Name returns the exporter name.
func (m Multi) Name() string {
	return "multi"
}

// Record records the run with every exporter and returns the first error.
func (m Multi) Record(ctx context.Context, pkg string, summary *generate.Summary, err error) error {
	var first error
	for _, e := range m {
		if rerr := e.Record(ctx, pkg, summary, err); rerr != nil && first == nil {
			first = rerr
		}
	}
	return first
}

// Flush flushes every exporter and returns the first error.
func (m Multi) Flush(ctx context.Context) error {
	var first error
	for _, e := range m {
		if err := e.Flush(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
