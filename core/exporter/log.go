package exporter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/thewind121212/gen-barcode-sub000/core/artifact"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

// LogExporter writes one structured line per run.
type LogExporter struct {
	logger zerolog.Logger
}

// NewLogExporter creates a new log exporter.
func NewLogExporter(logger zerolog.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

// Name returns the exporter name.
func (e *LogExporter) Name() string {
	return "log"
}

// Record logs the run.
func (e *LogExporter) Record(ctx context.Context, pkg string, summary *generate.Summary, err error) error {
	ev := e.logger.Info()
	if err != nil {
		ev = e.logger.Error().Err(err)
	}
	ev = ev.Str("package", pkg).Str("status", string(StatusOf(summary, err)))

	if summary != nil {
		ev = ev.
			Str("run_id", summary.RunID).
			Int("methods", summary.Methods).
			Int("created", summary.Count(artifact.OutcomeCreated)).
			Int("overwritten", summary.Count(artifact.OutcomeOverwritten)).
			Int("merged", summary.Count(artifact.OutcomeMerged)).
			Int("preserved", summary.Count(artifact.OutcomePreserved)).
			Int("unchanged", summary.Count(artifact.OutcomeUnchanged)).
			Int("notices", len(summary.Notices)).
			Dur("duration", summary.Duration)
	}

	ev.Msg("run metrics")
	return nil
}

// Flush is a no-op.
func (e *LogExporter) Flush(ctx context.Context) error {
	return nil
}

// NoopExporter discards all metrics.
type NoopExporter struct{}

// NewNoopExporter creates a new noop exporter.
func NewNoopExporter() *NoopExporter {
	return &NoopExporter{}
}

// Name returns the exporter name.
func (e *NoopExporter) Name() string {
	return "noop"
}

// Record discards the run.
func (e *NoopExporter) Record(ctx context.Context, pkg string, summary *generate.Summary, err error) error {
	return nil
}

// Flush is a no-op.
func (e *NoopExporter) Flush(ctx context.Context) error {
	return nil
}
