// Package bootstrap wires configuration, logging, metrics and the generator together
// for the rpcgen commands.
package bootstrap

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/thewind121212/gen-barcode-sub000/adapters/idgen"
	"github.com/thewind121212/gen-barcode-sub000/config"
	"github.com/thewind121212/gen-barcode-sub000/core/emit"
	"github.com/thewind121212/gen-barcode-sub000/core/exporter"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
	"github.com/thewind121212/gen-barcode-sub000/core/openapi"
)

// NewLogger creates the process logger. Unknown levels fall back to info.
func NewLogger(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// GenerateOptions maps the configuration onto generator options for one package.
func GenerateOptions(cfg *config.Config, pkg string, logger zerolog.Logger) generate.Options {
	return generate.Options{
		Package:   pkg,
		SchemaDir: cfg.Schema.Dir,
		Layout: generate.Layout{
			ClientRoot: cfg.Output.ClientRoot,
			ServerRoot: cfg.Output.ServerRoot,
		},
		Imports: emit.Imports(cfg.Imports),
		Info:    DocumentInfo(cfg),
		Lint:    cfg.OpenAPI.Lint,
		IDs:     idgen.UUID{},
		Logger:  logger,
	}
}

// DocumentInfo returns the metadata used for fresh OpenAPI documents.
func DocumentInfo(cfg *config.Config) openapi.DocumentInfo {
	return openapi.DocumentInfo{
		Title:       cfg.OpenAPI.Title,
		Description: cfg.OpenAPI.Description,
		Version:     cfg.OpenAPI.Version,
		Servers:     cfg.OpenAPI.Servers,
	}
}

// NewExporters creates the Prometheus exporter and the exporter chain runs are recorded with.
// metricsFile overrides the configured textfile when set.
func NewExporters(cfg *config.Config, metricsFile string, runtime bool, logger zerolog.Logger) (*exporter.PrometheusExporter, exporter.Exporter) {
	if metricsFile == "" {
		metricsFile = cfg.Metrics.File
	}
	prom := exporter.NewPrometheusExporter(exporter.PrometheusConfig{
		Textfile: metricsFile,
		Runtime:  runtime,
	})
	return prom, exporter.Multi{prom, exporter.NewLogExporter(logger)}
}
