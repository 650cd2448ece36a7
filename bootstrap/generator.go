package bootstrap

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/thewind121212/gen-barcode-sub000/config"
	"github.com/thewind121212/gen-barcode-sub000/core/exporter"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
	"github.com/thewind121212/gen-barcode-sub000/core/watch"
)

// Flags are the per-invocation switches of the generate and watch commands.
type Flags struct {
	TestMode bool
	Strict   bool
	// Lint forces linting on; the configured value applies otherwise.
	Lint bool
}

// Generator runs the generator for one package and records every run.
type Generator struct {
	// Config returns the current configuration; it is read again before every run.
	Config   func() *config.Config
	Package  string
	Flags    Flags
	Exporter exporter.Exporter
	Logger   zerolog.Logger

	// Report is called with the summary of every run that produced one.
	Report func(*generate.Summary) error
}

// Run performs one generation run.
func (g *Generator) Run(ctx context.Context) (*generate.Summary, error) {
	opts := GenerateOptions(g.Config(), g.Package, g.Logger)
	opts.TestMode = g.Flags.TestMode
	opts.Strict = g.Flags.Strict
	opts.Lint = opts.Lint || g.Flags.Lint

	summary, err := generate.Run(ctx, opts)

	if g.Exporter != nil {
		if rerr := g.Exporter.Record(ctx, g.Package, summary, err); rerr != nil {
			g.Logger.Warn().Err(rerr).Msg("Cannot record run")
		}
		if ferr := g.Exporter.Flush(ctx); ferr != nil {
			g.Logger.Warn().Err(ferr).Msg("Cannot flush metrics")
		}
	}

	if summary != nil && g.Report != nil {
		if rerr := g.Report(summary); rerr != nil {
			g.Logger.Warn().Err(rerr).Msg("Cannot write report")
		}
	}
	return summary, err
}

// Watch regenerates the package whenever its schema tree or the configuration file changes,
// until ctx is canceled. A nil holder watches the schema tree only.
func Watch(ctx context.Context, holder *config.Holder, g *Generator) error {
	cfg := g.Config()

	w, err := watch.New(watch.Config{
		Dir:      cfg.Schema.Dir,
		Debounce: cfg.Watch.Debounce,
		Run: func(ctx context.Context) error {
			_, err := g.Run(ctx)
			return err
		},
		Logger: g.Logger,
	})
	if err != nil {
		return err
	}

	if holder != nil {
		holder.OnChange(func(*config.Config) {
			w.Trigger("config")
		})
		if err := holder.WatchFile(); err != nil {
			g.Logger.Warn().Err(err).Str("path", holder.Path()).Msg("Config file not watched")
		}
		defer holder.Stop()
	}

	g.Logger.Info().
		Str("package", g.Package).
		Str("dir", cfg.Schema.Dir).
		Dur("debounce", cfg.Watch.Debounce).
		Msg("Watching schema")
	return w.Run(ctx)
}
