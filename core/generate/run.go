package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/thewind121212/gen-barcode-sub000/core/artifact"
	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/emit"
	"github.com/thewind121212/gen-barcode-sub000/core/openapi"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
)

// ErrPackageRequired indicates that no target package was given.
var ErrPackageRequired = errors.New("package name is required")

// IDGenerator generates run IDs.
type IDGenerator interface {
	New() string
}

// Options configures a run.
type Options struct {
	// Package is the target package; its schema lives at {SchemaDir}/{Package}/{Package}.proto.
	Package   string
	SchemaDir string
	Layout    Layout
	Imports   emit.Imports
	Info      openapi.DocumentInfo

	// Strict turns a package without services into a fatal error.
	Strict bool
	// Lint validates the written OpenAPI document and reports findings as notices.
	Lint bool
	// TestMode redirects both output roots under a fresh temporary directory.
	TestMode bool

	IDs    IDGenerator
	Logger zerolog.Logger
	Now    func() time.Time
}

// SchemaPath returns the IDL file of the target package.
func (o Options) SchemaPath() string {
	return filepath.Join(o.SchemaDir, o.Package, o.Package+".proto")
}

// Summary reports what a run did.
type Summary struct {
	RunID     string              `json:"run_id" yaml:"run_id"`
	Package   string              `json:"package" yaml:"package"`
	Schema    string              `json:"schema" yaml:"schema"`
	Layout    Layout              `json:"layout" yaml:"layout"`
	TestMode  bool                `json:"test_mode,omitempty" yaml:"test_mode,omitempty"`
	Skipped   bool                `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Methods   int                 `json:"methods" yaml:"methods"`
	Results   []artifact.Result   `json:"results" yaml:"results"`
	Notices   []convention.Notice `json:"notices,omitempty" yaml:"notices,omitempty"`
	StartedAt time.Time           `json:"started_at" yaml:"started_at"`
	Duration  time.Duration       `json:"duration" yaml:"duration"`
}

// Count returns how many artifacts ended with outcome.
func (s *Summary) Count(outcome artifact.Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// Run loads the schema of opts.Package, generates every artifact and writes them.
// The returned summary is non-nil whenever generation got as far as writing.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	start := opts.Now()

	if opts.Package == "" {
		return nil, ErrPackageRequired
	}

	dir := filepath.Join(opts.SchemaDir, opts.Package)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, &schema.Error{
			Kind:    schema.ErrSchemaNotFound,
			Path:    dir,
			Package: opts.Package,
			Message: "schema folder does not exist",
		}
	}

	if opts.TestMode {
		tmp, err := os.MkdirTemp("", "rpcgen-"+convention.Identifier(opts.Package)+"-")
		if err != nil {
			return nil, fmt.Errorf("create test output directory: %w", err)
		}
		opts.Layout = Layout{
			ClientRoot: filepath.Join(tmp, "client"),
			ServerRoot: filepath.Join(tmp, "server"),
		}
	}

	summary := &Summary{
		Package:   opts.Package,
		Schema:    opts.SchemaPath(),
		Layout:    opts.Layout,
		TestMode:  opts.TestMode,
		StartedAt: start,
	}
	if opts.IDs != nil {
		summary.RunID = opts.IDs.New()
	}
	logger := opts.Logger.With().
		Str("run_id", summary.RunID).
		Str("package", opts.Package).
		Logger()

	logger.Debug().Str("schema", summary.Schema).Msg("Loading schema")
	s, err := schema.Load(summary.Schema)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan, err := Generate(s, opts)
	if err != nil {
		return nil, err
	}
	summary.Notices = plan.Notices
	summary.Methods = len(plan.Descriptors)

	if plan.Skipped {
		summary.Skipped = true
		summary.Duration = opts.Now().Sub(start)
		logger.Warn().Msg("Package declares no method, skipping")
		return summary, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, err := artifact.Apply(plan.Artifacts, logger)
	summary.Results = results
	if err != nil {
		summary.Duration = opts.Now().Sub(start)
		return summary, err
	}

	if opts.Lint {
		notices, err := lintDocument(opts.Layout.OpenAPIPath(opts.Package))
		if err != nil {
			logger.Warn().Err(err).Msg("OpenAPI lint failed")
		}
		summary.Notices = append(summary.Notices, notices...)
	}

	for _, n := range summary.Notices {
		logger.Warn().Str("kind", string(n.Kind)).Str("subject", n.Subject).Msg(n.Message)
	}

	summary.Duration = opts.Now().Sub(start)
	logger.Info().
		Int("methods", summary.Methods).
		Int("artifacts", len(summary.Results)).
		Int("notices", len(summary.Notices)).
		Dur("duration", summary.Duration).
		Msg("Generation complete")

	return summary, nil
}

func lintDocument(path string) ([]convention.Notice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return openapi.Lint(data)
}

// Packages lists the packages under dir that hold a {name}/{name}.proto file, sorted.
func Packages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &schema.Error{Kind: schema.ErrSchemaNotFound, Path: dir, Message: "schema folder does not exist"}
		}
		return nil, fmt.Errorf("read schema folder: %w", err)
	}

	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), e.Name()+".proto")); err == nil {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
