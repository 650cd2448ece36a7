// Package formatter renders run summaries for the terminal or for machines.
// Formatters are registered by name ("table", "json", "yaml") and chosen with --output.
package formatter

import (
	"io"

	"github.com/thewind121212/gen-barcode-sub000/core/artifact"
	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

// Formatter converts run results to a specific output format.
type Formatter interface {
	// Name returns the formatter name (e.g., "table", "json", "yaml").
	Name() string

	// Description returns a human-readable description.
	Description() string

	// FormatSummary formats the summary of one generator run.
	FormatSummary(w io.Writer, s *generate.Summary, opts FormatOptions) error

	// FormatPackages formats the list of schema packages.
	FormatPackages(w io.Writer, packages []string, opts FormatOptions) error

	// FormatError formats an error.
	FormatError(w io.Writer, err error) error
}

// FormatOptions configures formatting behavior.
type FormatOptions struct {
	// NoHeader disables header rows for tabular formats.
	NoHeader bool

	// Compact minimizes whitespace (json only).
	Compact bool
}

// Report is the machine-readable view of a summary.
type Report struct {
	RunID      string              `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Package    string              `json:"package" yaml:"package"`
	Schema     string              `json:"schema" yaml:"schema"`
	ClientRoot string              `json:"client_root" yaml:"client_root"`
	ServerRoot string              `json:"server_root" yaml:"server_root"`
	TestMode   bool                `json:"test_mode,omitempty" yaml:"test_mode,omitempty"`
	Skipped    bool                `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Methods    int                 `json:"methods" yaml:"methods"`
	Duration   string              `json:"duration" yaml:"duration"`
	Artifacts  []artifact.Result   `json:"artifacts" yaml:"artifacts"`
	Notices    []convention.Notice `json:"notices" yaml:"notices"`
}

// NewReport builds the report of a summary. Nil slices become empty ones so encoders
// emit [] rather than null.
func NewReport(s *generate.Summary) Report {
	r := Report{
		RunID:      s.RunID,
		Package:    s.Package,
		Schema:     s.Schema,
		ClientRoot: s.Layout.ClientRoot,
		ServerRoot: s.Layout.ServerRoot,
		TestMode:   s.TestMode,
		Skipped:    s.Skipped,
		Methods:    s.Methods,
		Duration:   s.Duration.String(),
		Artifacts:  s.Results,
		Notices:    s.Notices,
	}
	if r.Artifacts == nil {
		r.Artifacts = []artifact.Result{}
	}
	if r.Notices == nil {
		r.Notices = []convention.Notice{}
	}
	return r
}
