package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/thewind121212/gen-barcode-sub000/core/artifact"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

// TableFormatter formats output as aligned text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Description returns the formatter description.
func (f *TableFormatter) Description() string {
	return "Aligned text table output"
}

// FormatSummary prints one row per artifact, one row per notice and a closing line.
func (f *TableFormatter) FormatSummary(w io.Writer, s *generate.Summary, opts FormatOptions) error {
	if s.Skipped {
		fmt.Fprintf(w, "%s: no method declared, nothing generated\n", s.Package)
		return f.formatNotices(w, s, opts)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !opts.NoHeader {
		fmt.Fprintln(tw, "KIND\tOUTCOME\tBYTES\tPATH")
	}
	for _, r := range s.Results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Kind, r.Outcome, r.Bytes, r.Path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := f.formatNotices(w, s, opts); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s: %d %s, %s in %s\n",
		s.Package, s.Methods, plural(s.Methods, "method", "methods"), f.outcomes(s), s.Duration)
	if s.TestMode {
		fmt.Fprintf(w, "test mode: output written under %s and %s\n", s.Layout.ClientRoot, s.Layout.ServerRoot)
	}
	return nil
}

func (f *TableFormatter) formatNotices(w io.Writer, s *generate.Summary, opts FormatOptions) error {
	if len(s.Notices) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !opts.NoHeader {
		fmt.Fprintln(tw, "NOTICE\tSUBJECT\tMESSAGE")
	}
	for _, n := range s.Notices {
		subject := n.Subject
		if subject == "" {
			subject = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.Kind, subject, n.Message)
	}
	return tw.Flush()
}

// outcomes renders "6 artifacts (4 created, 2 unchanged)".
func (f *TableFormatter) outcomes(s *generate.Summary) string {
	order := []artifact.Outcome{
		artifact.OutcomeCreated,
		artifact.OutcomeOverwritten,
		artifact.OutcomeMerged,
		artifact.OutcomePreserved,
		artifact.OutcomeUnchanged,
	}
	var parts []string
	for _, o := range order {
		if n := s.Count(o); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	out := fmt.Sprintf("%d %s", len(s.Results), plural(len(s.Results), "artifact", "artifacts"))
	if len(parts) > 0 {
		out += " (" + strings.Join(parts, ", ") + ")"
	}
	return out
}

// FormatPackages prints one package per line.
func (f *TableFormatter) FormatPackages(w io.Writer, packages []string, opts FormatOptions) error {
	if len(packages) == 0 {
		fmt.Fprintln(w, "No packages found.")
		return nil
	}
	if !opts.NoHeader {
		fmt.Fprintln(w, "PACKAGE")
	}
	for _, p := range packages {
		fmt.Fprintln(w, p)
	}
	return nil
}

// FormatError formats an error message.
func (f *TableFormatter) FormatError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "Error: %s\n", err.Error())
	return werr
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	mustRegister(NewTableFormatter())
}
