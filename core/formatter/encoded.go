package formatter

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

// PackageList is the machine-readable package listing.
type PackageList struct {
	Count    int      `json:"count" yaml:"count"`
	Packages []string `json:"packages" yaml:"packages"`
}

// EncodedFormatter writes reports through a structured encoder (JSON or YAML).
type EncodedFormatter struct {
	name        string
	description string
	encode      func(w io.Writer, v any, compact bool) error
}

// NewJSONFormatter returns the "json" formatter. HTML characters are not escaped so paths and
// messages stay readable.
func NewJSONFormatter() *EncodedFormatter {
	return &EncodedFormatter{
		name:        "json",
		description: "JSON report, indented unless compact",
		encode: func(w io.Writer, v any, compact bool) error {
			enc := json.NewEncoder(w)
			enc.SetEscapeHTML(false)
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(v)
		},
	}
}

// NewYAMLFormatter returns the "yaml" formatter.
func NewYAMLFormatter() *EncodedFormatter {
	return &EncodedFormatter{
		name:        "yaml",
		description: "YAML report",
		encode: func(w io.Writer, v any, _ bool) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func (f *EncodedFormatter) Name() string { return f.name }
func (f *EncodedFormatter) Description() string { return f.description }

// FormatSummary encodes the report of s.
func (f *EncodedFormatter) FormatSummary(w io.Writer, s *generate.Summary, opts FormatOptions) error {
	return f.encode(w, NewReport(s), opts.Compact)
}

// FormatPackages encodes a PackageList.
func (f *EncodedFormatter) FormatPackages(w io.Writer, packages []string, opts FormatOptions) error {
	if packages == nil {
		packages = []string{}
	}
	return f.encode(w, PackageList{Count: len(packages), Packages: packages}, opts.Compact)
}

// FormatError encodes {"error": message}.
func (f *EncodedFormatter) FormatError(w io.Writer, err error) error {
	return f.encode(w, struct {
		Error string `json:"error" yaml:"error"`
	}{err.Error()}, false)
}

func init() {
	mustRegister(NewJSONFormatter())
	mustRegister(NewYAMLFormatter())
}
