package openapi

import (
	"fmt"

	"github.com/erraggy/oastools/parser"
	"github.com/erraggy/oastools/validator"

	"github.com/thewind121212/gen-barcode-sub000/core/convention"
)

// Lint validates an encoded document and returns its errors and warnings as notices.
// A document that cannot be parsed at all is returned as an error.
func Lint(data []byte) ([]convention.Notice, error) {
	parsed, err := parser.ParseWithOptions(
		parser.WithBytes(data),
		parser.WithValidateStructure(true),
	)
	if err != nil {
		return nil, fmt.Errorf("lint: parse document: %w", err)
	}

	v := validator.New()
	v.IncludeWarnings = true
	result, err := v.ValidateParsed(*parsed)
	if err != nil {
		return nil, fmt.Errorf("lint: validate document: %w", err)
	}

	notices := make([]convention.Notice, 0, len(result.Errors)+len(result.Warnings))
	for _, e := range result.Errors {
		notices = append(notices, convention.Notice{
			Kind:    convention.NoticeLintWarning,
			Subject: e.Path,
			Message: "error: " + e.Message,
		})
	}
	for _, w := range result.Warnings {
		notices = append(notices, convention.Notice{
			Kind:    convention.NoticeLintWarning,
			Subject: w.Path,
			Message: w.Message,
		})
	}
	return notices, nil
}
