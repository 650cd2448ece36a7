package openapi

import (
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
	"github.com/thewind121212/gen-barcode-sub000/core/typemap"
)

// TranslateField converts a field to its OpenAPI schema and reports whether it is required.
// References use only the simple type name; repeated fields wrap the element in an array.
func TranslateField(f *schema.Field) (*Schema, bool) {
	var s *Schema
	if f.Type.IsPrimitive() {
		t := typemap.OpenAPI[f.Type.Kind]
		s = &Schema{Type: t.Type, Format: t.Format}
	} else {
		s = RefSchema(f.Type.SimpleName())
	}

	if f.IsRepeated() {
		s = &Schema{Type: "array", Items: s}
	}

	return s, f.IsRequired()
}
