// Package typemap holds the primitive type tables used by every emitter.
//
// Each table maps all fifteen primitive IDL kinds to one target family. 64-bit integers are
// carried as strings in every family to avoid JSON precision loss; bytes are base64 strings.
package typemap

import (
	"fmt"

	"github.com/thewind121212/gen-barcode-sub000/core/schema"
)

// OpenAPIType is an OpenAPI (type, format) pair.
type OpenAPIType struct {
	Type   string
	Format string
}

// TypeScript maps primitive kinds to TypeScript types.
var TypeScript = map[schema.PrimitiveKind]string{
	schema.KindString:   "string",
	schema.KindBool:     "boolean",
	schema.KindDouble:   "number",
	schema.KindFloat:    "number",
	schema.KindInt32:    "number",
	schema.KindUint32:   "number",
	schema.KindSint32:   "number",
	schema.KindFixed32:  "number",
	schema.KindSfixed32: "number",
	schema.KindInt64:    "string",
	schema.KindUint64:   "string",
	schema.KindSint64:   "string",
	schema.KindFixed64:  "string",
	schema.KindSfixed64: "string",
	schema.KindBytes:    "string",
}

// ZodBody maps primitive kinds to zod validators for JSON request bodies.
var ZodBody = map[schema.PrimitiveKind]string{
	schema.KindString:   "z.string()",
	schema.KindBool:     "z.boolean()",
	schema.KindDouble:   "z.number()",
	schema.KindFloat:    "z.number()",
	schema.KindInt32:    "z.number().int()",
	schema.KindUint32:   "z.number().int().nonnegative()",
	schema.KindSint32:   "z.number().int()",
	schema.KindFixed32:  "z.number().int().nonnegative()",
	schema.KindSfixed32: "z.number().int()",
	schema.KindInt64:    "z.string()",
	schema.KindUint64:   "z.string()",
	schema.KindSint64:   "z.string()",
	schema.KindFixed64:  "z.string()",
	schema.KindSfixed64: "z.string()",
	schema.KindBytes:    "z.string()",
}

// zodQueryBool parses the literal strings "true" and "false"; z.coerce.boolean() would treat
// "false" as true.
const zodQueryBool = `z.enum(["true", "false"]).transform((v) => v === "true")`

// ZodQuery maps primitive kinds to coercing zod validators for query-string parameters.
var ZodQuery = map[schema.PrimitiveKind]string{
	schema.KindString:   "z.string()",
	schema.KindBool:     zodQueryBool,
	schema.KindDouble:   "z.coerce.number()",
	schema.KindFloat:    "z.coerce.number()",
	schema.KindInt32:    "z.coerce.number().int()",
	schema.KindUint32:   "z.coerce.number().int().nonnegative()",
	schema.KindSint32:   "z.coerce.number().int()",
	schema.KindFixed32:  "z.coerce.number().int().nonnegative()",
	schema.KindSfixed32: "z.coerce.number().int()",
	schema.KindInt64:    "z.string()",
	schema.KindUint64:   "z.string()",
	schema.KindSint64:   "z.string()",
	schema.KindFixed64:  "z.string()",
	schema.KindSfixed64: "z.string()",
	schema.KindBytes:    "z.string()",
}

// OpenAPI maps primitive kinds to OpenAPI (type, format) pairs.
var OpenAPI = map[schema.PrimitiveKind]OpenAPIType{
	schema.KindString:   {Type: "string"},
	schema.KindBool:     {Type: "boolean"},
	schema.KindDouble:   {Type: "number", Format: "double"},
	schema.KindFloat:    {Type: "number", Format: "float"},
	schema.KindInt32:    {Type: "integer", Format: "int32"},
	schema.KindSint32:   {Type: "integer", Format: "int32"},
	schema.KindSfixed32: {Type: "integer", Format: "int32"},
	schema.KindUint32:   {Type: "integer", Format: "int64"},
	schema.KindFixed32:  {Type: "integer", Format: "int64"},
	schema.KindInt64:    {Type: "string", Format: "int64"},
	schema.KindUint64:   {Type: "string", Format: "int64"},
	schema.KindSint64:   {Type: "string", Format: "int64"},
	schema.KindFixed64:  {Type: "string", Format: "int64"},
	schema.KindSfixed64: {Type: "string", Format: "int64"},
	schema.KindBytes:    {Type: "string", Format: "byte"},
}

// Complete reports every primitive kind missing from a table.
func Complete() []string {
	var gaps []string
	for _, k := range schema.PrimitiveKinds {
		if _, ok := TypeScript[k]; !ok {
			gaps = append(gaps, fmt.Sprintf("typescript: %s", k))
		}
		if _, ok := ZodBody[k]; !ok {
			gaps = append(gaps, fmt.Sprintf("zod body: %s", k))
		}
		if _, ok := ZodQuery[k]; !ok {
			gaps = append(gaps, fmt.Sprintf("zod query: %s", k))
		}
		if _, ok := OpenAPI[k]; !ok {
			gaps = append(gaps, fmt.Sprintf("openapi: %s", k))
		}
	}
	return gaps
}

// TSType returns the TypeScript spelling of a field type, without the array suffix.
// References use their simple name.
func TSType(t schema.FieldType) string {
	if t.IsPrimitive() {
		return TypeScript[t.Kind]
	}
	return t.SimpleName()
}
