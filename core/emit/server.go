package emit

import (
	"fmt"
	"strings"

	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
	"github.com/thewind121212/gen-barcode-sub000/core/typemap"
)

type routeMethod struct {
	Name      string
	Verb      string
	Path      string
	SchemaVar string
	ServiceFn string
	Source    string
}

type routesData struct {
	Header     string
	Package    string
	Imports    Imports
	ServiceVar string
	Service    string
	DTO        string
	Schemas    []string
	Methods    []routeMethod
}

// ServerRoutes renders an Express router with one route per method mounted at /{httpPath}.
// Each handler validates the request with {method}Schema, delegates to the package service,
// answers 400 on a service error and 200 with the payload otherwise, and logs failures as
// (subsystem, method, message) before passing them to next.
func ServerRoutes(in Input) ([]byte, error) {
	im := in.Imports.WithDefaults()
	data := routesData{
		Header:     generatedHeader(in.Package),
		Package:    in.Package,
		Imports:    im,
		ServiceVar: convention.ServiceVar(in.Package),
		Service:    im.resolve(im.Service, in.Package),
		DTO:        im.resolve(im.DTO, in.Package),
	}
	for _, d := range in.Descriptors {
		m := routeMethod{
			Name:      d.Name,
			Verb:      strings.ToLower(d.HTTPMethod),
			Path:      "/" + d.HTTPPath,
			SchemaVar: convention.SchemaVar(d.Name),
			ServiceFn: convention.LowerCamel(d.Name),
			Source:    "req.body",
		}
		if d.IsGet() {
			m.Source = "req.query"
		}
		data.Methods = append(data.Methods, m)
		data.Schemas = append(data.Schemas, m.SchemaVar)
	}
	data.Schemas = unique(data.Schemas)
	return render("routes", data)
}

type dtoField struct {
	Name      string
	Validator string
}

type dtoMethod struct {
	Name      string
	SchemaVar string
	DtoType   string
	Fields    []dtoField
}

type dtoData struct {
	Package string
	Imports Imports
	Methods []dtoMethod
}

// ServerDTO renders one zod schema and inferred type per method, derived from the request
// message. GET methods use coercing validators because their input arrives as a query string.
func ServerDTO(in Input) ([]byte, error) {
	data := dtoData{Package: in.Package, Imports: in.Imports.WithDefaults()}
	for _, d := range in.Descriptors {
		m := dtoMethod{
			Name:      d.Name,
			SchemaVar: convention.SchemaVar(d.Name),
			DtoType:   convention.DtoType(d.Name),
		}
		if in.Root != nil {
			if msg, ok := in.Root.ResolveMessage(in.Package, d.RequestType); ok {
				for _, f := range msg.Fields {
					m.Fields = append(m.Fields, dtoField{
						Name:      f.Name,
						Validator: zodField(in.Root, msg, f, d.IsGet()),
					})
				}
			}
		}
		data.Methods = append(data.Methods, m)
	}
	return render("dto", data)
}

// zodField returns the zod validator expression of a field.
func zodField(root *schema.Namespace, owner *schema.Message, f *schema.Field, query bool) string {
	var base string
	switch {
	case f.Type.IsPrimitive() && query:
		base = typemap.ZodQuery[f.Type.Kind]
	case f.Type.IsPrimitive():
		base = typemap.ZodBody[f.Type.Kind]
	default:
		base = zodReference(root, owner, f.Type.Ref)
	}

	if f.IsRepeated() {
		if query {
			base = fmt.Sprintf("z.preprocess((v) => (v === undefined || Array.isArray(v) ? v : [v]), z.array(%s))", base)
		} else {
			base = fmt.Sprintf("z.array(%s)", base)
		}
	}
	if !f.IsRequired() {
		base += ".optional()"
	}
	return base
}

func zodReference(root *schema.Namespace, owner *schema.Message, ref string) string {
	node, ok := root.Resolve(parentScope(owner.FullName), ref)
	if !ok {
		return "z.unknown()"
	}
	switch v := node.(type) {
	case *schema.Enum:
		if len(v.Values) == 0 {
			return "z.string()"
		}
		quoted := make([]string, len(v.Values))
		for i, name := range v.ValueNames() {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		return "z.enum([" + strings.Join(quoted, ", ") + "])"
	case *schema.Message:
		return "z.object({}).passthrough()"
	default:
		return "z.unknown()"
	}
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
