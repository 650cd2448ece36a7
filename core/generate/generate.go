// Package generate orchestrates one generator run: load the schema of a package, validate it,
// render every target and hand the artifacts to the writer.
//
// Generate is the pure stage and touches no files. Run wraps it with loading, writing,
// linting and the run summary.
package generate

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/thewind121212/gen-barcode-sub000/core/artifact"
	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/emit"
	"github.com/thewind121212/gen-barcode-sub000/core/openapi"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
)

// Layout holds the output roots of a run.
type Layout struct {
	ClientRoot string `json:"client_root" yaml:"client_root"`
	ServerRoot string `json:"server_root" yaml:"server_root"`
}

// ClientTypesPath returns {client}/services/{pkg}/types.ts.
func (l Layout) ClientTypesPath(pkg string) string {
	return filepath.Join(l.ClientRoot, "services", pkg, "types.ts")
}

// ClientAPIPath returns {client}/services/{pkg}/api.ts.
func (l Layout) ClientAPIPath(pkg string) string {
	return filepath.Join(l.ClientRoot, "services", pkg, "api.ts")
}

// ClientHooksPath returns {client}/services/{pkg}/useQuery.ts.
func (l Layout) ClientHooksPath(pkg string) string {
	return filepath.Join(l.ClientRoot, "services", pkg, "useQuery.ts")
}

// ServerRoutesPath returns {server}/core/api/{pkg}/{pkg}.routes.ts.
func (l Layout) ServerRoutesPath(pkg string) string {
	return filepath.Join(l.ServerRoot, "core", "api", pkg, pkg+".routes.ts")
}

// ServerDTOPath returns {server}/core/dto/{pkg}.dto.ts.
func (l Layout) ServerDTOPath(pkg string) string {
	return filepath.Join(l.ServerRoot, "core", "dto", pkg+".dto.ts")
}

// OpenAPIPath returns {server}/openapi/{pkg}.openapi.json.
func (l Layout) OpenAPIPath(pkg string) string {
	return filepath.Join(l.ServerRoot, "openapi", pkg+".openapi.json")
}

// Plan is the outcome of the pure stage.
type Plan struct {
	Package     string
	Descriptors []convention.Descriptor
	Artifacts   []artifact.Artifact
	Notices     []convention.Notice

	// Document is the fresh OpenAPI document; nil when the run was skipped.
	Document *openapi.Spec

	// Skipped is set when the package declares no service and nothing is to be written.
	Skipped bool
}

// Generate validates a loaded schema and renders every artifact of opts.Package.
// A package without services, or whose services declare no method, yields a skipped plan
// with a NoServices or NoMethods notice, or schema.ErrNoServiceDefined when opts.Strict is set.
func Generate(s *schema.Schema, opts Options) (*Plan, error) {
	pkg := opts.Package
	if pkg == "" {
		return nil, ErrPackageRequired
	}

	plan := &Plan{Package: pkg}
	for _, w := range s.Warnings {
		plan.Notices = append(plan.Notices, convention.Notice{
			Kind:    convention.NoticeLoadWarning,
			Subject: s.File,
			Message: w,
		})
	}
	if s.Package != "" && s.Package != pkg {
		plan.Notices = append(plan.Notices, convention.Notice{
			Kind:    convention.NoticeLoadWarning,
			Subject: s.File,
			Message: fmt.Sprintf("declared package %q differs from target package %q", s.Package, pkg),
		})
	}

	if err := schema.Validate(s.Root, pkg); err != nil {
		if errors.Is(err, schema.ErrNoServiceDefined) && !opts.Strict {
			plan.Skipped = true
			plan.Notices = append(plan.Notices, convention.Notice{
				Kind:    convention.NoticeNoServices,
				Subject: pkg,
				Message: "package declares no service, nothing generated",
			})
			return plan, nil
		}
		return nil, err
	}

	ns := s.Root.Namespace(pkg)
	plan.Descriptors = convention.Extract(ns, pkg)
	if len(plan.Descriptors) == 0 {
		if opts.Strict {
			return nil, &schema.Error{
				Kind:    schema.ErrNoServiceDefined,
				Package: pkg,
				Message: "services declare no methods",
			}
		}
		plan.Skipped = true
		plan.Notices = append(plan.Notices, convention.Notice{
			Kind:    convention.NoticeNoMethods,
			Subject: pkg,
			Message: "services declare no methods, nothing generated",
		})
		return plan, nil
	}
	plan.Notices = append(plan.Notices, convention.ConflictNotices(convention.DetectConflicts(plan.Descriptors))...)

	in := emit.Input{
		Package:     pkg,
		Descriptors: plan.Descriptors,
		Root:        s.Root,
		Imports:     opts.Imports,
	}

	targets := []struct {
		kind   artifact.Kind
		path   string
		policy artifact.Policy
		render func(emit.Input) ([]byte, error)
	}{
		{artifact.KindClientTypes, opts.Layout.ClientTypesPath(pkg), artifact.AlwaysOverwrite, emit.ClientTypes},
		{artifact.KindClientAPI, opts.Layout.ClientAPIPath(pkg), artifact.AlwaysOverwrite, emit.ClientAPI},
		{artifact.KindClientHooks, opts.Layout.ClientHooksPath(pkg), artifact.AlwaysOverwrite, emit.ClientHooks},
		{artifact.KindServerRoutes, opts.Layout.ServerRoutesPath(pkg), artifact.AlwaysOverwrite, emit.ServerRoutes},
		{artifact.KindServerDTO, opts.Layout.ServerDTOPath(pkg), artifact.WriteIfAbsent, emit.ServerDTO},
	}
	for _, t := range targets {
		content, err := t.render(in)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", t.kind, err)
		}
		plan.Artifacts = append(plan.Artifacts, artifact.Artifact{
			Kind:    t.kind,
			Path:    t.path,
			Content: content,
			Policy:  t.policy,
		})
	}

	doc, notices := buildDocument(s.Root, ns, plan.Descriptors, pkg, opts.Info)
	plan.Document = doc
	plan.Notices = append(plan.Notices, notices...)

	fresh, err := doc.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", artifact.KindOpenAPIDoc, err)
	}
	plan.Artifacts = append(plan.Artifacts, artifact.Artifact{
		Kind:    artifact.KindOpenAPIDoc,
		Path:    opts.Layout.OpenAPIPath(pkg),
		Content: fresh,
		Policy:  artifact.StructuralMerge,
		Merge: func(existing []byte) ([]byte, error) {
			return openapi.MergeDocument(existing, doc)
		},
	})

	return plan, nil
}

// buildDocument assembles the fresh OpenAPI document of a validated package.
func buildDocument(root, ns *schema.Namespace, ds []convention.Descriptor, pkg string, info openapi.DocumentInfo) (*openapi.Spec, []convention.Notice) {
	schemas, notices := openapi.CollectSchemas(ns)
	notices = append(notices, openapi.CollectExternal(schemas, ns, root, pkg, ds)...)

	paths, pathNotices := openapi.BuildPaths(ds, pkg, root)
	notices = append(notices, pathNotices...)

	return openapi.Document(pkg, info, paths, schemas), notices
}

// BuildDocument loads the schema at path and returns the fresh OpenAPI document of pkg
// without writing anything. The docs server uses it.
func BuildDocument(path, pkg string, info openapi.DocumentInfo) (*openapi.Spec, error) {
	s, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(s.Root, pkg); err != nil {
		return nil, err
	}
	ns := s.Root.Namespace(pkg)
	doc, _ := buildDocument(s.Root, ns, convention.Extract(ns, pkg), pkg, info)
	return doc, nil
}
