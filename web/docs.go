// Package web serves a live preview of a package's generated OpenAPI document.
package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/thewind121212/gen-barcode-sub000/core/openapi"
)

// DocsHandler serves the document, its Swagger UI and an endpoint overview page.
type DocsHandler struct {
	openAPIService *openapi.Service
	logger         zerolog.Logger
	packageName    string
}

// DocsDeps contains dependencies for the docs handler.
type DocsDeps struct {
	OpenAPIService *openapi.Service
	Logger         zerolog.Logger
	Package        string
}

// NewDocsHandler creates a new documentation handler.
func NewDocsHandler(deps DocsDeps) *DocsHandler {
	return &DocsHandler{
		openAPIService: deps.OpenAPIService,
		logger:         deps.Logger,
		packageName:    deps.Package,
	}
}

// Router returns the docs router.
func (h *DocsHandler) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.APIReferencePage)
	r.Get("/openapi.json", h.OpenAPISpec)
	r.Get("/openapi.yaml", h.OpenAPISpecYAML)

	return r
}

// OpenAPISpec returns the document as JSON.
func (h *DocsHandler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.spec(w, r)
	if !ok {
		return
	}
	data, err := spec.ToJSON()
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(data)
}

// OpenAPISpecYAML returns the document as YAML.
func (h *DocsHandler) OpenAPISpecYAML(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.spec(w, r)
	if !ok {
		return
	}
	data, err := toYAML(spec)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Write(data)
}

// APIReferencePage renders one row per operation.
func (h *DocsHandler) APIReferencePage(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.spec(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := referenceTemplate.Execute(&buf, referenceData(spec)); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *DocsHandler) spec(w http.ResponseWriter, r *http.Request) (*openapi.Spec, bool) {
	if h.openAPIService == nil {
		http.Error(w, "no document configured", http.StatusServiceUnavailable)
		return nil, false
	}
	spec, err := h.openAPIService.GetSpec(r.Context(), getBaseURL(r))
	if err != nil {
		h.logger.Error().Err(err).Str("package", h.packageName).Msg("Cannot build OpenAPI document")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return spec, true
}

func (h *DocsHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error().Err(err).Msg("Cannot render OpenAPI document")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// toYAML re-encodes the JSON form so YAML keys follow the JSON field names.
func toYAML(spec *openapi.Spec) ([]byte, error) {
	data, err := spec.ToJSON()
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type endpointRow struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Request     string
	Response    string
}

type referencePage struct {
	Title     string
	Version   string
	Endpoints []endpointRow
	Schemas   []string
}

func referenceData(spec *openapi.Spec) referencePage {
	page := referencePage{Title: spec.Info.Title, Version: spec.Info.Version}

	paths := make([]string, 0, len(spec.Paths))
	for p := range spec.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		item := spec.Paths[p]
		if item.Get != nil {
			page.Endpoints = append(page.Endpoints, endpointRow{
				Method:      "GET",
				Path:        p,
				OperationID: item.Get.OperationID,
				Summary:     item.Get.Summary,
				Request:     paramNames(item.Get.Parameters),
				Response:    responseRef(item.Get),
			})
		}
		if item.Post != nil {
			row := endpointRow{
				Method:      "POST",
				Path:        p,
				OperationID: item.Post.OperationID,
				Summary:     item.Post.Summary,
				Response:    responseRef(item.Post),
			}
			if item.Post.RequestBody != nil {
				row.Request = refName(item.Post.RequestBody.Content["application/json"].Schema)
			}
			page.Endpoints = append(page.Endpoints, row)
		}
	}

	for name := range spec.Components.Schemas {
		page.Schemas = append(page.Schemas, name)
	}
	sort.Strings(page.Schemas)
	return page
}

func paramNames(params []openapi.Parameter) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

func responseRef(op *openapi.Operation) string {
	return refName(op.Responses["200"].Content["application/json"].Schema)
}

func refName(s *openapi.Schema) string {
	if s == nil || s.Ref == "" {
		return ""
	}
	return strings.TrimPrefix(s.Ref, "#/components/schemas/")
}

var referenceTemplate = template.Must(template.New("reference").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1f2933; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: .4rem .8rem; border-bottom: 1px solid #e4e7eb; }
.verb { font-weight: 600; font-family: monospace; }
.verb.GET { color: #0b7285; }
.verb.POST { color: #2b8a3e; }
</style>
</head>
<body>
<h1>{{.Title}} <small>{{.Version}}</small></h1>
<p><a href="/swagger/index.html">Swagger UI</a> · <a href="/docs/openapi.json">openapi.json</a> · <a href="/docs/openapi.yaml">openapi.yaml</a></p>
{{if .Endpoints}}
<table>
<tr><th>Method</th><th>Path</th><th>Operation</th><th>Request</th><th>Response</th></tr>
{{range .Endpoints}}<tr><td class="verb {{.Method}}">{{.Method}}</td><td><code>{{.Path}}</code></td><td title="{{.Summary}}">{{.OperationID}}</td><td>{{.Request}}</td><td>{{.Response}}</td></tr>
{{end}}</table>
{{else}}
<p>No operations declared.</p>
{{end}}
<h2>Schemas</h2>
<ul>{{range .Schemas}}<li><code>{{.}}</code></li>{{end}}</ul>
</body>
</html>
`))
