// Package convention derives RPC method descriptors from a schema namespace.
// It applies the HTTP binding rules: POST wins over GET, undeclared methods default to
// POST {package}/{method}, and declared paths mount only their last segment.
package convention

import (
	"strings"

	"github.com/thewind121212/gen-barcode-sub000/core/schema"
)

// HTTP verbs a descriptor can carry.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Descriptor is the flattened, emitter-ready view of one RPC method.
type Descriptor struct {
	// Name is the method name as declared.
	Name string

	// Service is the declaring service name.
	Service string

	// RequestType and ResponseType are type names as written in the IDL.
	RequestType  string
	ResponseType string

	// HTTPMethod is GET or POST.
	HTTPMethod string

	// HTTPPath is the mounted route path (never empty, no leading slash).
	HTTPPath string

	// Declared reports whether the method carried an HTTP binding.
	Declared bool
}

// IsGet reports whether the descriptor is bound to GET.
func (d Descriptor) IsGet() bool {
	return d.HTTPMethod == MethodGet
}

// IsPost reports whether the descriptor is bound to POST.
func (d Descriptor) IsPost() bool {
	return d.HTTPMethod == MethodPost
}

// Extract produces one descriptor per method declared directly in ns, services and methods in
// declaration order.
func Extract(ns *schema.Namespace, packageName string) []Descriptor {
	if ns == nil {
		return nil
	}

	var out []Descriptor
	for _, svc := range ns.Services() {
		for _, m := range svc.Methods {
			out = append(out, Describe(svc.Name, m, packageName))
		}
	}
	return out
}

// Describe builds the descriptor for a single method.
func Describe(service string, m *schema.Method, packageName string) Descriptor {
	d := Descriptor{
		Name:         m.Name,
		Service:      service,
		RequestType:  m.RequestType,
		ResponseType: m.ResponseType,
	}

	switch m.Binding.Verb {
	case schema.BindingPost:
		d.HTTPMethod = MethodPost
		d.HTTPPath = NormalizePath(m.Binding.Path)
		d.Declared = true
	case schema.BindingGet:
		d.HTTPMethod = MethodGet
		d.HTTPPath = NormalizePath(m.Binding.Path)
		d.Declared = true
	default:
		d.HTTPMethod = MethodPost
	}

	if d.HTTPPath == "" {
		d.HTTPPath = DefaultPath(packageName, m.Name)
	}
	return d
}

// DefaultPath is the route path of a method without a usable binding.
func DefaultPath(packageName, methodName string) string {
	return packageName + "/" + methodName
}

// NormalizePath keeps the last non-empty segment of a declared path.
// It returns "" when the path has no segment at all.
func NormalizePath(path string) string {
	var last string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			last = seg
		}
	}
	return last
}

// Conflict reports two methods mounted at the same verb and path.
// The later method wins in every emitted artifact.
type Conflict struct {
	HTTPMethod string
	HTTPPath   string
	Winner     string
	Shadowed   string
}

// DetectConflicts returns the verb+path collisions in descriptor order.
func DetectConflicts(descriptors []Descriptor) []Conflict {
	seen := make(map[string]string)
	var out []Conflict
	for _, d := range descriptors {
		key := d.HTTPMethod + " " + d.HTTPPath
		if prev, ok := seen[key]; ok {
			out = append(out, Conflict{
				HTTPMethod: d.HTTPMethod,
				HTTPPath:   d.HTTPPath,
				Winner:     d.Name,
				Shadowed:   prev,
			})
		}
		seen[key] = d.Name
	}
	return out
}

// HasGet reports whether any descriptor is bound to GET.
func HasGet(descriptors []Descriptor) bool {
	for _, d := range descriptors {
		if d.IsGet() {
			return true
		}
	}
	return false
}

// HasPost reports whether any descriptor is bound to POST.
func HasPost(descriptors []Descriptor) bool {
	for _, d := range descriptors {
		if d.IsPost() {
			return true
		}
	}
	return false
}
