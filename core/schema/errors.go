package schema

import (
	"errors"
	"strings"
)

// Sentinel errors for fatal schema failures. Every *Error matches exactly one of them.
var (
	// ErrSchemaNotFound indicates the IDL file does not exist.
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrSchemaParse indicates malformed or unsupported IDL.
	ErrSchemaParse = errors.New("schema parse error")
	// ErrNoServiceDefined indicates the target package declares no service.
	ErrNoServiceDefined = errors.New("no service defined")
	// ErrUnresolvableType indicates a method type that does not resolve to a message.
	ErrUnresolvableType = errors.New("unresolvable type")
)

// Error describes a schema failure.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Path is the IDL file involved, if any.
	Path string
	// Package is the target package, if any.
	Package string
	// Service and Method locate the failing method, if any.
	Service string
	Method  string
	// Type is the type name that failed to resolve, if any.
	Type    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("schema error")
	}
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Package != "" {
		b.WriteString(" package ")
		b.WriteString(e.Package)
	}
	if e.Method != "" {
		b.WriteString(" method ")
		if e.Service != "" {
			b.WriteString(e.Service)
			b.WriteString(".")
		}
		b.WriteString(e.Method)
	}
	if e.Type != "" {
		b.WriteString(" type ")
		b.WriteString(e.Type)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chaining.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}
