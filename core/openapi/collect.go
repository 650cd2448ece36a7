package openapi

import (
	"fmt"

	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
)

// CollectSchemas flattens every message and enum below ns into component schemas keyed by
// simple name. Nested namespaces are visited depth first in declaration order; on a name
// collision the later declaration wins and a notice is returned.
func CollectSchemas(ns *schema.Namespace) (map[string]*Schema, []convention.Notice) {
	out := make(map[string]*Schema)
	origin := make(map[string]string)
	var notices []convention.Notice

	put := func(name, fullName string, s *Schema) {
		if prev, ok := origin[name]; ok && prev != fullName {
			notices = append(notices, convention.Notice{
				Kind:    convention.NoticeSchemaCollision,
				Subject: name,
				Message: fmt.Sprintf("%s replaces %s", fullName, prev),
			})
		}
		out[name] = s
		origin[name] = fullName
	}

	if ns == nil {
		return out, nil
	}

	ns.Walk(func(n *schema.Namespace) {
		for _, child := range n.Children {
			switch v := child.(type) {
			case *schema.Message:
				put(v.Name, v.FullName, MessageSchema(v))
			case *schema.Enum:
				put(v.Name, v.FullName, EnumSchema(v))
			}
		}
	})

	return out, notices
}

// MessageSchema converts a message to an object schema.
func MessageSchema(m *schema.Message) *Schema {
	s := &Schema{Type: "object", Properties: make(map[string]*Schema)}
	for _, f := range m.Fields {
		fs, required := TranslateField(f)
		s.Properties[f.Name] = fs
		if required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

// EnumSchema converts an enum to a string schema listing its value names.
func EnumSchema(e *schema.Enum) *Schema {
	return &Schema{Type: "string", Enum: e.ValueNames()}
}

// CollectExternal adds the messages and enums that schemas or the method signatures of ds
// reference but that live outside ns (imported packages), resolving field references from
// their declaring scope and method types from pkg. It returns the field references that
// could not be resolved anywhere in root.
func CollectExternal(schemas map[string]*Schema, ns, root *schema.Namespace, pkg string, ds []convention.Descriptor) []convention.Notice {
	if ns == nil || root == nil {
		return nil
	}

	var notices []convention.Notice
	var visit func(m *schema.Message)
	visit = func(m *schema.Message) {
		scope := parentScope(m.FullName)
		for _, f := range m.Fields {
			if f.Type.IsPrimitive() {
				continue
			}
			name := f.Type.SimpleName()
			if _, ok := schemas[name]; ok {
				continue
			}
			node, ok := root.Resolve(scope, f.Type.Ref)
			if !ok {
				notices = append(notices, convention.Notice{
					Kind:    convention.NoticeLoadWarning,
					Subject: m.FullName + "." + f.Name,
					Message: fmt.Sprintf("type %s is not declared", f.Type.Ref),
				})
				continue
			}
			switch v := node.(type) {
			case *schema.Message:
				schemas[name] = MessageSchema(v)
				visit(v)
			case *schema.Enum:
				schemas[name] = EnumSchema(v)
			}
		}
	}

	ns.Walk(func(n *schema.Namespace) {
		for _, m := range n.Messages() {
			visit(m)
		}
	})
	for _, d := range ds {
		for _, t := range []string{d.RequestType, d.ResponseType} {
			name := schema.SimpleName(t)
			if _, ok := schemas[name]; ok {
				continue
			}
			m, ok := root.ResolveMessage(pkg, t)
			if !ok {
				continue
			}
			schemas[name] = MessageSchema(m)
			visit(m)
		}
	}
	return notices
}

func parentScope(fullName string) string {
	for i := len(fullName) - 1; i >= 0; i-- {
		if fullName[i] == '.' {
			return fullName[:i]
		}
	}
	return ""
}
