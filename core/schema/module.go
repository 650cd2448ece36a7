package schema

import "strings"

// Node is a child of a Namespace: a *Message, *Enum, *Service or *Namespace.
type Node interface {
	// NodeName returns the unqualified name of the node.
	NodeName() string

	node()
}

// Schema is a loaded IDL source.
type Schema struct {
	// Root is the top of the namespace tree.
	Root *Namespace

	// Package is the package declared by the entry file ("" when none is declared).
	Package string

	// File is the path of the entry file.
	File string

	// Warnings lists constructs dropped while loading (map fields, oneofs, missing imports).
	Warnings []string
}

// PackageNamespace returns the namespace of the entry file's package.
func (s *Schema) PackageNamespace() *Namespace {
	return s.Root.Namespace(s.Package)
}

// Namespace is a node of the schema tree.
type Namespace struct {
	// Name is the unqualified namespace name ("" for the root).
	Name string

	// FullName is the dot-separated path from the root.
	FullName string

	// Children holds messages, enums, services and nested namespaces in declaration order.
	Children []Node
}

// NewRoot creates an empty root namespace.
func NewRoot() *Namespace {
	return &Namespace{}
}

func (n *Namespace) NodeName() string { return n.Name }
func (*Namespace) node()              {}

// Messages returns the messages declared directly in this namespace.
func (n *Namespace) Messages() []*Message {
	var out []*Message
	for _, c := range n.Children {
		if m, ok := c.(*Message); ok {
			out = append(out, m)
		}
	}
	return out
}

// Enums returns the enums declared directly in this namespace.
func (n *Namespace) Enums() []*Enum {
	var out []*Enum
	for _, c := range n.Children {
		if e, ok := c.(*Enum); ok {
			out = append(out, e)
		}
	}
	return out
}

// Services returns the services declared directly in this namespace.
func (n *Namespace) Services() []*Service {
	var out []*Service
	for _, c := range n.Children {
		if s, ok := c.(*Service); ok {
			out = append(out, s)
		}
	}
	return out
}

// Namespaces returns the nested namespaces.
func (n *Namespace) Namespaces() []*Namespace {
	var out []*Namespace
	for _, c := range n.Children {
		if ns, ok := c.(*Namespace); ok {
			out = append(out, ns)
		}
	}
	return out
}

// Namespace returns the descendant namespace at the dotted path, or nil.
// An empty path returns n itself.
func (n *Namespace) Namespace(path string) *Namespace {
	path = strings.Trim(path, ".")
	if path == "" {
		return n
	}
	cur := n
	for _, part := range strings.Split(path, ".") {
		next := cur.child(part, true)
		if next == nil {
			return nil
		}
		cur = next.(*Namespace)
	}
	return cur
}

// ensure returns the descendant namespace at path, creating missing levels.
func (n *Namespace) ensure(path string) *Namespace {
	path = strings.Trim(path, ".")
	if path == "" {
		return n
	}
	cur := n
	for _, part := range strings.Split(path, ".") {
		if next := cur.child(part, true); next != nil {
			cur = next.(*Namespace)
			continue
		}
		ns := &Namespace{Name: part, FullName: qualify(cur.FullName, part)}
		cur.Children = append(cur.Children, ns)
		cur = ns
	}
	return cur
}

// child finds a direct child by name. Namespaces and types may share a name (a message and
// the namespace holding its nested types), so the caller states which one it wants.
func (n *Namespace) child(name string, wantNamespace bool) Node {
	for _, c := range n.Children {
		if c.NodeName() != name {
			continue
		}
		_, isNS := c.(*Namespace)
		if isNS == wantNamespace {
			return c
		}
	}
	return nil
}

// Message is a named composite type with an ordered field list.
type Message struct {
	Name     string
	FullName string
	Fields   []*Field
}

func (m *Message) NodeName() string { return m.Name }
func (*Message) node()              {}

// Enum is a named set of values.
type Enum struct {
	Name     string
	FullName string
	Values   []EnumValue
}

// EnumValue is one named enum value.
type EnumValue struct {
	Name   string
	Number int
}

func (e *Enum) NodeName() string { return e.Name }
func (*Enum) node()              {}

// ValueNames returns the value names in declaration order.
func (e *Enum) ValueNames() []string {
	names := make([]string, len(e.Values))
	for i, v := range e.Values {
		names[i] = v.Name
	}
	return names
}

// Service is a named, ordered list of RPC methods.
type Service struct {
	Name     string
	FullName string
	Methods  []*Method
}

func (s *Service) NodeName() string { return s.Name }
func (*Service) node()              {}

// Method is a single unary RPC.
type Method struct {
	Name string

	// RequestType and ResponseType are type names as written in the IDL.
	RequestType  string
	ResponseType string

	// Binding is the decoded (google.api.http) option.
	Binding HTTPBinding
}

// BindingVerb is the verb of an HTTP binding.
type BindingVerb int

const (
	// BindingNone means the method declares no HTTP binding.
	BindingNone BindingVerb = iota

	// BindingGet is a GET binding.
	BindingGet

	// BindingPost is a POST binding.
	BindingPost
)

// String returns the verb name.
func (v BindingVerb) String() string {
	switch v {
	case BindingGet:
		return "GET"
	case BindingPost:
		return "POST"
	default:
		return "NONE"
	}
}

// HTTPBinding is the closed variant None | Get(path) | Post(path).
type HTTPBinding struct {
	Verb BindingVerb
	Path string
}

// NoBinding returns the None variant.
func NoBinding() HTTPBinding { return HTTPBinding{} }

// GetBinding returns the Get(path) variant.
func GetBinding(path string) HTTPBinding { return HTTPBinding{Verb: BindingGet, Path: path} }

// PostBinding returns the Post(path) variant.
func PostBinding(path string) HTTPBinding { return HTTPBinding{Verb: BindingPost, Path: path} }

func qualify(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

// SimpleName returns the last dot-separated segment of a type name.
func SimpleName(typeName string) string {
	if i := strings.LastIndex(typeName, "."); i >= 0 {
		return typeName[i+1:]
	}
	return typeName
}
