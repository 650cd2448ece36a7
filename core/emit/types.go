package emit

import (
	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
	"github.com/thewind121212/gen-barcode-sub000/core/typemap"
)

type tsDecl struct {
	Name   string
	IsEnum bool
	Values []string
	Fields []tsField
}

type tsField struct {
	Name     string
	Type     string
	Optional bool
}

type typesData struct {
	Header string
	Decls  []tsDecl
}

// ClientTypes renders one interface per message and one string enum per enum declared in
// the package, plus the imported types they reference. Declarations keep their first
// position; on a simple-name collision the later declaration's body wins.
func ClientTypes(in Input) ([]byte, error) {
	data := typesData{Header: generatedHeader(in.Package)}
	for _, node := range collectTypes(in.Root, in.Package, in.Descriptors) {
		switch v := node.(type) {
		case *schema.Message:
			data.Decls = append(data.Decls, messageDecl(v))
		case *schema.Enum:
			data.Decls = append(data.Decls, tsDecl{Name: v.Name, IsEnum: true, Values: v.ValueNames()})
		}
	}
	return render("types", data)
}

func messageDecl(m *schema.Message) tsDecl {
	d := tsDecl{Name: m.Name}
	for _, f := range m.Fields {
		t := typemap.TSType(f.Type)
		if f.IsRepeated() {
			t += "[]"
		}
		// proto3 JSON omits empty lists.
		d.Fields = append(d.Fields, tsField{Name: f.Name, Type: t, Optional: f.Optional || f.IsRepeated()})
	}
	return d
}

// collectTypes lists the messages and enums of the package namespace (nested ones included)
// followed by the external types they or the method signatures reach, deduplicated by
// simple name.
func collectTypes(root *schema.Namespace, pkg string, ds []convention.Descriptor) []schema.Node {
	if root == nil {
		return nil
	}
	ns := root.Namespace(pkg)
	if ns == nil {
		return nil
	}

	index := make(map[string]int)
	var out []schema.Node
	add := func(n schema.Node) bool {
		if i, ok := index[n.NodeName()]; ok {
			out[i] = n
			return false
		}
		index[n.NodeName()] = len(out)
		out = append(out, n)
		return true
	}

	var local []*schema.Message
	ns.Walk(func(n *schema.Namespace) {
		for _, child := range n.Children {
			switch v := child.(type) {
			case *schema.Message:
				add(v)
				local = append(local, v)
			case *schema.Enum:
				add(v)
			}
		}
	})

	var reach func(m *schema.Message)
	reach = func(m *schema.Message) {
		for _, f := range m.Fields {
			if f.Type.IsPrimitive() {
				continue
			}
			if _, ok := index[f.Type.SimpleName()]; ok {
				continue
			}
			node, ok := root.Resolve(parentScope(m.FullName), f.Type.Ref)
			if !ok {
				continue
			}
			switch v := node.(type) {
			case *schema.Message:
				if add(v) {
					reach(v)
				}
			case *schema.Enum:
				add(v)
			}
		}
	}
	for _, m := range local {
		reach(m)
	}
	for _, d := range ds {
		for _, t := range []string{d.RequestType, d.ResponseType} {
			if _, ok := index[schema.SimpleName(t)]; ok {
				continue
			}
			if m, ok := root.ResolveMessage(pkg, t); ok && add(m) {
				reach(m)
			}
		}
	}
	return out
}
