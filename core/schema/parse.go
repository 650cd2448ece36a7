package schema

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/emicklei/proto"
)

// httpOptionNames are the option names decoded into an HTTPBinding.
var httpOptionNames = []string{"(google.api.http)", "(http)"}

// Load parses an IDL file and the files it imports into a namespace tree.
func Load(path string) (*Schema, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Kind: ErrSchemaNotFound, Path: path}
		}
		return nil, &Error{Kind: ErrSchemaNotFound, Path: path, Cause: err}
	}

	l := &loader{root: NewRoot(), seen: make(map[string]bool)}
	pkg, err := l.loadFile(path)
	if err != nil {
		return nil, err
	}

	return &Schema{Root: l.root, Package: pkg, File: path, Warnings: l.warnings}, nil
}

// Parse parses a single IDL source without following imports.
func Parse(r io.Reader, filename string) (*Schema, error) {
	l := &loader{root: NewRoot(), seen: make(map[string]bool), noImports: true}
	pkg, err := l.parse(r, filename)
	if err != nil {
		return nil, err
	}
	return &Schema{Root: l.root, Package: pkg, File: filename, Warnings: l.warnings}, nil
}

type loader struct {
	root      *Namespace
	seen      map[string]bool
	warnings  []string
	noImports bool
}

func (l *loader) loadFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	l.seen[abs] = true

	f, err := os.Open(path)
	if err != nil {
		return "", &Error{Kind: ErrSchemaNotFound, Path: path, Cause: err}
	}
	defer f.Close()

	return l.parse(f, path)
}

func (l *loader) parse(r io.Reader, filename string) (string, error) {
	parser := proto.NewParser(r)
	parser.Filename(filename)
	def, err := parser.Parse()
	if err != nil {
		return "", &Error{Kind: ErrSchemaParse, Path: filename, Cause: err}
	}

	var pkg string
	var imports []string
	for _, el := range def.Elements {
		switch v := el.(type) {
		case *proto.Package:
			pkg = v.Name
		case *proto.Import:
			imports = append(imports, v.Filename)
		}
	}

	if !l.noImports {
		dir := filepath.Dir(filename)
		for _, imp := range imports {
			if err := l.loadImport(dir, imp); err != nil {
				return "", err
			}
		}
	}

	ns := l.root.ensure(pkg)
	for _, el := range def.Elements {
		switch v := el.(type) {
		case *proto.Message:
			if v.IsExtend {
				continue
			}
			if err := l.addMessage(ns, v, filename); err != nil {
				return "", err
			}
		case *proto.Enum:
			ns.Children = append(ns.Children, buildEnum(ns.FullName, v))
		case *proto.Service:
			svc, err := l.buildService(ns.FullName, v, filename)
			if err != nil {
				return "", err
			}
			ns.Children = append(ns.Children, svc)
		}
	}

	return pkg, nil
}

// loadImport loads an imported file found relative to dir. Missing imports are recorded as
// warnings; their types surface later as unresolvable.
func (l *loader) loadImport(dir, imp string) error {
	candidate := filepath.Join(dir, filepath.FromSlash(imp))
	if _, err := os.Stat(candidate); err != nil {
		candidate = filepath.Join(dir, filepath.Base(imp))
		if _, err := os.Stat(candidate); err != nil {
			l.warnings = append(l.warnings, fmt.Sprintf("import %q not found, skipped", imp))
			return nil
		}
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		abs = candidate
	}
	if l.seen[abs] {
		return nil
	}
	_, err = l.loadFile(candidate)
	return err
}

func (l *loader) addMessage(ns *Namespace, pm *proto.Message, filename string) error {
	msg := &Message{Name: pm.Name, FullName: qualify(ns.FullName, pm.Name)}
	var nested *Namespace

	nestedNS := func() *Namespace {
		if nested == nil {
			nested = &Namespace{Name: pm.Name, FullName: msg.FullName}
		}
		return nested
	}

	for _, el := range pm.Elements {
		switch v := el.(type) {
		case *proto.NormalField:
			if v.Field == nil {
				continue
			}
			msg.Fields = append(msg.Fields, buildField(v))
		case *proto.MapField:
			l.warnings = append(l.warnings, fmt.Sprintf("%s.%s: map fields are not supported, dropped", msg.FullName, v.Name))
		case *proto.Oneof:
			l.warnings = append(l.warnings, fmt.Sprintf("%s.%s: oneof fields are not supported, dropped", msg.FullName, v.Name))
		case *proto.Message:
			if v.IsExtend {
				continue
			}
			if err := l.addMessage(nestedNS(), v, filename); err != nil {
				return err
			}
		case *proto.Enum:
			n := nestedNS()
			n.Children = append(n.Children, buildEnum(n.FullName, v))
		}
	}

	ns.Children = append(ns.Children, msg)
	if nested != nil {
		ns.Children = append(ns.Children, nested)
	}
	return nil
}

func buildField(f *proto.NormalField) *Field {
	field := &Field{
		Name:     f.Name,
		Number:   f.Sequence,
		Optional: f.Optional,
	}
	if f.Repeated {
		field.Cardinality = Repeated
	}
	if IsPrimitiveKind(f.Type) {
		field.Type = Primitive(PrimitiveKind(f.Type))
	} else {
		field.Type = Reference(f.Type)
	}
	return field
}

func buildEnum(scope string, pe *proto.Enum) *Enum {
	e := &Enum{Name: pe.Name, FullName: qualify(scope, pe.Name)}
	for _, el := range pe.Elements {
		if v, ok := el.(*proto.EnumField); ok {
			e.Values = append(e.Values, EnumValue{Name: v.Name, Number: v.Integer})
		}
	}
	return e
}

func (l *loader) buildService(scope string, ps *proto.Service, filename string) (*Service, error) {
	svc := &Service{Name: ps.Name, FullName: qualify(scope, ps.Name)}
	for _, el := range ps.Elements {
		rpc, ok := el.(*proto.RPC)
		if !ok {
			continue
		}
		if rpc.StreamsRequest || rpc.StreamsReturns {
			return nil, &Error{
				Kind:    ErrSchemaParse,
				Path:    filename,
				Service: ps.Name,
				Method:  rpc.Name,
				Message: "streaming RPCs are not supported",
			}
		}
		svc.Methods = append(svc.Methods, &Method{
			Name:         rpc.Name,
			RequestType:  rpc.RequestType,
			ResponseType: rpc.ReturnsType,
			Binding:      decodeBinding(rpc.Elements),
		})
	}
	return svc, nil
}

// decodeBinding reads the HTTP option of a method once. POST wins over GET.
func decodeBinding(elements []proto.Visitee) HTTPBinding {
	var get, post string
	var hasGet, hasPost bool

	set := func(verb, path string) {
		switch strings.ToLower(verb) {
		case "get":
			get, hasGet = path, true
		case "post":
			post, hasPost = path, true
		}
	}

	for _, el := range elements {
		opt, ok := el.(*proto.Option)
		if !ok {
			continue
		}
		for _, name := range httpOptionNames {
			switch {
			case opt.Name == name:
				for _, nl := range opt.Constant.OrderedMap {
					if nl == nil || nl.Literal == nil {
						continue
					}
					set(nl.Name, nl.Literal.Source)
				}
			case strings.HasPrefix(opt.Name, name+"."):
				set(strings.TrimPrefix(opt.Name, name+"."), opt.Constant.Source)
			}
		}
	}

	switch {
	case hasPost:
		return PostBinding(post)
	case hasGet:
		return GetBinding(get)
	default:
		return NoBinding()
	}
}
