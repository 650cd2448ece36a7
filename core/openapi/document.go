package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/thewind121212/gen-barcode-sub000/core/convention"
)

// DocumentInfo is the metadata of a fresh document.
type DocumentInfo struct {
	Title       string
	Description string
	Version     string
	Servers     []string
}

// Document builds a fresh document for one package.
func Document(packageName string, info DocumentInfo, paths map[string]*PathItem, schemas map[string]*Schema) *Spec {
	if paths == nil {
		paths = make(map[string]*PathItem)
	}
	if schemas == nil {
		schemas = make(map[string]*Schema)
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}
	if info.Title == "" {
		info.Title = convention.Title(packageName) + " API"
	}

	spec := &Spec{
		OpenAPI: Version,
		Info: Info{
			Title:       info.Title,
			Description: info.Description,
			Version:     info.Version,
		},
		Tags:       []Tag{{Name: packageName}},
		Paths:      paths,
		Components: Components{Schemas: schemas},
	}
	for _, url := range info.Servers {
		spec.Servers = append(spec.Servers, Server{URL: url})
	}
	return spec
}

// ToJSON returns the deterministic encoding of the document: object keys sorted, two-space
// indent, trailing newline.
func (spec *Spec) ToJSON() ([]byte, error) {
	tree, err := toTree(spec)
	if err != nil {
		return nil, err
	}
	return encode(tree)
}

// MergeDocument folds a fresh document into the bytes of an existing one. Only "paths" and
// "components.schemas" are replaced; every other key is kept. An empty, unreadable or
// non-object existing document is replaced by the fresh one.
func MergeDocument(existing []byte, fresh *Spec) ([]byte, error) {
	doc, ok := decodeObject(existing)
	if !ok {
		return fresh.ToJSON()
	}

	paths, err := toTree(fresh.Paths)
	if err != nil {
		return nil, err
	}
	schemas, err := toTree(fresh.Components.Schemas)
	if err != nil {
		return nil, err
	}

	doc["paths"] = paths
	components, ok := doc["components"].(map[string]any)
	if !ok {
		components = make(map[string]any)
	}
	components["schemas"] = schemas
	doc["components"] = components

	return encode(doc)
}

// decodeObject decodes a JSON object, keeping numbers verbatim.
func decodeObject(data []byte) (map[string]any, bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return nil, false
	}
	return doc, true
}

// toTree converts a value to its generic JSON form so maps are encoded with sorted keys.
func toTree(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return tree, nil
}

func encode(tree any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}
