package openapi

import (
	"fmt"

	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
)

// BuildPaths builds one operation per descriptor, mounted at /{packageName}/{httpPath}.
// GET request fields become query parameters; a GET whose request type does not resolve to
// a message keeps no parameters and yields a DegradedQueryParams notice. When two methods
// share a verb and path the later one replaces the earlier; convention.DetectConflicts
// reports those.
func BuildPaths(descriptors []convention.Descriptor, packageName string, root *schema.Namespace) (map[string]*PathItem, []convention.Notice) {
	paths := make(map[string]*PathItem)
	var notices []convention.Notice

	for _, d := range descriptors {
		path := MountPath(packageName, d.HTTPPath)
		item, ok := paths[path]
		if !ok {
			item = &PathItem{}
			paths[path] = item
		}

		op := &Operation{
			Tags:        []string{packageName},
			Summary:     d.Service + "." + d.Name,
			OperationID: d.Name,
			Responses: map[string]Response{
				"200": {
					Description: "OK",
					Content:     jsonContent(RefSchema(schema.SimpleName(d.ResponseType))),
				},
			},
		}

		if d.IsGet() {
			op.Parameters, ok = queryParameters(root, packageName, d.RequestType)
			if !ok {
				notices = append(notices, convention.Notice{
					Kind:    convention.NoticeDegradedQueryParams,
					Subject: d.Name,
					Message: fmt.Sprintf("request type %s is not a message, query parameters skipped", d.RequestType),
				})
			}
			item.Get = op
		} else {
			op.RequestBody = &RequestBody{
				Required: true,
				Content:  jsonContent(RefSchema(schema.SimpleName(d.RequestType))),
			}
			item.Post = op
		}
	}

	return paths, notices
}

// MountPath returns the public path of a route.
func MountPath(packageName, httpPath string) string {
	return "/" + packageName + "/" + httpPath
}

func queryParameters(root *schema.Namespace, packageName, requestType string) ([]Parameter, bool) {
	if root == nil {
		return nil, false
	}
	msg, ok := root.ResolveMessage(packageName, requestType)
	if !ok {
		return nil, false
	}

	params := make([]Parameter, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		s, required := TranslateField(f)
		params = append(params, Parameter{
			Name:     f.Name,
			In:       "query",
			Required: required,
			Schema:   s,
		})
	}
	return params, true
}
