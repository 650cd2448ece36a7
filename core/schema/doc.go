/*
Package schema defines the in-memory model of an IDL schema and the loader that builds it.

A schema is a tree of namespaces. Each namespace holds messages, enums, services and nested
namespaces in declaration order. The tree is built once by Load and is read-only afterwards.

# IDL Source

Schemas are written in protobuf syntax:

	syntax = "proto3";
	package widget;

	import "google/api/annotations.proto";

	enum WidgetStatus {
	  WIDGET_STATUS_UNSPECIFIED = 0;
	  WIDGET_STATUS_ACTIVE = 1;
	}

	message CreateWidgetRequest {
	  string name = 1;
	  repeated string tags = 2;
	  optional string note = 3;
	}

	message CreateWidgetResponse {
	  string id = 1;
	  WidgetStatus status = 2;
	}

	service WidgetService {
	  rpc CreateWidget(CreateWidgetRequest) returns (CreateWidgetResponse) {
	    option (google.api.http) = { post: "/widgets/create" body: "*" };
	  }
	}

# Field Types

A field type is either a primitive kind (string, bool, double, float, int32, int64, uint32,
uint64, sint32, sint64, fixed32, fixed64, sfixed32, sfixed64, bytes) or a reference to a
message or enum by name. The distinction is made once while loading; callers never inspect
type strings.

# HTTP Bindings

The (google.api.http) method option is decoded into an HTTPBinding when the method is loaded.
Both the aggregate form and the dotted form are understood:

	option (google.api.http) = { get: "/widgets/get" };
	option (google.api.http).post = "/widgets/create";

When a method declares both verbs, POST wins.

# Loading

	s, err := schema.Load("proto/widget/widget.proto")
	if err != nil {
	    // errors.Is(err, schema.ErrSchemaNotFound) or schema.ErrSchemaParse
	}
	if err := schema.Validate(s.Root, s.Package); err != nil {
	    // errors.Is(err, schema.ErrNoServiceDefined) or schema.ErrUnresolvableType
	}

Imports are followed relative to the importing file. Imports that cannot be found on disk are
skipped; the types they would provide stay unresolvable and are reported by Validate.
*/
package schema
