package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const widgetProto = `
syntax = "proto3";

package widget;

import "google/api/annotations.proto";

enum Color {
  COLOR_UNSPECIFIED = 0;
  RED = 1;
  BLUE = 2;
}

message CreateWidgetRequest {
  string name = 1;
  optional int64 weight = 2;
  repeated string tags = 3;
  Color color = 4;
  map<string, string> labels = 5;
}

message Widget {
  string id = 1;
  string name = 2;

  message Dimensions {
    double width = 1;
    double height = 2;
  }

  Dimensions size = 3;
}

message ListWidgetsRequest {
  int32 page = 1;
}

message ListWidgetsResponse {
  repeated Widget items = 1;
}

service WidgetService {
  rpc CreateWidget(CreateWidgetRequest) returns (Widget) {
    option (google.api.http) = {
      post: "/widgets/create"
      body: "*"
    };
  }
  rpc ListWidgets(ListWidgetsRequest) returns (ListWidgetsResponse) {
    option (google.api.http).get = "/widgets/list";
  }
  rpc Ping(ListWidgetsRequest) returns (ListWidgetsRequest);
}
`

func parseWidget(t *testing.T) *Schema {
	t.Helper()
	s, err := Parse(strings.NewReader(widgetProto), "widget.proto")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return s
}

func TestParse(t *testing.T) {
	s := parseWidget(t)

	if s.Package != "widget" {
		t.Errorf("Package = %q, want %q", s.Package, "widget")
	}

	ns := s.PackageNamespace()
	if ns == nil {
		t.Fatal("PackageNamespace() = nil")
	}
	if ns.FullName != "widget" {
		t.Errorf("FullName = %q, want %q", ns.FullName, "widget")
	}

	if got := len(ns.Messages()); got != 4 {
		t.Errorf("Messages() has %d entries, want 4", got)
	}
	if got := len(ns.Enums()); got != 1 {
		t.Errorf("Enums() has %d entries, want 1", got)
	}
	if got := len(ns.Services()); got != 1 {
		t.Fatalf("Services() has %d entries, want 1", got)
	}

	svc := ns.Services()[0]
	if svc.Name != "WidgetService" {
		t.Errorf("Service.Name = %q, want %q", svc.Name, "WidgetService")
	}
	if len(svc.Methods) != 3 {
		t.Fatalf("Methods has %d entries, want 3", len(svc.Methods))
	}
}

func TestParseFields(t *testing.T) {
	s := parseWidget(t)

	node, ok := s.Root.Lookup("widget.CreateWidgetRequest")
	if !ok {
		t.Fatal("CreateWidgetRequest not found")
	}
	msg := node.(*Message)

	// map field is dropped
	if len(msg.Fields) != 4 {
		t.Fatalf("Fields has %d entries, want 4", len(msg.Fields))
	}

	tests := []struct {
		name     string
		typ      string
		repeated bool
		required bool
	}{
		{"name", "string", false, true},
		{"weight", "int64", false, false},
		{"tags", "string", true, false},
		{"color", "Color", false, true},
	}
	for i, tt := range tests {
		f := msg.Fields[i]
		if f.Name != tt.name {
			t.Errorf("Fields[%d].Name = %q, want %q", i, f.Name, tt.name)
		}
		if f.Type.String() != tt.typ {
			t.Errorf("%s type = %q, want %q", f.Name, f.Type.String(), tt.typ)
		}
		if f.IsRepeated() != tt.repeated {
			t.Errorf("%s IsRepeated() = %v, want %v", f.Name, f.IsRepeated(), tt.repeated)
		}
		if f.IsRequired() != tt.required {
			t.Errorf("%s IsRequired() = %v, want %v", f.Name, f.IsRequired(), tt.required)
		}
	}

	if msg.Fields[3].Type.IsPrimitive() {
		t.Error("color should be a reference")
	}

	if len(s.Warnings) != 1 || !strings.Contains(s.Warnings[0], "labels") {
		t.Errorf("Warnings = %v, want one map-field warning", s.Warnings)
	}
}

func TestParseBindings(t *testing.T) {
	s := parseWidget(t)
	methods := s.PackageNamespace().Services()[0].Methods

	tests := []struct {
		method string
		want   HTTPBinding
	}{
		{"CreateWidget", PostBinding("/widgets/create")},
		{"ListWidgets", GetBinding("/widgets/list")},
		{"Ping", NoBinding()},
	}
	for i, tt := range tests {
		m := methods[i]
		if m.Name != tt.method {
			t.Errorf("Methods[%d].Name = %q, want %q", i, m.Name, tt.method)
		}
		if m.Binding != tt.want {
			t.Errorf("%s binding = %+v, want %+v", m.Name, m.Binding, tt.want)
		}
	}

	if methods[0].RequestType != "CreateWidgetRequest" {
		t.Errorf("RequestType = %q, want %q", methods[0].RequestType, "CreateWidgetRequest")
	}
	if methods[0].ResponseType != "Widget" {
		t.Errorf("ResponseType = %q, want %q", methods[0].ResponseType, "Widget")
	}
}

func TestParsePostWinsOverGet(t *testing.T) {
	src := `
syntax = "proto3";
package both;
message Req {}
service S {
  rpc Do(Req) returns (Req) {
    option (google.api.http) = {
      get: "/a/read"
      post: "/a/write"
    };
  }
}
`
	s, err := Parse(strings.NewReader(src), "both.proto")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got := s.PackageNamespace().Services()[0].Methods[0].Binding
	if got != PostBinding("/a/write") {
		t.Errorf("binding = %+v, want POST /a/write", got)
	}
}

func TestParseNestedTypes(t *testing.T) {
	s := parseWidget(t)

	node, ok := s.Root.Lookup(".widget.Widget.Dimensions")
	if !ok {
		t.Fatal("nested Dimensions not found")
	}
	m, ok := node.(*Message)
	if !ok {
		t.Fatalf("Dimensions is %T, want *Message", node)
	}
	if m.FullName != "widget.Widget.Dimensions" {
		t.Errorf("FullName = %q, want %q", m.FullName, "widget.Widget.Dimensions")
	}

	nested := s.PackageNamespace().Namespace("Widget")
	if nested == nil {
		t.Fatal("Widget namespace missing")
	}
	if len(nested.Messages()) != 1 {
		t.Errorf("Widget namespace has %d messages, want 1", len(nested.Messages()))
	}
}

func TestParseStreamingRejected(t *testing.T) {
	src := `
syntax = "proto3";
package s;
message M {}
service S {
  rpc Watch(M) returns (stream M);
}
`
	_, err := Parse(strings.NewReader(src), "s.proto")
	if !errors.Is(err, ErrSchemaParse) {
		t.Fatalf("err = %v, want ErrSchemaParse", err)
	}

	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("err is %T, want *Error", err)
	}
	if se.Method != "Watch" {
		t.Errorf("Method = %q, want %q", se.Method, "Watch")
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("syntax = \"proto3\";\nmessage M { string name = ; }"), "bad.proto")
	if !errors.Is(err, ErrSchemaParse) {
		t.Errorf("err = %v, want ErrSchemaParse", err)
	}
}

func TestParseOneofDropped(t *testing.T) {
	src := `
syntax = "proto3";
package o;
message M {
  string id = 1;
  oneof choice {
    string a = 2;
    int32 b = 3;
  }
}
`
	s, err := Parse(strings.NewReader(src), "o.proto")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	m := s.PackageNamespace().Messages()[0]
	if len(m.Fields) != 1 {
		t.Errorf("Fields has %d entries, want 1", len(m.Fields))
	}
	if len(s.Warnings) != 1 || !strings.Contains(s.Warnings[0], "oneof") {
		t.Errorf("Warnings = %v, want one oneof warning", s.Warnings)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.proto"))
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("err = %v, want ErrSchemaNotFound", err)
	}
}

func TestLoadFollowsImports(t *testing.T) {
	dir := t.TempDir()

	common := `
syntax = "proto3";
package common;
message Page {
  int32 offset = 1;
  int32 limit = 2;
}
`
	entry := `
syntax = "proto3";
package shop;
import "common.proto";
import "google/api/annotations.proto";
message ListRequest {
  common.Page page = 1;
}
message ListResponse {}
service Shop {
  rpc List(ListRequest) returns (ListResponse);
}
`
	if err := os.WriteFile(filepath.Join(dir, "common.proto"), []byte(common), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "shop.proto")
	if err := os.WriteFile(path, []byte(entry), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Package != "shop" {
		t.Errorf("Package = %q, want %q", s.Package, "shop")
	}
	if _, ok := s.Root.ResolveMessage("shop", "common.Page"); !ok {
		t.Error("imported common.Page not resolvable")
	}
	if len(s.Warnings) != 1 || !strings.Contains(s.Warnings[0], "google/api/annotations.proto") {
		t.Errorf("Warnings = %v, want one missing-import warning", s.Warnings)
	}
}
