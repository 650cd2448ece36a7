package generate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thewind121212/gen-barcode-sub000/adapters/idgen"
	"github.com/thewind121212/gen-barcode-sub000/core/artifact"
	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
)

const inventoryProto = `
syntax = "proto3";
package inventory;

import "google/api/annotations.proto";

message Item {
  string sku = 1;
  string name = 2;
  optional int32 quantity = 3;
}

message GetItemRequest {
  string sku = 1;
}

message CreateItemRequest {
  string sku = 1;
  string name = 2;
  repeated string barcodes = 3;
}

service InventoryService {
  rpc GetItem(GetItemRequest) returns (Item) {
    option (google.api.http).get = "/items/get";
  }
  rpc CreateItem(CreateItemRequest) returns (Item) {
    option (google.api.http) = {
      post: "/items/create"
      body: "*"
    };
  }
  rpc Archive(GetItemRequest) returns (Item);
}
`

const emptyProto = `
syntax = "proto3";
package empty;
message Nothing {}
`

const noMethodsProto = `
syntax = "proto3";
package shop;
message Cart {}
service ShopService {}
`

const commonProto = `
syntax = "proto3";
package common;
message Empty {}
`

const pingProto = `
syntax = "proto3";
package shop;

import "common.proto";

message PingResponse {
  string status = 1;
}

service ShopService {
  rpc Ping(common.Empty) returns (PingResponse);
}
`

func writeSchema(t *testing.T, dir, pkg, src string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, pkg), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, pkg, pkg+".proto"), []byte(src), 0o644))
}

func testOptions(t *testing.T, pkg string) Options {
	t.Helper()
	root := t.TempDir()
	return Options{
		Package:   pkg,
		SchemaDir: filepath.Join(root, "proto"),
		Layout: Layout{
			ClientRoot: filepath.Join(root, "frontend", "src"),
			ServerRoot: filepath.Join(root, "backend", "src"),
		},
		IDs:    idgen.NewSequential("run-"),
		Logger: zerolog.Nop(),
	}
}

func parse(t *testing.T, src string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(strings.NewReader(src), "test.proto")
	require.NoError(t, err)
	return s
}

func TestGeneratePlan(t *testing.T) {
	opts := testOptions(t, "inventory")
	plan, err := Generate(parse(t, inventoryProto), opts)
	require.NoError(t, err)

	assert.False(t, plan.Skipped)
	require.Len(t, plan.Descriptors, 3)
	assert.Equal(t, "inventory/Archive", plan.Descriptors[2].HTTPPath)

	want := []struct {
		kind   artifact.Kind
		path   string
		policy artifact.Policy
	}{
		{artifact.KindClientTypes, opts.Layout.ClientTypesPath("inventory"), artifact.AlwaysOverwrite},
		{artifact.KindClientAPI, opts.Layout.ClientAPIPath("inventory"), artifact.AlwaysOverwrite},
		{artifact.KindClientHooks, opts.Layout.ClientHooksPath("inventory"), artifact.AlwaysOverwrite},
		{artifact.KindServerRoutes, opts.Layout.ServerRoutesPath("inventory"), artifact.AlwaysOverwrite},
		{artifact.KindServerDTO, opts.Layout.ServerDTOPath("inventory"), artifact.WriteIfAbsent},
		{artifact.KindOpenAPIDoc, opts.Layout.OpenAPIPath("inventory"), artifact.StructuralMerge},
	}
	require.Len(t, plan.Artifacts, len(want))
	for i, w := range want {
		a := plan.Artifacts[i]
		assert.Equal(t, w.kind, a.Kind)
		assert.Equal(t, w.path, a.Path)
		assert.Equal(t, w.policy, a.Policy)
		assert.NotEmpty(t, a.Content, "%s content", a.Kind)
	}
	assert.NotNil(t, plan.Artifacts[5].Merge)

	require.NotNil(t, plan.Document)
	assert.Contains(t, plan.Document.Paths, "/inventory/get")
	assert.Contains(t, plan.Document.Paths, "/inventory/create")
	assert.Contains(t, plan.Document.Paths, "/inventory/inventory/Archive")
}

func TestLayoutPaths(t *testing.T) {
	l := Layout{ClientRoot: "web", ServerRoot: "api"}

	assert.Equal(t, filepath.Join("web", "services", "shop", "types.ts"), l.ClientTypesPath("shop"))
	assert.Equal(t, filepath.Join("web", "services", "shop", "api.ts"), l.ClientAPIPath("shop"))
	assert.Equal(t, filepath.Join("web", "services", "shop", "useQuery.ts"), l.ClientHooksPath("shop"))
	assert.Equal(t, filepath.Join("api", "core", "api", "shop", "shop.routes.ts"), l.ServerRoutesPath("shop"))
	assert.Equal(t, filepath.Join("api", "core", "dto", "shop.dto.ts"), l.ServerDTOPath("shop"))
	assert.Equal(t, filepath.Join("api", "openapi", "shop.openapi.json"), l.OpenAPIPath("shop"))
}

func TestGenerateNoServices(t *testing.T) {
	s := parse(t, emptyProto)

	plan, err := Generate(s, testOptions(t, "empty"))
	require.NoError(t, err)
	assert.True(t, plan.Skipped)
	assert.Empty(t, plan.Artifacts)
	require.Len(t, plan.Notices, 1)
	assert.Equal(t, convention.NoticeNoServices, plan.Notices[0].Kind)

	opts := testOptions(t, "empty")
	opts.Strict = true
	_, err = Generate(s, opts)
	assert.ErrorIs(t, err, schema.ErrNoServiceDefined)
}

func TestGenerateNoMethods(t *testing.T) {
	s := parse(t, noMethodsProto)

	plan, err := Generate(s, testOptions(t, "shop"))
	require.NoError(t, err)
	assert.True(t, plan.Skipped)
	assert.Empty(t, plan.Descriptors)
	assert.Empty(t, plan.Artifacts)
	assert.Nil(t, plan.Document)
	require.Len(t, plan.Notices, 1)
	assert.Equal(t, convention.NoticeNoMethods, plan.Notices[0].Kind)

	opts := testOptions(t, "shop")
	opts.Strict = true
	_, err = Generate(s, opts)
	assert.ErrorIs(t, err, schema.ErrNoServiceDefined)
}

func TestGenerateUnresolvableType(t *testing.T) {
	src := `
syntax = "proto3";
package broken;
message Req {}
service S {
  rpc Do(Req) returns (Missing);
}
`
	_, err := Generate(parse(t, src), testOptions(t, "broken"))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnresolvableType)
	assert.Contains(t, err.Error(), "Missing")
}

func TestGenerateRequiresPackage(t *testing.T) {
	_, err := Generate(parse(t, inventoryProto), Options{})
	assert.ErrorIs(t, err, ErrPackageRequired)
}

func TestGenerateNotices(t *testing.T) {
	src := `
syntax = "proto3";
package dup;
message Req {
  map<string, string> labels = 1;
}
service S {
  rpc First(Req) returns (Req) {
    option (google.api.http).post = "/x/same";
  }
  rpc Second(Req) returns (Req) {
    option (google.api.http).post = "/y/same";
  }
}
`
	plan, err := Generate(parse(t, src), testOptions(t, "dup"))
	require.NoError(t, err)

	kinds := make(map[convention.NoticeKind]int)
	for _, n := range plan.Notices {
		kinds[n.Kind]++
	}
	assert.Equal(t, 1, kinds[convention.NoticeLoadWarning])
	assert.Equal(t, 1, kinds[convention.NoticePathCollision])
	assert.Equal(t, "Second", plan.Document.Paths["/dup/same"].Post.OperationID)
}

func TestGeneratePackageMismatch(t *testing.T) {
	plan, err := Generate(parse(t, inventoryProto), testOptions(t, "stock"))
	require.NoError(t, err)

	assert.True(t, plan.Skipped)
	require.Len(t, plan.Notices, 2)
	assert.Equal(t, convention.NoticeLoadWarning, plan.Notices[0].Kind)
	assert.Contains(t, plan.Notices[0].Message, `"inventory"`)
}

func TestGenerateDeterministic(t *testing.T) {
	opts := testOptions(t, "inventory")
	a, err := Generate(parse(t, inventoryProto), opts)
	require.NoError(t, err)
	b, err := Generate(parse(t, inventoryProto), opts)
	require.NoError(t, err)

	for i := range a.Artifacts {
		assert.Equal(t, string(a.Artifacts[i].Content), string(b.Artifacts[i].Content), "%s", a.Artifacts[i].Kind)
	}
}

func TestRun(t *testing.T) {
	opts := testOptions(t, "inventory")
	writeSchema(t, opts.SchemaDir, "inventory", inventoryProto)

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, "inventory", summary.Package)
	assert.Equal(t, 3, summary.Methods)
	require.Len(t, summary.Results, 6)
	assert.Equal(t, 6, summary.Count(artifact.OutcomeCreated))

	for _, r := range summary.Results {
		_, err := os.Stat(r.Path)
		assert.NoError(t, err, "%s not written", r.Path)
	}

	// missing google/api/annotations.proto
	require.NotEmpty(t, summary.Notices)
	assert.Equal(t, convention.NoticeLoadWarning, summary.Notices[0].Kind)
}

func TestRunIdempotent(t *testing.T) {
	opts := testOptions(t, "inventory")
	writeSchema(t, opts.SchemaDir, "inventory", inventoryProto)

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)

	for _, r := range summary.Results {
		want := artifact.OutcomeUnchanged
		if r.Kind == artifact.KindServerDTO {
			want = artifact.OutcomePreserved
		}
		assert.Equal(t, want, r.Outcome, "%s", r.Kind)
	}
}

func TestRunPreservesDTOAndMergesDocument(t *testing.T) {
	opts := testOptions(t, "inventory")
	writeSchema(t, opts.SchemaDir, "inventory", inventoryProto)

	dtoPath := opts.Layout.ServerDTOPath("inventory")
	require.NoError(t, os.MkdirAll(filepath.Dir(dtoPath), 0o755))
	require.NoError(t, os.WriteFile(dtoPath, []byte("// hand edited\n"), 0o644))

	docPath := opts.Layout.OpenAPIPath("inventory")
	require.NoError(t, os.MkdirAll(filepath.Dir(docPath), 0o755))
	existing := `{
  "openapi": "3.0.3",
  "info": {"title": "Custom", "version": "9.9.9"},
  "x-owner": "team-inventory",
  "paths": {"/stale": {}},
  "components": {"securitySchemes": {"bearer": {"type": "http", "scheme": "bearer"}}, "schemas": {"Old": {}}}
}`
	require.NoError(t, os.WriteFile(docPath, []byte(existing), 0o644))

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)

	outcomes := make(map[artifact.Kind]artifact.Outcome)
	for _, r := range summary.Results {
		outcomes[r.Kind] = r.Outcome
	}
	assert.Equal(t, artifact.OutcomePreserved, outcomes[artifact.KindServerDTO])
	assert.Equal(t, artifact.OutcomeMerged, outcomes[artifact.KindOpenAPIDoc])

	dto, err := os.ReadFile(dtoPath)
	require.NoError(t, err)
	assert.Equal(t, "// hand edited\n", string(dto))

	raw, err := os.ReadFile(docPath)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "team-inventory", doc["x-owner"])
	assert.Equal(t, "Custom", doc["info"].(map[string]any)["title"])
	paths := doc["paths"].(map[string]any)
	assert.NotContains(t, paths, "/stale")
	assert.Contains(t, paths, "/inventory/get")
	components := doc["components"].(map[string]any)
	assert.Contains(t, components, "securitySchemes")
	schemas := components["schemas"].(map[string]any)
	assert.NotContains(t, schemas, "Old")
	assert.Contains(t, schemas, "Item")
}

func TestRunMissingInputs(t *testing.T) {
	opts := testOptions(t, "inventory")

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, schema.ErrSchemaNotFound, "missing folder")

	require.NoError(t, os.MkdirAll(filepath.Join(opts.SchemaDir, "inventory"), 0o755))
	_, err = Run(context.Background(), opts)
	assert.ErrorIs(t, err, schema.ErrSchemaNotFound, "missing file")

	opts.Package = ""
	_, err = Run(context.Background(), opts)
	assert.ErrorIs(t, err, ErrPackageRequired)
}

func TestRunSkipsWithoutServices(t *testing.T) {
	opts := testOptions(t, "empty")
	writeSchema(t, opts.SchemaDir, "empty", emptyProto)

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, summary.Skipped)
	assert.Empty(t, summary.Results)

	_, err = os.Stat(opts.Layout.ClientRoot)
	assert.True(t, os.IsNotExist(err), "nothing should be written")
}

func TestRunSkipsWithoutMethods(t *testing.T) {
	opts := testOptions(t, "shop")
	writeSchema(t, opts.SchemaDir, "shop", noMethodsProto)

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, summary.Skipped)
	assert.Zero(t, summary.Methods)
	assert.Empty(t, summary.Results)
	require.Len(t, summary.Notices, 1)
	assert.Equal(t, convention.NoticeNoMethods, summary.Notices[0].Kind)

	_, err = os.Stat(opts.Layout.ClientRoot)
	assert.True(t, os.IsNotExist(err), "no client file should be written")
	_, err = os.Stat(opts.Layout.ServerRoot)
	assert.True(t, os.IsNotExist(err), "no server file should be written")
}

func TestRunImportedMethodTypes(t *testing.T) {
	opts := testOptions(t, "shop")
	writeSchema(t, opts.SchemaDir, "shop", pingProto)
	require.NoError(t, os.WriteFile(filepath.Join(opts.SchemaDir, "shop", "common.proto"), []byte(commonProto), 0o644))

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	types, err := os.ReadFile(opts.Layout.ClientTypesPath("shop"))
	require.NoError(t, err)
	assert.Contains(t, string(types), "export interface Empty {")
	assert.Contains(t, string(types), "export interface PingResponse {")

	api, err := os.ReadFile(opts.Layout.ClientAPIPath("shop"))
	require.NoError(t, err)
	assert.Contains(t, string(api), "Empty")

	raw, err := os.ReadFile(opts.Layout.OpenAPIPath("shop"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Contains(t, schemas, "Empty")
	assert.Contains(t, schemas, "PingResponse")
}

func TestRunTestMode(t *testing.T) {
	opts := testOptions(t, "inventory")
	writeSchema(t, opts.SchemaDir, "inventory", inventoryProto)
	opts.TestMode = true

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(filepath.Dir(summary.Layout.ClientRoot)) })

	assert.True(t, summary.TestMode)
	assert.NotEqual(t, opts.Layout, summary.Layout)
	assert.True(t, strings.HasPrefix(summary.Layout.ClientRoot, os.TempDir()))

	_, err = os.Stat(opts.Layout.ClientRoot)
	assert.True(t, os.IsNotExist(err), "configured roots must stay untouched")
	_, err = os.Stat(summary.Layout.ClientAPIPath("inventory"))
	assert.NoError(t, err)
}

func TestRunLint(t *testing.T) {
	opts := testOptions(t, "inventory")
	writeSchema(t, opts.SchemaDir, "inventory", inventoryProto)
	opts.Lint = true

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	for _, n := range summary.Notices {
		if n.Kind == convention.NoticeLintWarning {
			assert.NotContains(t, n.Message, "error:", "generated document should lint clean: %s", n)
		}
	}
}

func TestRunCanceled(t *testing.T) {
	opts := testOptions(t, "inventory")
	writeSchema(t, opts.SchemaDir, "inventory", inventoryProto)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDuration(t *testing.T) {
	opts := testOptions(t, "inventory")
	writeSchema(t, opts.SchemaDir, "inventory", inventoryProto)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	opts.Now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 250 * time.Millisecond)
	}

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, base, summary.StartedAt)
	assert.Equal(t, 250*time.Millisecond, summary.Duration)
}

func TestPackages(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "orders", inventoryProto)
	writeSchema(t, dir, "billing", inventoryProto)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0o644))

	got, err := Packages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "orders"}, got)

	_, err = Packages(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, schema.ErrSchemaNotFound)
}
