package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
)

const widgetProto = `
syntax = "proto3";
package widget;

enum Color {
  COLOR_UNSPECIFIED = 0;
  RED = 1;
}

message CreateWidgetRequest {
  string name = 1;
  optional int64 weight = 2;
  repeated string tags = 3;
  Color color = 4;
  Widget.Dimensions size = 5;
}

message CreateWidgetResponse {
  string id = 1;
}

message Widget {
  string id = 1;
  message Dimensions { double width = 1; }
}

message ListWidgetsRequest {
  int32 page = 1;
  optional bool archived = 2;
  repeated int32 ids = 3;
}

message ListWidgetsResponse {
  repeated Widget items = 1;
}

service WidgetService {
  rpc CreateWidget(CreateWidgetRequest) returns (CreateWidgetResponse) {
    option (google.api.http) = {
      post: "/widgets/create"
      body: "*"
    };
  }
  rpc ListWidgets(ListWidgetsRequest) returns (ListWidgetsResponse) {
    option (google.api.http).get = "/widgets/list";
  }
}
`

func widgetInput(t *testing.T) Input {
	t.Helper()
	s, err := schema.Parse(strings.NewReader(widgetProto), "widget.proto")
	require.NoError(t, err)
	return Input{
		Package:     "widget",
		Descriptors: convention.Extract(s.PackageNamespace(), "widget"),
		Root:        s.Root,
	}
}

func TestClientTypes(t *testing.T) {
	out, err := ClientTypes(widgetInput(t))
	require.NoError(t, err)
	src := string(out)

	assert.True(t, strings.HasPrefix(src, "// Code generated by rpcgen from widget.proto. DO NOT EDIT.\n"))
	assert.Contains(t, src, "export enum Color {\n  COLOR_UNSPECIFIED = \"COLOR_UNSPECIFIED\",\n  RED = \"RED\",\n}")
	assert.Contains(t, src, "export interface CreateWidgetRequest {\n  name: string;\n  weight?: string;\n  tags?: string[];\n  color: Color;\n  size: Dimensions;\n}")
	assert.Contains(t, src, "export interface Dimensions {\n  width: number;\n}")
	assert.Contains(t, src, "items?: Widget[];")
	assert.Contains(t, src, "ids?: number[];")
	assert.True(t, strings.HasSuffix(src, "}\n"))
	assert.NotContains(t, src, "\n\n\n")
}

func TestClientTypesExternal(t *testing.T) {
	root := schema.NewRoot()
	for _, src := range []string{
		"syntax = \"proto3\";\npackage common;\nmessage Page { int32 offset = 1; }\nmessage Unused {}\n",
		"syntax = \"proto3\";\npackage shop;\nmessage ListRequest { common.Page page = 1; }\n",
	} {
		s, err := schema.Parse(strings.NewReader(src), "x.proto")
		require.NoError(t, err)
		root.Children = append(root.Children, s.Root.Children...)
	}

	out, err := ClientTypes(Input{Package: "shop", Root: root})
	require.NoError(t, err)
	assert.Contains(t, string(out), "export interface Page {")
	assert.NotContains(t, string(out), "Unused")
}

func TestClientTypesExternalMethodTypes(t *testing.T) {
	root := schema.NewRoot()
	for _, src := range []string{
		"syntax = \"proto3\";\npackage common;\nmessage Empty {}\nmessage Unused {}\n",
		"syntax = \"proto3\";\npackage shop;\nmessage PingResponse { string status = 1; }\nservice ShopService { rpc Ping(common.Empty) returns (PingResponse); }\n",
	} {
		s, err := schema.Parse(strings.NewReader(src), "x.proto")
		require.NoError(t, err)
		root.Children = append(root.Children, s.Root.Children...)
	}

	in := Input{Package: "shop", Root: root, Descriptors: convention.Extract(root.Namespace("shop"), "shop")}
	out, err := ClientTypes(in)
	require.NoError(t, err)
	assert.Contains(t, string(out), "export interface Empty {")
	assert.Contains(t, string(out), "export interface PingResponse {")
	assert.NotContains(t, string(out), "Unused")

	api, err := ClientAPI(in)
	require.NoError(t, err)
	assert.Contains(t, string(api), "Empty")
}

func TestClientAPI(t *testing.T) {
	out, err := ClientAPI(widgetInput(t))
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, `import Session from "supertokens-web-js/recipe/session";`)
	assert.Contains(t, src, `import type { CreateWidgetRequest, CreateWidgetResponse, ListWidgetsRequest, ListWidgetsResponse } from "./types";`)
	assert.Contains(t, src, "export async function createWidget(request: CreateWidgetRequest): Promise<CreateWidgetResponse> {")
	assert.Contains(t, src, "call<CreateWidgetResponse>(`${API_BASE_URL}/widget/create`, {\n    method: \"POST\",")
	assert.Contains(t, src, "body: JSON.stringify(request),")
	assert.Contains(t, src, "call<ListWidgetsResponse>(`${API_BASE_URL}/widget/list${toQuery(request)}`, { method: \"GET\" });")
	assert.Contains(t, src, "await Session.doesSessionExist();")
	assert.Contains(t, src, "throw new ApiError(")
	assert.Contains(t, src, "function toQuery(")
}

func TestClientAPIPostOnlyOmitsQueryHelper(t *testing.T) {
	in := widgetInput(t)
	in.Descriptors = in.Descriptors[:1]

	out, err := ClientAPI(in)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "toQuery")
}

func TestClientHooks(t *testing.T) {
	out, err := ClientHooks(widgetInput(t))
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, `import { useMutation, useQuery } from "@tanstack/react-query";`)
	assert.Contains(t, src, `import { createWidget, listWidgets } from "./api";`)
	assert.Contains(t, src, "export function useCreateWidget(")
	assert.Contains(t, src, "mutationFn: (request: CreateWidgetRequest) => createWidget(request),")
	assert.Contains(t, src, "onSuccess: options.onSuccess,")
	assert.Contains(t, src, "export function useListWidgets(request: ListWidgetsRequest, options: { enabled?: boolean } = {}) {")
	assert.Contains(t, src, `queryKey: ["widget", "ListWidgets", request],`)
	assert.Contains(t, src, "enabled: options.enabled ?? true,")
}

func TestClientHooksGetOnly(t *testing.T) {
	in := widgetInput(t)
	in.Descriptors = in.Descriptors[1:]

	out, err := ClientHooks(in)
	require.NoError(t, err)
	assert.Contains(t, string(out), `import { useQuery } from "@tanstack/react-query";`)
	assert.NotContains(t, string(out), "useMutation")
}

func TestServerRoutes(t *testing.T) {
	out, err := ServerRoutes(widgetInput(t))
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, `import { widgetService } from "../../services/widget.service";`)
	assert.Contains(t, src, `import { createWidgetSchema, listWidgetsSchema } from "../../dto/widget.dto";`)
	assert.Contains(t, src, `router.post("/create", async (req: Request, res: Response, next: NextFunction) => {`)
	assert.Contains(t, src, "const request = createWidgetSchema.parse(req.body);")
	assert.Contains(t, src, `router.get("/list", async`)
	assert.Contains(t, src, "const request = listWidgetsSchema.parse(req.query);")
	assert.Contains(t, src, "await widgetService.listWidgets(request);")
	assert.Contains(t, src, "return sendError(res, result.error, 400);")
	assert.Contains(t, src, "return sendSuccess(res, result.data, 200);")
	assert.Contains(t, src, "subsystem: \"widget\",\n      method: \"CreateWidget\",")
	assert.Contains(t, src, "return next(error);")
	assert.True(t, strings.HasSuffix(src, "export default router;\n"))
}

func TestServerRoutesCustomImports(t *testing.T) {
	in := widgetInput(t)
	in.Imports = Imports{Service: "@/services/{pkg}", Logger: "@/log"}

	out, err := ServerRoutes(in)
	require.NoError(t, err)
	assert.Contains(t, string(out), `from "@/services/widget";`)
	assert.Contains(t, string(out), `import logger from "@/log";`)
	assert.Contains(t, string(out), `from "express";`)
}

func TestServerDTO(t *testing.T) {
	out, err := ServerDTO(widgetInput(t))
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, `import { z } from "zod";`)
	assert.Contains(t, src, "export const createWidgetSchema = z.object({\n  name: z.string(),\n  weight: z.string().optional(),\n  tags: z.array(z.string()).optional(),\n  color: z.enum([\"COLOR_UNSPECIFIED\", \"RED\"]),\n  size: z.object({}).passthrough(),\n});")
	assert.Contains(t, src, "export type CreateWidgetDto = z.infer<typeof createWidgetSchema>;")
	assert.Contains(t, src, "page: z.coerce.number().int(),")
	assert.Contains(t, src, `archived: z.enum(["true", "false"]).transform((v) => v === "true").optional(),`)
	assert.Contains(t, src, "ids: z.preprocess((v) => (v === undefined || Array.isArray(v) ? v : [v]), z.array(z.coerce.number().int())).optional(),")
	assert.NotContains(t, src, "DO NOT EDIT")
}

func TestEmittersAreDeterministic(t *testing.T) {
	in := widgetInput(t)
	for name, fn := range map[string]func(Input) ([]byte, error){
		"types":  ClientTypes,
		"api":    ClientAPI,
		"hooks":  ClientHooks,
		"routes": ServerRoutes,
		"dto":    ServerDTO,
	} {
		first, err := fn(in)
		require.NoError(t, err, name)
		second, err := fn(in)
		require.NoError(t, err, name)
		assert.Equal(t, string(first), string(second), name)
	}
}

func TestTidy(t *testing.T) {
	got := tidy([]byte("\n\na  \n\n\n\nb\n\n"))
	assert.Equal(t, "a\n\nb\n", string(got))
}
