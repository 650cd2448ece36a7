package emit

const typesTemplate = `{{define "types"}}{{.Header}}
{{range .Decls}}
{{if .IsEnum}}export enum {{.Name}} {
{{- range .Values}}
  {{.}} = {{quote .}},
{{- end}}
}
{{else}}export interface {{.Name}} {
{{- range .Fields}}
  {{.Name}}{{if .Optional}}?{{end}}: {{.Type}};
{{- end}}
}
{{end}}{{end}}{{end}}`

const apiTemplate = `{{define "api"}}{{.Header}}
import Session from {{quote .Imports.Session}};
import { API_BASE_URL } from {{quote .Imports.APIConfig}};
import { ApiError } from {{quote .Imports.APIError}};
{{- if .Types}}
import type { {{join .Types ", "}} } from "./types";
{{- end}}

interface ApiEnvelope<T> {
  success: boolean;
  data?: T;
  error?: string;
  timestamp?: string;
}

async function call<T>(url: string, init: RequestInit): Promise<T> {
  const res = await fetch(url, { credentials: "include", ...init });
  const body = (await res.json().catch(() => ({ success: false, error: res.statusText }))) as ApiEnvelope<T>;
  await Session.doesSessionExist();
  if (!res.ok || !body.success) {
    throw new ApiError(body.error ?? res.statusText, res.status);
  }
  return body.data as T;
}
{{if .HasGet}}
function toQuery(request: object): string {
  const params = new URLSearchParams();
  for (const [key, value] of Object.entries(request)) {
    if (value === undefined || value === null) {
      continue;
    }
    if (Array.isArray(value)) {
      value.forEach((v) => params.append(key, String(v)));
    } else {
      params.append(key, String(value));
    }
  }
  const query = params.toString();
  return query ? "?" + query : "";
}
{{end}}
{{- range .Methods}}
export async function {{.FuncName}}(request: {{.Request}}): Promise<{{.Response}}> {
{{- if .IsGet}}
  return call<{{.Response}}>({{.URL}}, { method: "GET" });
{{- else}}
  return call<{{.Response}}>({{.URL}}, {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify(request),
  });
{{- end}}
}
{{end}}{{end}}`

const hooksTemplate = `{{define "hooks"}}{{.Header}}
import { {{if .HasPost}}useMutation{{end}}{{if and .HasPost .HasGet}}, {{end}}{{if .HasGet}}useQuery{{end}} } from {{quote .Imports.ReactQuery}};
import { {{range $i, $m := .Methods}}{{if $i}}, {{end}}{{$m.FuncName}}{{end}} } from "./api";
{{- if .Types}}
import type { {{join .Types ", "}} } from "./types";
{{- end}}
{{range .Methods}}
{{- if .IsGet}}
export function {{.HookName}}(request: {{.Request}}, options: { enabled?: boolean } = {}) {
  return useQuery<{{.Response}}, Error>({
    queryKey: [{{quote $.Package}}, {{quote .Name}}, request],
    queryFn: () => {{.FuncName}}(request),
    enabled: options.enabled ?? true,
  });
}
{{else}}
export function {{.HookName}}(
  options: {
    onSuccess?: (data: {{.Response}}) => void;
    onError?: (error: Error) => void;
  } = {},
) {
  return useMutation<{{.Response}}, Error, {{.Request}}>({
    mutationFn: (request: {{.Request}}) => {{.FuncName}}(request),
    onSuccess: options.onSuccess,
    onError: options.onError,
  });
}
{{end}}{{end}}{{end}}`

const routesTemplate = `{{define "routes"}}{{.Header}}
import { Router, type NextFunction, type Request, type Response } from {{quote .Imports.Express}};
import logger from {{quote .Imports.Logger}};
import { sendError, sendSuccess } from {{quote .Imports.Response}};
import { {{.ServiceVar}} } from {{quote .Service}};
{{- if .Schemas}}
import { {{join .Schemas ", "}} } from {{quote .DTO}};
{{- end}}

const router = Router();
{{range .Methods}}
router.{{.Verb}}({{quote .Path}}, async (req: Request, res: Response, next: NextFunction) => {
  try {
    const request = {{.SchemaVar}}.parse({{.Source}});
    const result = await {{$.ServiceVar}}.{{.ServiceFn}}(request);
    if (result.error) {
      return sendError(res, result.error, 400);
    }
    return sendSuccess(res, result.data, 200);
  } catch (error) {
    logger.error({
      subsystem: {{quote $.Package}},
      method: {{quote .Name}},
      message: error instanceof Error ? error.message : String(error),
    });
    return next(error);
  }
});
{{end}}
export default router;
{{end}}`

const dtoTemplate = `{{define "dto"}}// Generated by rpcgen from {{.Package}}.proto. This file is created once and never overwritten.
import { z } from {{quote .Imports.Zod}};
{{range .Methods}}
export const {{.SchemaVar}} = z.object({
{{- range .Fields}}
  {{.Name}}: {{.Validator}},
{{- end}}
});
export type {{.DtoType}} = z.infer<typeof {{.SchemaVar}}>;
{{end}}{{end}}`
