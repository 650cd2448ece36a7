package emit

import (
	"github.com/thewind121212/gen-barcode-sub000/core/convention"
	"github.com/thewind121212/gen-barcode-sub000/core/openapi"
	"github.com/thewind121212/gen-barcode-sub000/core/schema"
)

type clientMethod struct {
	Name     string
	FuncName string
	HookName string
	Request  string
	Response string
	URL      string
	IsGet    bool
}

type clientData struct {
	Header  string
	Package string
	Imports Imports
	Types   []string
	Methods []clientMethod
	HasGet  bool
	HasPost bool
}

func newClientData(in Input) clientData {
	data := clientData{
		Header:  generatedHeader(in.Package),
		Package: in.Package,
		Imports: in.Imports.WithDefaults(),
		Types:   methodTypes(in.Descriptors),
		HasGet:  convention.HasGet(in.Descriptors),
		HasPost: convention.HasPost(in.Descriptors),
	}
	for _, d := range in.Descriptors {
		url := "${API_BASE_URL}" + openapi.MountPath(in.Package, d.HTTPPath)
		if d.IsGet() {
			url += "${toQuery(request)}"
		}
		data.Methods = append(data.Methods, clientMethod{
			Name:     d.Name,
			FuncName: convention.LowerCamel(d.Name),
			HookName: convention.HookName(d.Name),
			Request:  schema.SimpleName(d.RequestType),
			Response: schema.SimpleName(d.ResponseType),
			URL:      "`" + url + "`",
			IsGet:    d.IsGet(),
		})
	}
	return data
}

// ClientAPI renders one exported async request function per method. POST methods send a
// JSON body and GET methods a query string to /{package}/{httpPath}; every call re-checks
// the session and throws ApiError when the response envelope reports failure.
func ClientAPI(in Input) ([]byte, error) {
	return render("api", newClientData(in))
}

// ClientHooks renders one data-fetching hook per method: useMutation for POST, useQuery
// keyed by [package, method, request] for GET.
func ClientHooks(in Input) ([]byte, error) {
	return render("hooks", newClientData(in))
}
