package convention

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules      = inflect.NewDefaultRuleset()
	titleCaser = cases.Title(language.English)
)

// LowerCamel returns the lower-camel form of an identifier ("CreateWidget" → "createWidget").
func LowerCamel(name string) string {
	if name == "" {
		return ""
	}
	return rules.CamelizeDownFirst(name)
}

// UpperCamel returns the upper-camel form of an identifier ("list_items" → "ListItems").
func UpperCamel(name string) string {
	if name == "" {
		return ""
	}
	return rules.Camelize(name)
}

// Title returns a human-readable title for a package name ("widget" → "Widget",
// "acme.inventory" → "Acme Inventory").
func Title(packageName string) string {
	words := strings.FieldsFunc(packageName, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	return titleCaser.String(strings.Join(words, " "))
}

// SchemaVar is the validation schema identifier for a method ("CreateWidget" →
// "createWidgetSchema").
func SchemaVar(methodName string) string {
	return LowerCamel(methodName) + "Schema"
}

// DtoType is the inferred DTO type name for a method ("CreateWidget" → "CreateWidgetDto").
func DtoType(methodName string) string {
	return UpperCamel(methodName) + "Dto"
}

// HookName is the client hook name for a method ("CreateWidget" → "useCreateWidget").
func HookName(methodName string) string {
	return "use" + UpperCamel(methodName)
}

// ServiceVar is the server service object for a package ("widget" → "widgetService").
func ServiceVar(packageName string) string {
	return LowerCamel(Identifier(packageName)) + "Service"
}

// Identifier turns a dotted package name into a single identifier ("acme.inventory" →
// "acme_inventory").
func Identifier(packageName string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(packageName)
}
