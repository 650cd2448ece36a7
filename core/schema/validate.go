package schema

import "errors"

// Validate checks the target package before anything is emitted.
// It returns an ErrNoServiceDefined error when the package declares no service, and one
// ErrUnresolvableType error per method type that does not resolve to a message (joined).
func Validate(root *Namespace, pkg string) error {
	ns := root.Namespace(pkg)
	if ns == nil || len(ns.Services()) == 0 {
		return &Error{Kind: ErrNoServiceDefined, Package: pkg}
	}

	var errs []error
	for _, svc := range ns.Services() {
		for _, m := range svc.Methods {
			for _, typeName := range []string{m.RequestType, m.ResponseType} {
				if _, ok := root.ResolveMessage(pkg, typeName); ok {
					continue
				}
				msg := "not declared"
				if _, found := root.Resolve(pkg, typeName); found {
					msg = "not a message"
				}
				errs = append(errs, &Error{
					Kind:    ErrUnresolvableType,
					Package: pkg,
					Service: svc.Name,
					Method:  m.Name,
					Type:    typeName,
					Message: msg,
				})
			}
		}
	}

	return errors.Join(errs...)
}
