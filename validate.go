package bind

import "reflect"

// SelfValidator is implemented by custom parameter types that validate
// themselves. Validation runs after structuring, before the handler.
type SelfValidator interface {
	Validate() error
}

// validateStructured runs SelfValidator when the structured value, or a
// pointer to it, implements the interface.
func validateStructured(v any) error {
	if sv, ok := v.(SelfValidator); ok {
		return sv.Validate()
	}

	// Pointer-receiver Validate on a value result.
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() != reflect.Pointer {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		if sv, ok := p.Interface().(SelfValidator); ok {
			return sv.Validate()
		}
	}
	return nil
}
