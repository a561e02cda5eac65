package bind

import (
	"fmt"
	"reflect"
	"strings"
)

// SliceHook builds a structure hook for the slice type t, delegating element
// conversion to c. The target is validated when the hook is built, not when
// a request arrives: a map type carries a key and an element (more than one
// type parameter), and a non-slice type carries no element type at all.
// Both are configuration errors.
//
// The returned hook accepts either a single comma-separated string, whose
// trimmed segments are structured one by one into the element type, or an
// existing sequence, whose elements are structured in place with order and
// length preserved. Empty segments (from a leading or trailing comma) are
// handed to the element converter unchanged and fail or succeed on its
// terms. Any other raw shape is a structuring error.
//
// NewConverter pre-registers SliceHook for all slice targets; registering it
// directly is only needed on a bare Converter or to validate a target type
// eagerly.
func SliceHook(t reflect.Type, c *Converter) (StructureHook, error) {
	if t.Kind() == reflect.Map {
		return nil, fmt.Errorf("%w: %s carries more than one type parameter", ErrConfig, t)
	}
	if t.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: %s carries no element type", ErrConfig, t)
	}
	elem := t.Elem()

	return func(value any, _ reflect.Type) (any, error) {
		if s, ok := value.(string); ok {
			parts := strings.Split(s, ",")
			out := reflect.MakeSlice(t, len(parts), len(parts))
			for i, p := range parts {
				ev, err := c.Structure(strings.TrimSpace(p), elem)
				if err != nil {
					return nil, err
				}
				assign(out.Index(i), ev)
			}
			return out.Interface(), nil
		}

		rv := reflect.ValueOf(value)
		if !rv.IsValid() || rv.Kind() != reflect.Slice {
			return nil, fmt.Errorf("%w: got %T, want a string or sequence for %s", ErrStructure, value, t)
		}

		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := range rv.Len() {
			ev, err := c.Structure(rv.Index(i).Interface(), elem)
			if err != nil {
				return nil, err
			}
			assign(out.Index(i), ev)
		}
		return out.Interface(), nil
	}, nil
}
