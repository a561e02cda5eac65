package bind

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// StructureHook converts a raw, loosely typed value (string, []string, or a
// JSON-decoded value) into an instance of the target type. The returned
// value's dynamic type is exactly the target type. Hooks hold no mutable
// state and are safe for concurrent use.
type StructureHook func(value any, t reflect.Type) (any, error)

// HookFactory builds a StructureHook specialized to the target type t,
// delegating element or field conversion back to c. Factories run once per
// type; a factory error is a configuration error.
type HookFactory func(t reflect.Type, c *Converter) (StructureHook, error)

// Predicate reports whether a registered HookFactory applies to t.
type Predicate func(t reflect.Type) bool

type hookEntry struct {
	match   Predicate
	factory HookFactory
}

// Converter is a type-directed conversion registry. Hooks are resolved once
// per target type and cached for the life of the converter; registration and
// structuring are safe for concurrent use.
type Converter struct {
	mu      sync.RWMutex
	entries []hookEntry
	hooks   map[reflect.Type]StructureHook
}

// NewConverter returns a Converter with the built-in hooks. Scalars, structs,
// and pointers are handled directly, and SliceHook is pre-registered for
// slice targets.
func NewConverter() *Converter {
	c := &Converter{hooks: make(map[reflect.Type]StructureHook)}
	c.RegisterHook(func(t reflect.Type) bool { return t.Kind() == reflect.Slice }, SliceHook)
	return c
}

// RegisterHook registers a HookFactory for every target type matched by the
// predicate. Later registrations take precedence. The resolved-hook cache is
// discarded so the new factory applies to types already seen.
func (c *Converter) RegisterHook(match Predicate, factory HookFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, hookEntry{match: match, factory: factory})
	c.hooks = make(map[reflect.Type]StructureHook)
}

// Structure converts value into an instance of t using the hook registered
// (or built in) for t.
func (c *Converter) Structure(value any, t reflect.Type) (any, error) {
	hook, err := c.hookFor(t)
	if err != nil {
		return nil, err
	}
	return hook(value, t)
}

// Structure converts value into a T using c. It is the typed form of
// Converter.Structure.
func Structure[T any](c *Converter, value any) (T, error) {
	var zero T
	out, err := c.Structure(value, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	return out.(T), nil
}

// hookFor resolves the hook for t: cache, then registered factories (most
// recent first), then built-in dispatch. No lock is held while a hook or
// factory runs.
func (c *Converter) hookFor(t reflect.Type) (StructureHook, error) {
	c.mu.RLock()
	hook, ok := c.hooks[t]
	c.mu.RUnlock()
	if ok {
		return hook, nil
	}

	hook, err := c.buildHook(t)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.hooks[t] = hook
	c.mu.Unlock()
	return hook, nil
}

func (c *Converter) buildHook(t reflect.Type) (StructureHook, error) {
	c.mu.RLock()
	entries := c.entries
	c.mu.RUnlock()

	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].match(t) {
			return entries[i].factory(t, c)
		}
	}

	// Duration and Time are kind Int64 and Struct respectively, so they are
	// matched by type before the kind dispatch.
	switch t {
	case reflect.TypeFor[time.Duration]():
		return structureDuration, nil
	case reflect.TypeFor[time.Time]():
		return structureTime, nil
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return structureScalar, nil
	case reflect.Struct:
		return c.structHook(t)
	case reflect.Pointer:
		return c.pointerHook(t)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return func(value any, _ reflect.Type) (any, error) { return value, nil }, nil
		}
	}
	return nil, fmt.Errorf("%w: no structure hook for %s", ErrStructure, t)
}

// structHook builds a hook for struct targets. The field plan is computed
// once: keys follow the json tag when present, falling back to the field
// name.
func (c *Converter) structHook(t reflect.Type) (StructureHook, error) {
	type fieldPlan struct {
		index int
		name  string
		typ   reflect.Type
	}

	plan := make([]fieldPlan, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _ := tagOptions(f.Tag.Get("json"))
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		plan = append(plan, fieldPlan{index: i, name: name, typ: f.Type})
	}

	return func(value any, t reflect.Type) (any, error) {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: got %T, want an object for %s", ErrStructure, value, t)
		}

		out := reflect.New(t).Elem()
		for _, f := range plan {
			raw, ok := m[f.name]
			if !ok {
				continue
			}
			fv, err := c.Structure(raw, f.typ)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.name, err)
			}
			assign(out.Field(f.index), fv)
		}
		return out.Interface(), nil
	}, nil
}

func (c *Converter) pointerHook(t reflect.Type) (StructureHook, error) {
	elem := t.Elem()
	return func(value any, t reflect.Type) (any, error) {
		if value == nil {
			return reflect.Zero(t).Interface(), nil
		}
		ev, err := c.Structure(value, elem)
		if err != nil {
			return nil, err
		}
		p := reflect.New(elem)
		assign(p.Elem(), ev)
		return p.Interface(), nil
	}, nil
}

// assign sets v into dst. An untyped nil (a JSON null passed through the
// interface hook) becomes the target's zero value instead of panicking in
// reflect.Value.Set.
func assign(dst reflect.Value, v any) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	dst.Set(rv)
}

// structureScalar converts strings and JSON-decoded primitives into scalar
// targets. Strings parse with strconv; numbers convert only when they fit
// the target exactly.
func structureScalar(value any, t reflect.Type) (any, error) {
	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			return reflect.ValueOf(s).Convert(t).Interface(), nil
		}

	case reflect.Bool:
		switch v := value.(type) {
		case bool:
			return reflect.ValueOf(v).Convert(t).Interface(), nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %q into %s", ErrStructure, v, t)
			}
			return reflect.ValueOf(b).Convert(t).Interface(), nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := intValue(value, t)
		if err != nil {
			return nil, err
		}
		rv := reflect.New(t).Elem()
		if rv.OverflowInt(n) {
			return nil, fmt.Errorf("%w: %d overflows %s", ErrStructure, n, t)
		}
		rv.SetInt(n)
		return rv.Interface(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := intValue(value, t)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %d into %s", ErrStructure, n, t)
		}
		rv := reflect.New(t).Elem()
		if rv.OverflowUint(uint64(n)) {
			return nil, fmt.Errorf("%w: %d overflows %s", ErrStructure, n, t)
		}
		rv.SetUint(uint64(n))
		return rv.Interface(), nil

	case reflect.Float32, reflect.Float64:
		f, err := floatValue(value, t)
		if err != nil {
			return nil, err
		}
		rv := reflect.New(t).Elem()
		if rv.OverflowFloat(f) {
			return nil, fmt.Errorf("%w: %v overflows %s", ErrStructure, f, t)
		}
		rv.SetFloat(f)
		return rv.Interface(), nil
	}

	return nil, fmt.Errorf("%w: got %T, want %s", ErrStructure, value, t)
}

func intValue(value any, t reflect.Type) (int64, error) {
	switch v := value.(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q into %s", ErrStructure, v, t)
		}
		return n, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v into %s", ErrStructure, v, t)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q into %s", ErrStructure, v, t)
		}
		return n, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	}
	return 0, fmt.Errorf("%w: got %T, want %s", ErrStructure, value, t)
}

func floatValue(value any, t reflect.Type) (float64, error) {
	switch v := value.(type) {
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q into %s", ErrStructure, v, t)
		}
		return f, nil
	case float64:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q into %s", ErrStructure, v, t)
		}
		return f, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: got %T, want %s", ErrStructure, value, t)
}

func structureDuration(value any, t reflect.Type) (any, error) {
	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q into %s", ErrStructure, v, t)
		}
		return d, nil
	case float64:
		return time.Duration(v), nil
	}
	return nil, fmt.Errorf("%w: got %T, want %s", ErrStructure, value, t)
}

func structureTime(value any, t reflect.Type) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: got %T, want %s", ErrStructure, value, t)
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q into %s", ErrStructure, s, t)
	}
	return ts, nil
}

// tagOptions splits a struct tag value on comma and returns the name and
// remaining options.
func tagOptions(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}
