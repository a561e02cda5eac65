package bind

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"
	"strings"
)

var (
	requestType = reflect.TypeFor[*http.Request]()
	errType     = reflect.TypeFor[error]()
)

// Endpoint is a fully bound handler: invocation extracts raw data from the
// request, structures it into the handler's custom parameter, and forwards
// to the wrapped function. The original function's identity survives
// wrapping so routing layers can still introspect it.
type Endpoint struct {
	name      string
	paramType reflect.Type
	invoke    func(r *http.Request) (any, error)
}

// Name returns the package-qualified name of the wrapped function.
func (e *Endpoint) Name() string { return e.name }

// ParamType returns the declared type of the custom parameter, or nil when
// the wrapped function takes none.
func (e *Endpoint) ParamType() reflect.Type { return e.paramType }

// Call invokes the endpoint for the given request.
func (e *Endpoint) Call(r *http.Request) (any, error) { return e.invoke(r) }

// Wrapper turns a user handler into a bound Endpoint. A non-nil error is
// always a configuration error.
type Wrapper func(fn any) (*Endpoint, error)

// Wrap returns a Wrapper that resolves the single custom parameter of a
// handler using the given converter and raw extractor.
//
// A handler is a func whose parameters are any mix of *http.Request values
// and at most one custom parameter, returning (T, error). The signature is
// inspected exactly once, at wrap time; two or more custom parameters, or a
// different return shape, fail with ErrConfig before any request is served.
//
// At request time the endpoint extracts the raw mapping (blocking as needed;
// the request context governs cancellation), fails with ErrExtract if the
// mapping is empty, structures the mapping into the custom parameter's type
// with conversion failures propagated unchanged, and finally invokes the
// handler with the typed value. A handler without a custom parameter is
// forwarded to untouched.
//
// Prefer QueryWrap and BodyWrap, which pair Wrap with the stock extractors.
func Wrap(c *Converter, ex Extractor) Wrapper {
	return func(fn any) (*Endpoint, error) {
		fv := reflect.ValueOf(fn)
		if !fv.IsValid() || fv.Kind() != reflect.Func {
			return nil, fmt.Errorf("%w: handler must be a func, got %T", ErrConfig, fn)
		}
		ft := fv.Type()

		if ft.NumOut() != 2 || ft.Out(1) != errType {
			return nil, fmt.Errorf("%w: handler %s must return (T, error)", ErrConfig, funcName(fv))
		}

		custom := -1
		for i := range ft.NumIn() {
			if ft.In(i) == requestType {
				continue
			}
			if custom >= 0 {
				return nil, fmt.Errorf("%w: handler %s declares more than one custom parameter", ErrConfig, funcName(fv))
			}
			custom = i
		}

		ep := &Endpoint{name: funcName(fv)}

		if custom < 0 {
			ep.invoke = func(r *http.Request) (any, error) {
				return call(fv, r, custom, reflect.Value{})
			}
			return ep, nil
		}

		ep.paramType = ft.In(custom)
		ep.invoke = func(r *http.Request) (any, error) {
			inner, err := ex.Extract(r)
			if err != nil {
				return nil, err
			}
			if len(inner) == 0 {
				return nil, ErrExtract
			}
			structed, err := c.Structure(inner, ep.paramType)
			if err != nil {
				return nil, err
			}
			if err := validateStructured(structed); err != nil {
				return nil, err
			}
			return call(fv, r, custom, reflect.ValueOf(structed))
		}
		return ep, nil
	}
}

// QueryWrap returns a Wrapper binding from the request query string.
func QueryWrap(c *Converter) Wrapper { return Wrap(c, QueryExtractor()) }

// BodyWrap returns a Wrapper binding from the JSON request body.
func BodyWrap(c *Converter) Wrapper { return Wrap(c, BodyExtractor()) }

// call assembles the argument list and invokes fn. Every parameter slot
// other than the custom one receives the request.
func call(fn reflect.Value, r *http.Request, custom int, v reflect.Value) (any, error) {
	ft := fn.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		if i == custom {
			args[i] = v
			continue
		}
		args[i] = reflect.ValueOf(r)
	}

	out := fn.Call(args)
	if !out[1].IsNil() {
		//nolint:forcetypeassert // Out(1) is checked to be error at wrap time
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// funcName reports the name of fn without its package path prefix.
func funcName(fv reflect.Value) string {
	f := runtime.FuncForPC(fv.Pointer())
	if f == nil {
		return "func"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
