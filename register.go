package bind

import (
	"fmt"
	"net/http"
)

// Registrar is the interface accepted by the registration functions.
// Both *Router and *Group implement it.
type Registrar interface {
	addRoute(ri routeInfo)
	getConverter() *Converter
	getErrorHandler() ErrorHandler
	routeMiddleware() []Middleware
}

func (r *Router) getConverter() *Converter      { return r.converter }
func (r *Router) getErrorHandler() ErrorHandler { return r.errorHandler }
func (r *Router) routeMiddleware() []Middleware { return nil }

// register wraps fn and mounts the bound endpoint. Configuration errors
// panic: a handler that cannot be bound is a programming mistake and must
// fail startup, not surface per request.
func register(reg Registrar, method, pattern string, fn any, opts ...RouteOption) {
	ri := routeInfo{method: method, pattern: pattern}
	for _, opt := range opts {
		opt(&ri)
	}

	ex := ri.extractor
	if ex == nil {
		ex = defaultExtractor(method)
	}

	ep, err := Wrap(reg.getConverter(), ex)(fn)
	if err != nil {
		panic(fmt.Sprintf("bind: %s %s: %v", method, pattern, err))
	}

	ri.name = ep.Name()
	ri.paramType = ep.ParamType()
	if ri.status == 0 {
		ri.status = http.StatusOK
	}

	ri.handler = buildHandler(ep, ri.status, reg.getErrorHandler())

	// Apply route-level middleware (from Group).
	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		ri.handler = routeMW[i](ri.handler)
	}

	reg.addRoute(ri)
}

// defaultExtractor picks the extractor for routes that do not set one.
// Methods without a conventional body bind from the query string.
func defaultExtractor(method string) Extractor {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return BodyExtractor()
	default:
		return QueryExtractor()
	}
}

// buildHandler turns a bound Endpoint into an http.Handler.
func buildHandler(ep *Endpoint, defaultStatus int, errHandler ErrorHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := ep.Call(r)
		if err != nil {
			if errHandler != nil {
				errHandler(w, r, err)
				return
			}
			writeErrorResponse(w, err)
			return
		}
		encodeResponse(w, resp, defaultStatus)
	})
}

// Get registers a GET handler.
func Get(reg Registrar, pattern string, fn any, opts ...RouteOption) {
	register(reg, http.MethodGet, pattern, fn, opts...)
}

// Head registers a HEAD handler.
func Head(reg Registrar, pattern string, fn any, opts ...RouteOption) {
	register(reg, http.MethodHead, pattern, fn, opts...)
}

// Post registers a POST handler.
func Post(reg Registrar, pattern string, fn any, opts ...RouteOption) {
	register(reg, http.MethodPost, pattern, fn, opts...)
}

// Put registers a PUT handler.
func Put(reg Registrar, pattern string, fn any, opts ...RouteOption) {
	register(reg, http.MethodPut, pattern, fn, opts...)
}

// Patch registers a PATCH handler.
func Patch(reg Registrar, pattern string, fn any, opts ...RouteOption) {
	register(reg, http.MethodPatch, pattern, fn, opts...)
}

// Delete registers a DELETE handler.
func Delete(reg Registrar, pattern string, fn any, opts ...RouteOption) {
	register(reg, http.MethodDelete, pattern, fn, opts...)
}

// Raw registers a plain http.HandlerFunc with no binding, as an escape hatch
// for WebSocket upgrades, streaming, or anything that writes the response
// itself.
func Raw(reg Registrar, method, pattern string, h http.HandlerFunc, opts ...RouteOption) {
	ri := routeInfo{method: method, pattern: pattern, name: "raw"}
	for _, opt := range opts {
		opt(&ri)
	}
	ri.handler = h

	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		ri.handler = routeMW[i](ri.handler)
	}

	reg.addRoute(ri)
}
