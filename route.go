package bind

import (
	"net/http"
	"reflect"
)

// routeInfo holds metadata for a registered route, used for both request
// dispatch and the route listing.
type routeInfo struct {
	method  string
	pattern string
	summary string
	status  int

	name      string
	paramType reflect.Type
	extractor Extractor

	handler http.Handler
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeInfo)

// WithStatus sets the default HTTP status code for the response.
func WithStatus(code int) RouteOption {
	return func(ri *routeInfo) {
		ri.status = code
	}
}

// WithSummary sets a human-readable summary shown in the route listing.
func WithSummary(s string) RouteOption {
	return func(ri *routeInfo) {
		ri.summary = s
	}
}

// WithExtractor overrides the method-default raw extractor for the route.
func WithExtractor(ex Extractor) RouteOption {
	return func(ri *routeInfo) {
		ri.extractor = ex
	}
}
