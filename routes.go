package bind

import (
	"encoding/json"
	"io"
	"net/http"

	"gopkg.in/yaml.v3"
)

// RouteEntry describes one registered route in the route listing. Handler is
// the wrapped function's preserved name; Param is the custom parameter type
// it binds, empty when the handler takes none.
type RouteEntry struct {
	Method  string `json:"method" yaml:"method"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Handler string `json:"handler" yaml:"handler"`
	Param   string `json:"param,omitempty" yaml:"param,omitempty"`
	Status  int    `json:"status" yaml:"status"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Routes returns the registered route table in registration order.
func (r *Router) Routes() []RouteEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RouteEntry, 0, len(r.routes))
	for _, ri := range r.routes {
		e := RouteEntry{
			Method:  ri.method,
			Pattern: ri.pattern,
			Handler: ri.name,
			Status:  ri.status,
			Summary: ri.summary,
		}
		if ri.paramType != nil {
			e.Param = ri.paramType.String()
		}
		out = append(out, e)
	}
	return out
}

// ServeRoutes registers a GET handler at the given path that serves the
// route table as JSON.
func (r *Router) ServeRoutes(pattern string) {
	r.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(r.Routes())
	})
}

// ServeRoutesYAML registers a GET handler at the given path that serves the
// route table as YAML.
func (r *Router) ServeRoutesYAML(pattern string) {
	r.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		yaml.NewEncoder(w).Encode(r.Routes())
	})
}

// WriteRoutes writes the route table as indented JSON to w.
func (r *Router) WriteRoutes(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Routes())
}

// WriteRoutesYAML writes the route table as YAML to w.
func (r *Router) WriteRoutesYAML(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(r.Routes())
}
