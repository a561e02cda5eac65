// Package bind is a parameter-binding layer for HTTP handlers. A handler
// declares the value it wants as an ordinary typed parameter, and the
// package inspects the handler's signature once, extracts raw data from the
// request (query string or JSON body), converts it through a pluggable
// type-directed Converter, and invokes the handler with the typed value:
//
//	type ListParams struct {
//	    Role string `json:"role"`
//	    IDs  []int  `json:"ids"`
//	}
//
//	func listUsers(r *http.Request, p ListParams) (*ListResp, error) { ... }
//
//	c := bind.NewConverter()
//	ep, err := bind.QueryWrap(c)(listUsers)
//
// Conversion is driven by a Converter: a registry mapping target types to
// structure hooks. Hooks for parameterized sequence types are built by
// SliceHook and registered against a type predicate; scalar and struct
// targets are handled built-in.
//
// The Router integration registers wrapped handlers directly:
//
//	r := bind.New(bind.WithConverter(c))
//	bind.Get(r, "/users", listUsers)
//	bind.Post(r, "/users", createUser, bind.WithStatus(http.StatusCreated))
//
// GET, HEAD, and DELETE routes bind from the query string by default;
// POST, PUT, and PATCH bind from the JSON body. WithExtractor overrides
// the choice per route.
//
// Failures are typed: ErrConfig for malformed handler signatures or hook
// targets (raised at wrap/registration time), ErrExtract when a request
// carries nothing to bind, and ErrStructure when raw data does not fit the
// target type.
package bind
