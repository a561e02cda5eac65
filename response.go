package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
)

// HeaderSetter is optionally implemented by response types to set response headers.
type HeaderSetter interface {
	SetHeaders(h http.Header)
}

// encodeResponse writes resp as JSON. A nil response is a 204; StatusCoder
// responses override the default status.
func encodeResponse(w http.ResponseWriter, resp any, defaultStatus int) {
	if isNilResponse(resp) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if hs, ok := resp.(HeaderSetter); ok {
		hs.SetHeaders(w.Header())
	}

	status := defaultStatus
	if sc, ok := resp.(StatusCoder); ok {
		status = sc.StatusCode()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(resp)
}

func isNilResponse(resp any) bool {
	if resp == nil {
		return true
	}
	rv := reflect.ValueOf(resp)
	//exhaustive:ignore
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

// writeErrorResponse writes an error as a JSON body with the status derived
// from its kind.
func writeErrorResponse(w http.ResponseWriter, err error) {
	status := ErrorStatus(err)

	var body *HTTPError
	if !errors.As(err, &body) {
		body = &HTTPError{Status: status, Message: err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(body)
}
