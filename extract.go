package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Extractor pulls a raw key/value mapping out of a request, independent of
// how that data is later structured. Implementations may block (body reads);
// the request context governs cancellation. An empty mapping means the
// request carried nothing to bind.
type Extractor interface {
	Extract(r *http.Request) (map[string]any, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(r *http.Request) (map[string]any, error)

// Extract calls f.
func (f ExtractorFunc) Extract(r *http.Request) (map[string]any, error) { return f(r) }

// QueryExtractor returns an Extractor over the request query string.
// Single-valued keys yield a string, repeated keys a []string. It has no
// failure modes of its own.
func QueryExtractor() Extractor {
	return ExtractorFunc(func(r *http.Request) (map[string]any, error) {
		q := r.URL.Query()
		if len(q) == 0 {
			return nil, nil
		}
		m := make(map[string]any, len(q))
		for k, vs := range q {
			if len(vs) == 1 {
				m[k] = vs[0]
			} else {
				m[k] = vs
			}
		}
		return m, nil
	})
}

// BodyConfig configures BodyExtractor.
type BodyConfig struct {
	MaxBytes int64 // cap on body bytes read; 0 means no limit
}

// BodyExtractor returns an Extractor that reads the full request body and
// decodes it as a JSON object. An empty body yields an empty mapping; a body
// that is not valid JSON, or not a JSON object, is a structuring failure.
func BodyExtractor(cfg ...BodyConfig) Extractor {
	var maxBytes int64
	if len(cfg) > 0 {
		maxBytes = cfg[0].MaxBytes
	}

	return ExtractorFunc(func(r *http.Request) (map[string]any, error) {
		if r.Body == nil || r.ContentLength == 0 {
			return nil, nil
		}

		var body io.Reader = r.Body
		if maxBytes > 0 {
			body = io.LimitReader(body, maxBytes)
		}

		var m map[string]any
		err := json.NewDecoder(body).Decode(&m)
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decode body: %w", ErrStructure, err)
		}
		return m, nil
	})
}
