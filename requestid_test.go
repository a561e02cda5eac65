package bind_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/bind"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates when absent", func(t *testing.T) {
		t.Parallel()

		var got string
		h := bind.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = bind.GetRequestID(r)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, got)
		assert.Equal(t, got, rec.Header().Get("X-Request-ID"))
	})

	t.Run("preserves incoming header", func(t *testing.T) {
		t.Parallel()

		var got string
		h := bind.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = bind.GetRequestID(r)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", got)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom header and generator", func(t *testing.T) {
		t.Parallel()

		h := bind.RequestID(bind.RequestIDConfig{
			Header:    "X-Trace-ID",
			Generator: func() string { return "fixed" },
		})(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "fixed", rec.Header().Get("X-Trace-ID"))
	})
}

func TestGetRequestID_without_middleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bind.GetRequestID(req))
}
