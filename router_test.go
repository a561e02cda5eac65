package bind_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/bind"
	"github.com/bjaus/bind/bindtest"
)

func TestRouter_global_middleware_order(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) bind.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := bind.New()
	r.Use(mw("first"), mw("second"))
	bind.Get(r, "/ping", func(_ *http.Request) (*echoResp, error) {
		return &echoResp{X: 1}, nil
	})

	c := bindtest.NewClient(t, r)
	bindtest.Get[echoResp](t, c, "/ping", nil)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRouter_group_prefix_and_middleware(t *testing.T) {
	t.Parallel()

	var hits []string
	mw := func(name string) bind.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits = append(hits, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := bind.New()
	v1 := r.Group("/v1", bind.WithGroupMiddleware(mw("group")))
	bind.Get(v1, "/echo", echoX)

	c := bindtest.NewClient(t, r)

	resp := bindtest.Get[echoResp](t, c, "/v1/echo", url.Values{"x": {"3"}})
	assert.Equal(t, http.StatusOK, resp.Status)
	require.NotNil(t, resp.Body)
	assert.Equal(t, 3, resp.Body.X)
	assert.Equal(t, []string{"group"}, hits)

	// Group middleware does not leak onto root routes.
	hits = nil
	bind.Get(r, "/root", echoX)
	bindtest.Get[echoResp](t, c, "/root", url.Values{"x": {"1"}})
	assert.Empty(t, hits)
}

func TestRouter_shares_converter_with_groups(t *testing.T) {
	t.Parallel()

	conv := bind.NewConverter()
	r := bind.New(bind.WithConverter(conv))
	g := r.Group("/api")
	bind.Get(g, "/echo", echoX)

	c := bindtest.NewClient(t, r)

	resp := bindtest.Get[echoResp](t, c, "/api/echo", url.Values{"x": {"2"}})
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestRouter_listen_and_serve_shutdown(t *testing.T) {
	t.Parallel()

	r := bind.New()
	bind.Get(r, "/ping", func(_ *http.Request) (*echoResp, error) {
		return &echoResp{X: 1}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- r.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	// Give the server a moment to start, then trigger graceful shutdown.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRouter_not_found(t *testing.T) {
	t.Parallel()

	r := bind.New()
	bind.Get(r, "/known", echoX)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/unknown", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
