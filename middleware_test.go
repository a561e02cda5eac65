package bind_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/bind"
	"github.com/bjaus/bind/bindtest"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	r := bind.New()
	r.Use(bind.Recovery())
	bind.Get(r, "/boom", func(_ *http.Request) (*echoResp, error) {
		panic("kaboom")
	})

	c := bindtest.NewClient(t, r)

	resp := bindtest.Get[bind.HTTPError](t, c, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	require.NotNil(t, resp.Body)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), resp.Body.Message)
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	r := bind.New()
	r.Use(bind.Timeout(20 * time.Millisecond))

	var deadlineSet bool
	bind.Get(r, "/slow", func(req *http.Request) (*echoResp, error) {
		_, deadlineSet = req.Context().Deadline()
		select {
		case <-req.Context().Done():
			return nil, bind.Error(http.StatusGatewayTimeout, "timed out")
		case <-time.After(time.Second):
			return &echoResp{X: 1}, nil
		}
	})

	c := bindtest.NewClient(t, r)

	resp := bindtest.Get[bind.HTTPError](t, c, "/slow", nil)
	assert.True(t, deadlineSet)
	assert.Equal(t, http.StatusGatewayTimeout, resp.Status)
}

func TestTimeout_context_reaches_extractor(t *testing.T) {
	t.Parallel()

	r := bind.New()
	r.Use(bind.Timeout(time.Second))

	var hasDeadline bool
	bind.Get(r, "/echo", echoX, bind.WithExtractor(bind.ExtractorFunc(
		func(req *http.Request) (map[string]any, error) {
			_, hasDeadline = req.Context().Deadline()
			return map[string]any{"x": "1"}, nil
		},
	)))

	c := bindtest.NewClient(t, r)

	resp := bindtest.Get[echoResp](t, c, "/echo", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, hasDeadline)
}

func TestMiddleware_recovery_outside_handler(t *testing.T) {
	t.Parallel()

	// Recovery catches panics raised by downstream middleware too.
	panicky := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			panic("mid panic")
		})
	}

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h = panicky(h)
	h = bind.Recovery()(h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
