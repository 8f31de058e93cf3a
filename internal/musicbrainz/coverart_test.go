package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestFetchCover(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("\x89PNG"))
		case "/missing":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := &Client{
		userAgent: "test-app/1.0 ( test@example.com )",
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
	ctx := context.Background()

	data, mime, err := c.fetchCover(ctx, srv.URL+"/png")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, c.userAgent, gotAgent)

	data, mime, err = c.fetchCover(ctx, srv.URL+"/missing")
	require.NoError(t, err, "404 is not an error")
	assert.Nil(t, data)
	assert.Empty(t, mime)

	_, _, err = c.fetchCover(ctx, srv.URL+"/broken")
	assert.ErrorContains(t, err, "HTTP 503")
}
