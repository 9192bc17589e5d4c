package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))
}

func newAssetServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/models/a.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(`<svg><rect/></svg>`))
	})
	mux.HandleFunc("/slow.svg", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcherReturnsBody(t *testing.T) {
	srv := newAssetServer(t)
	f := NewHTTPFetcher(HTTPOptions{Client: srv.Client()})

	data, err := f.Fetch(context.Background(), srv.URL+"/models/a.svg")
	require.NoError(t, err)
	require.Equal(t, `<svg><rect/></svg>`, string(data))
}

func TestHTTPFetcherReportsStatus(t *testing.T) {
	srv := newAssetServer(t)
	f := NewHTTPFetcher(HTTPOptions{Client: srv.Client()})

	_, err := f.Fetch(context.Background(), srv.URL+"/missing.svg")
	var fetchErr *colorpickerrors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestHTTPFetcherTimeout(t *testing.T) {
	srv := newAssetServer(t)
	f := NewHTTPFetcher(HTTPOptions{Client: srv.Client(), Timeout: 50 * time.Millisecond})

	_, err := f.Fetch(context.Background(), srv.URL+"/slow.svg")
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestHTTPFetcherEnforcesSizeLimit(t *testing.T) {
	srv := newAssetServer(t)
	f := NewHTTPFetcher(HTTPOptions{Client: srv.Client(), MaxBytes: 4})

	_, err := f.Fetch(context.Background(), srv.URL+"/models/a.svg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds 4 bytes")
}

func TestFileFetcherResolvesAgainstBase(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "a.svg"), []byte("<svg/>"), 0o644))

	f := FileFetcher{Base: dir}
	data, err := f.Fetch(context.Background(), "models/a.svg")
	require.NoError(t, err)
	require.Equal(t, "<svg/>", string(data))

	data, err = f.Fetch(context.Background(), "file://"+filepath.Join(dir, "models", "a.svg"))
	require.NoError(t, err)
	require.Equal(t, "<svg/>", string(data))

	_, err = f.Fetch(context.Background(), "models/none.svg")
	var fetchErr *colorpickerrors.FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestFileFetcherHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FileFetcher{}.Fetch(ctx, "anything.svg")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRouterDispatchesByScheme(t *testing.T) {
	var remote, local []string
	r := Router{
		Base: "https://shop.example/static/page.html",
		Remote: ports.FetcherFunc(func(_ context.Context, ref string) ([]byte, error) {
			remote = append(remote, ref)
			return nil, nil
		}),
		Local: ports.FetcherFunc(func(_ context.Context, ref string) ([]byte, error) {
			local = append(local, ref)
			return nil, nil
		}),
	}

	_, err := r.Fetch(context.Background(), "models/a.svg")
	require.NoError(t, err)
	_, err = r.Fetch(context.Background(), "http://cdn.example/b.svg")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://shop.example/static/models/a.svg", "http://cdn.example/b.svg"}, remote)
	assert.Empty(t, local)

	r.Base = "/srv/site"
	_, err = r.Fetch(context.Background(), "models/a.svg")
	require.NoError(t, err)
	assert.Equal(t, []string{"models/a.svg"}, local)

	_, err = Router{}.Fetch(context.Background(), "https://x.example/a.svg")
	require.Error(t, err)
}

func TestCachingFetcherHitsOriginOnce(t *testing.T) {
	var calls atomic.Int32
	origin := ports.FetcherFunc(func(_ context.Context, ref string) ([]byte, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return []byte("<svg id=\"" + ref + "\"/>"), nil
	})
	c := NewCachingFetcher(origin, 2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := c.Fetch(context.Background(), "a.svg")
			assert.NoError(t, err)
			assert.Equal(t, `<svg id="a.svg"/>`, string(data))
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), calls.Load())

	data, err := c.Fetch(context.Background(), "a.svg")
	require.NoError(t, err)
	data[0] = 'X'
	again, err := c.Fetch(context.Background(), "a.svg")
	require.NoError(t, err)
	require.Equal(t, byte('<'), again[0], "callers receive private copies")
	require.Equal(t, 1, c.Len())
}

func TestHTTPFetcherAcceptsAnySuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		_, _ = w.Write([]byte(`<svg/>`))
	}))
	t.Cleanup(srv.Close)
	f := NewHTTPFetcher(HTTPOptions{Client: srv.Client()})

	data, err := f.Fetch(context.Background(), srv.URL+"/a.svg")
	require.NoError(t, err)
	require.Equal(t, `<svg/>`, string(data))
}

func TestCachingFetcherSharedFetchSurvivesCancelledCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	origin := ports.FetcherFunc(func(ctx context.Context, ref string) ([]byte, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte(`<svg/>`), nil
	})
	c := NewCachingFetcher(origin, 4)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, "a.svg")
		firstErr <- err
	}()
	<-started

	type result struct {
		data []byte
		err  error
	}
	second := make(chan result, 1)
	go func() {
		data, err := c.Fetch(context.Background(), "a.svg")
		second <- result{data, err}
	}()

	cancel()
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.ErrorIs(t, <-firstErr, context.Canceled)
	got := <-second
	require.NoError(t, got.err)
	require.Equal(t, `<svg/>`, string(got.data))
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, 1, c.Len())
}

func TestCachingFetcherDoesNotCacheFailures(t *testing.T) {
	var calls atomic.Int32
	origin := ports.FetcherFunc(func(_ context.Context, ref string) ([]byte, error) {
		calls.Add(1)
		return nil, colorpickerrors.NewFetchError(ref, 500, nil)
	})
	c := NewCachingFetcher(origin, 0)

	_, err := c.Fetch(context.Background(), "a.svg")
	require.Error(t, err)
	_, err = c.Fetch(context.Background(), "a.svg")
	require.Error(t, err)
	require.Equal(t, int32(2), calls.Load())
	require.Zero(t, c.Len())
}

func TestPrefetchWarmsCache(t *testing.T) {
	var calls atomic.Int32
	origin := ports.FetcherFunc(func(_ context.Context, ref string) ([]byte, error) {
		calls.Add(1)
		return []byte(ref), nil
	})
	c := NewCachingFetcher(origin, 8)

	refs := []string{"a.svg", "b.svg", "c.svg"}
	require.NoError(t, Prefetch(context.Background(), c, refs, 2))
	require.Equal(t, 3, c.Len())

	for _, ref := range refs {
		_, err := c.Fetch(context.Background(), ref)
		require.NoError(t, err)
	}
	require.Equal(t, int32(3), calls.Load())
}

func TestPrefetchReturnsFirstError(t *testing.T) {
	origin := ports.FetcherFunc(func(_ context.Context, ref string) ([]byte, error) {
		if ref == "bad.svg" {
			return nil, colorpickerrors.NewFetchError(ref, 404, nil)
		}
		return []byte(ref), nil
	})

	err := Prefetch(context.Background(), origin, []string{"a.svg", "bad.svg"}, 0)
	var fetchErr *colorpickerrors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, "bad.svg", fetchErr.Ref)
}
