package assetcache

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func textResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"text/plain"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

var errOffline = errors.New("dial tcp: network is unreachable")

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func seed(t *testing.T, s CacheStorage, version, url, body string) {
	t.Helper()
	c, err := s.Open(context.Background(), version)
	require.NoError(t, err)
	require.NoError(t, c.Put(context.Background(), getReq(t, url), &Response{Status: 200, Body: []byte(body)}))
}

func cached(t *testing.T, s CacheStorage, version, url string) *Response {
	t.Helper()
	c, err := s.Open(context.Background(), version)
	require.NoError(t, err)
	r, err := c.Match(context.Background(), getReq(t, url))
	require.NoError(t, err)
	return r
}

func TestRoundTrip_FailingLiveServesCached(t *testing.T) {
	s := NewMemoryStorage()
	seed(t, s, DefaultVersion, "http://app/", "R")

	c := NewController(mustURL(t, "http://app"), s, logging.Discard(),
		WithTransport(roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, errOffline })))

	resp, err := c.RoundTrip(getReq(t, "http://app/"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "R", readBody(t, resp))

	c.Wait()
	assert.Equal(t, []byte("R"), cached(t, s, DefaultVersion, "http://app/").Body)
}

func TestRoundTrip_MissWaitsForLiveAndStores(t *testing.T) {
	s := NewMemoryStorage()
	c := NewController(mustURL(t, "http://app"), s, logging.Discard(),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return textResponse(r, 200, "S"), nil
		})))

	resp, err := c.RoundTrip(getReq(t, "http://app/app.js"))
	require.NoError(t, err)
	assert.Equal(t, "S", readBody(t, resp))
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))

	c.Wait()
	got := cached(t, s, DefaultVersion, "http://app/app.js")
	require.NotNil(t, got)
	assert.Equal(t, 200, got.Status)
	assert.Equal(t, []byte("S"), got.Body)
	assert.Equal(t, "text/plain", got.Header.Get("Content-Type"))
}

func TestRoundTrip_HitServesStaleAndRefreshes(t *testing.T) {
	s := NewMemoryStorage()
	seed(t, s, DefaultVersion, "http://app/", "old")

	release := make(chan struct{})
	c := NewController(mustURL(t, "http://app"), s, logging.Discard(),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			<-release
			return textResponse(r, 200, "new"), nil
		})))

	// The cached copy comes back while the live fetch is still blocked.
	resp, err := c.RoundTrip(getReq(t, "http://app/"))
	require.NoError(t, err)
	assert.Equal(t, "old", readBody(t, resp))

	close(release)
	c.Wait()
	assert.Equal(t, []byte("new"), cached(t, s, DefaultVersion, "http://app/").Body)
}

func TestRoundTrip_MissAndOffline(t *testing.T) {
	c := NewController(mustURL(t, "http://app"), NewMemoryStorage(), logging.Discard(),
		WithTransport(roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, errOffline })))

	resp, err := c.RoundTrip(getReq(t, "http://app/missing"))
	assert.Nil(t, resp)
	require.ErrorIs(t, err, ErrNoResponse)
	assert.ErrorIs(t, err, errOffline)
}

func TestRoundTrip_NonGETBypassesCache(t *testing.T) {
	s := NewMemoryStorage()
	seed(t, s, DefaultVersion, "http://app/api/expense", "cached")

	var calls atomic.Int32
	c := NewController(mustURL(t, "http://app"), s, logging.Discard(),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls.Add(1)
			return textResponse(r, 201, "created-"+r.Method), nil
		})))

	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req, err := http.NewRequest(m, "http://app/api/expense", strings.NewReader(`{}`))
		require.NoError(t, err)
		resp, err := c.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, "created-"+m, readBody(t, resp))
	}
	c.Wait()

	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, []byte("cached"), cached(t, s, DefaultVersion, "http://app/api/expense").Body)

	req, err := http.NewRequest(http.MethodPost, "http://app/other", nil)
	require.NoError(t, err)
	_, err = c.RoundTrip(req)
	require.NoError(t, err)
	assert.Nil(t, cached(t, s, DefaultVersion, "http://app/other"))
}

func TestRoundTrip_PartialContentNotStored(t *testing.T) {
	s := NewMemoryStorage()
	c := NewController(mustURL(t, "http://app"), s, logging.Discard(),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return textResponse(r, http.StatusPartialContent, "par"), nil
		})))

	resp, err := c.RoundTrip(getReq(t, "http://app/video"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
	c.Wait()
	assert.Nil(t, cached(t, s, DefaultVersion, "http://app/video"))
}

type failingStorage struct{ CacheStorage }

func (failingStorage) Open(context.Context, string) (Cache, error) {
	return nil, errors.New("disk full")
}

func (failingStorage) Keys(context.Context) ([]string, error) {
	return nil, errors.New("disk full")
}

func TestRoundTrip_StorageErrorIsMiss(t *testing.T) {
	c := NewController(mustURL(t, "http://app"), failingStorage{}, logging.Discard(),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return textResponse(r, 200, "live"), nil
		})))

	resp, err := c.RoundTrip(getReq(t, "http://app/"))
	require.NoError(t, err)
	assert.Equal(t, "live", readBody(t, resp))
	c.Wait()
}

func TestRoundTrip_Metrics(t *testing.T) {
	s := NewMemoryStorage()
	seed(t, s, DefaultVersion, "http://app/hit", "x")
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	c := NewController(mustURL(t, "http://app"), s, logging.Discard(), WithMetrics(m),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path == "/down" {
				return nil, errOffline
			}
			return textResponse(r, 200, "y"), nil
		})))

	for _, p := range []string{"/hit", "/miss", "/down"} {
		resp, _ := c.RoundTrip(getReq(t, "http://app"+p))
		if resp != nil {
			_ = resp.Body.Close()
		}
	}
	c.Wait()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(resultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(resultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(resultNone)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Stored))
}

func TestActivate_KeepsOnlyCurrent(t *testing.T) {
	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, n := range []string{"v1", "v2", "current"} {
				_, err := s.Open(ctx, n)
				require.NoError(t, err)
			}

			c := NewController(mustURL(t, "http://app"), s, logging.Discard(), WithVersion("current"))
			require.NoError(t, c.Activate(ctx))

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"current"}, keys)
		})
	}
}

func shellOrigin(t *testing.T, broken string) (*httptest.Server, *sync.Map) {
	t.Helper()
	var hits sync.Map
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Store(r.URL.Path, true)
		if r.URL.Path == broken {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "asset "+r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestInstall_StoresShell(t *testing.T) {
	srv, _ := shellOrigin(t, "")
	s := NewMemoryStorage()
	c := NewController(mustURL(t, srv.URL), s, logging.Discard())

	require.NoError(t, c.Install(context.Background()))

	for _, p := range DefaultShellAssets {
		got := cached(t, s, DefaultVersion, srv.URL+p)
		require.NotNil(t, got, p)
		assert.Equal(t, "asset "+p, string(got.Body))
	}
}

func TestInstall_AllOrNothing(t *testing.T) {
	srv, _ := shellOrigin(t, "/logo.svg")
	s := NewMemoryStorage()
	seed(t, s, "budget-cache-v0", srv.URL+"/", "previous")

	c := NewController(mustURL(t, srv.URL), s, logging.Discard(), WithVersion("budget-cache-v2"))
	err := c.Install(context.Background())
	require.ErrorIs(t, err, ErrInstall)
	assert.Contains(t, err.Error(), "/logo.svg")

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"budget-cache-v0"}, keys)
}

func TestInstall_CustomAssets(t *testing.T) {
	srv, hits := shellOrigin(t, "")
	s := newSQLiteStorage(t)
	c := NewController(mustURL(t, srv.URL+"/app/"), s, logging.Discard(),
		WithShellAssets([]string{"index.html", "/robots.txt"}))

	require.NoError(t, c.Install(context.Background()))

	_, ok := hits.Load("/app/index.html")
	assert.True(t, ok)
	_, ok = hits.Load("/robots.txt")
	assert.True(t, ok)
	_, ok = hits.Load("/")
	assert.False(t, ok)
	assert.NotNil(t, cached(t, s, DefaultVersion, srv.URL+"/app/index.html"))
}

func TestRoundTrip_FastMissIsCountedAsMiss(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := NewController(mustURL(t, "http://app"), NewMemoryStorage(), logging.Discard(), WithMetrics(m),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return textResponse(r, 200, "fast"), nil
		})))

	for i := 0; i < 50; i++ {
		resp, err := c.RoundTrip(getReq(t, "http://app/asset-"+strconv.Itoa(i)))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}
	c.Wait()

	assert.Equal(t, 0.0, testutil.ToFloat64(m.Requests.WithLabelValues(resultHit)))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.Requests.WithLabelValues(resultMiss)))
}

func TestRoundTrip_FailedInstallServesPreviousGeneration(t *testing.T) {
	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed(t, s, "budget-cache-v1", "http://app/", "old shell")

			var down atomic.Bool
			down.Store(true)
			c := NewController(mustURL(t, "http://app"), s, logging.Discard(), WithVersion("budget-cache-v2"),
				WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
					if down.Load() {
						return nil, io.ErrUnexpectedEOF
					}
					return textResponse(r, 200, "fresh "+r.URL.Path), nil
				})))

			require.ErrorIs(t, c.Install(ctx), ErrInstall)
			assert.Empty(t, c.Active())

			resp, err := c.RoundTrip(getReq(t, "http://app/"))
			require.NoError(t, err)
			assert.Equal(t, "old shell", readBody(t, resp))
			c.Wait()

			// Refreshes land in the generation still in effect.
			down.Store(false)
			resp, err = c.RoundTrip(getReq(t, "http://app/app.js"))
			require.NoError(t, err)
			assert.Equal(t, "fresh /app.js", readBody(t, resp))
			c.Wait()
			assert.NotNil(t, cached(t, s, "budget-cache-v1", "http://app/app.js"))

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"budget-cache-v1"}, keys)
		})
	}
}

func TestActivate_SwitchesServingGeneration(t *testing.T) {
	srv, _ := shellOrigin(t, "")
	s := NewMemoryStorage()
	seed(t, s, "budget-cache-v1", srv.URL+"/", "old shell")

	var down atomic.Bool
	c := NewController(mustURL(t, srv.URL), s, logging.Discard(), WithVersion("budget-cache-v2"),
		WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if down.Load() {
				return nil, errOffline
			}
			return http.DefaultTransport.RoundTrip(r)
		})))

	ctx := context.Background()
	require.NoError(t, c.Install(ctx))

	// Installed but not yet activated: the previous generation still serves.
	down.Store(true)
	resp, err := c.RoundTrip(getReq(t, srv.URL+"/"))
	require.NoError(t, err)
	assert.Equal(t, "old shell", readBody(t, resp))
	c.Wait()

	require.NoError(t, c.Activate(ctx))
	assert.Equal(t, "budget-cache-v2", c.Active())

	resp, err = c.RoundTrip(getReq(t, srv.URL+"/"))
	require.NoError(t, err)
	assert.Equal(t, "asset /", readBody(t, resp))
	c.Wait()
}

type putFailingStorage struct{ *MemoryStorage }

type putFailingCache struct{ Cache }

func (putFailingCache) Put(context.Context, *http.Request, *Response) error {
	return errors.New("disk full")
}

func (s putFailingStorage) Open(ctx context.Context, name string) (Cache, error) {
	c, err := s.MemoryStorage.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return putFailingCache{c}, nil
}

func TestInstall_PutFailureRemovesNewGeneration(t *testing.T) {
	srv, _ := shellOrigin(t, "")
	s := putFailingStorage{NewMemoryStorage()}
	_, err := s.MemoryStorage.Open(context.Background(), "budget-cache-v1")
	require.NoError(t, err)

	c := NewController(mustURL(t, srv.URL), s, logging.Discard(), WithVersion("budget-cache-v2"))
	require.ErrorIs(t, c.Install(context.Background()), ErrInstall)

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"budget-cache-v1"}, keys)
}
