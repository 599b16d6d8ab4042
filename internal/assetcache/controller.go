package assetcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
)

const DefaultVersion = "budget-cache-v1"

// DefaultShellAssets are the paths fetched at install time.
var DefaultShellAssets = []string{"/", "/favicon.ico", "/logo.svg", "/manifest.json"}

var (
	// ErrNoResponse is returned when a GET has no cached copy and the live
	// fetch failed.
	ErrNoResponse = errors.New("no cached or live response")
	// ErrInstall is returned when a shell asset could not be fetched.
	ErrInstall = errors.New("install failed")
)

type Controller struct {
	origin       *url.URL
	storage      CacheStorage
	upstream     http.RoundTripper
	version      string
	assets       []string
	fetchTimeout time.Duration
	metrics      *Metrics
	log          logging.Logger

	mu     sync.RWMutex
	active string

	wg sync.WaitGroup
}

type Option func(*Controller)

// WithVersion sets the name of the current generation.
func WithVersion(v string) Option {
	return func(c *Controller) { c.version = v }
}

func WithShellAssets(paths []string) Option {
	return func(c *Controller) { c.assets = append([]string(nil), paths...) }
}

// WithTransport sets the RoundTripper used for live fetches.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Controller) { c.upstream = rt }
}

// WithFetchTimeout bounds each live fetch, including background refreshes.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.fetchTimeout = d }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func NewController(origin *url.URL, storage CacheStorage, log logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		origin:       origin,
		storage:      storage,
		upstream:     http.DefaultTransport,
		version:      DefaultVersion,
		assets:       DefaultShellAssets,
		fetchTimeout: 30 * time.Second,
		log:          log.With("module", "assetcache"),
	}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	return c
}

func (c *Controller) Version() string { return c.version }

// Active returns the generation set by a successful Activate, or "" before
// that.
func (c *Controller) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// serving resolves the generation requests read from and refresh into, and
// whether it exists yet. Until Activate succeeds this is the newest
// generation left by an earlier version, so a failed install keeps the
// previous generation in effect. With no earlier generation it is the
// current version.
func (c *Controller) serving(ctx context.Context) (string, bool, error) {
	names, err := c.storage.Keys(ctx)
	if err != nil {
		return "", false, err
	}
	if active := c.Active(); active != "" {
		return active, contains(names, active), nil
	}
	for i := len(names) - 1; i >= 0; i-- {
		if names[i] != c.version {
			return names[i], true, nil
		}
	}
	return c.version, contains(names, c.version), nil
}

// Install fetches every shell asset and stores them in the current
// generation. Nothing is stored unless every fetch returns a 2xx response.
func (c *Controller) Install(ctx context.Context) error {
	type fetched struct {
		req  *http.Request
		resp *Response
	}
	all := make([]fetched, 0, len(c.assets))

	for _, p := range c.assets {
		ref, err := url.Parse(p)
		if err != nil {
			return fmt.Errorf("%w: bad asset path %q: %w", ErrInstall, p, err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin.ResolveReference(ref).String(), nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInstall, err)
		}

		resp, err := c.fetch(ctx, req)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInstall, p, err)
		}
		if resp.Status < 200 || resp.Status > 299 {
			return fmt.Errorf("%w: %s: status %d", ErrInstall, p, resp.Status)
		}
		all = append(all, fetched{req: req, resp: resp})
	}

	names, err := c.storage.Keys(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	existed := contains(names, c.version)

	cache, err := c.storage.Open(ctx, c.version)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	for _, f := range all {
		if err := cache.Put(ctx, f.req, f.resp); err != nil {
			if !existed {
				_, _ = c.storage.Delete(ctx, c.version)
			}
			return fmt.Errorf("%w: %w", ErrInstall, err)
		}
		c.metrics.Stored.Inc()
	}

	c.log.Info(ctx, "shell assets installed", "version", c.version, "assets", len(all))
	return nil
}

// Activate deletes every generation other than the current one and, when
// that succeeds, makes the current one active. Call it only after Install
// succeeded.
func (c *Controller) Activate(ctx context.Context) error {
	names, err := c.storage.Keys(ctx)
	if err != nil {
		return err
	}

	remaining := 0
	var errs []error
	for _, name := range names {
		if name == c.version {
			remaining++
			continue
		}
		if _, err := c.storage.Delete(ctx, name); err != nil {
			errs = append(errs, err)
			remaining++
			continue
		}
		c.log.Info(ctx, "stale cache deleted", "name", name)
	}
	c.metrics.Generations.Set(float64(remaining))
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.mu.Lock()
	c.active = c.version
	c.mu.Unlock()
	return nil
}

// RoundTrip implements http.RoundTripper.
func (c *Controller) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		c.metrics.Requests.WithLabelValues(resultBypass).Inc()
		return c.upstream.RoundTrip(req)
	}

	gen, cached := c.lookup(req)
	live := c.refresh(req, gen)

	if cached != nil {
		c.metrics.Requests.WithLabelValues(resultHit).Inc()
		return cached.HTTP(req), nil
	}

	r := <-live
	if r.err != nil {
		c.metrics.Requests.WithLabelValues(resultNone).Inc()
		return nil, fmt.Errorf("%w: %s: %w", ErrNoResponse, requestKey(req), r.err)
	}
	c.metrics.Requests.WithLabelValues(resultMiss).Inc()
	return r.resp.HTTP(req), nil
}

type liveResult struct {
	resp *Response
	err  error
}

// refresh fetches req in the background and stores the result in gen. An
// empty gen skips the store.
func (c *Controller) refresh(req *http.Request, gen string) <-chan liveResult {
	live := make(chan liveResult, 1)

	// The refresh outlives the caller when a cached copy is served.
	bg := context.WithoutCancel(req.Context())
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		resp, err := c.fetch(bg, req)
		if err != nil {
			c.metrics.RefreshFailures.Inc()
			c.log.Debug(bg, "live fetch failed", "url", requestKey(req), "error", err)
		} else if gen != "" {
			c.store(bg, gen, req, resp)
		}
		live <- liveResult{resp: resp, err: err}
	}()
	return live
}

// Wait blocks until every background refresh has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// lookup returns the serving generation and the response stored there for
// req. It never creates a generation. Storage errors count as a miss and
// leave gen empty.
func (c *Controller) lookup(req *http.Request) (gen string, resp *Response) {
	ctx := req.Context()
	gen, exists, err := c.serving(ctx)
	if err != nil {
		c.log.Warn(ctx, "cache unavailable", "error", err)
		return "", nil
	}
	if !exists {
		return gen, nil
	}

	cache, err := c.storage.Open(ctx, gen)
	if err != nil {
		c.log.Warn(ctx, "cache unavailable", "error", err)
		return gen, nil
	}
	resp, err = cache.Match(ctx, req)
	if err != nil {
		c.log.Warn(ctx, "cache lookup failed", "url", requestKey(req), "error", err)
		return gen, nil
	}
	return gen, resp
}

func (c *Controller) store(ctx context.Context, gen string, req *http.Request, resp *Response) {
	// Partial content cannot be replayed for a full request.
	if resp.Status == http.StatusPartialContent {
		return
	}
	cache, err := c.storage.Open(ctx, gen)
	if err == nil {
		err = cache.Put(ctx, req, resp)
	}
	if err != nil {
		c.log.Warn(ctx, "cache put failed", "url", requestKey(req), "error", err)
		return
	}
	c.metrics.Stored.Inc()
}

// fetch performs a live request and reads the whole body. Any HTTP response
// counts as success; only transport errors fail.
func (c *Controller) fetch(ctx context.Context, req *http.Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	out := req.Clone(ctx)
	out.RequestURI = ""

	resp, err := c.upstream.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now(),
	}, nil
}
