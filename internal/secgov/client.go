// Package secgov is the shared HTTP access layer for SEC web APIs. It
// combines a sliding-window rate limiter, a file-backed response cache,
// and a retrying HTTP client behind two operations: Fetch for JSON/text
// GETs and Download for streamed file GETs. All EDGAR tooling goes
// through one Client so the SEC fair-access rate bound holds across the
// whole process.
package secgov

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	maxAttempts   = 3
	baseBackoff   = time.Second
	downloadChunk = 8 * 1024

	acceptHeader = "application/json, text/html, */*"
)

// retryableStatus reports whether a status code is transient per SEC/EDGAR
// serving behavior. All other non-2xx statuses fail immediately.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Config carries per-client policy. It is fixed at construction; build a
// new client to change policy.
type Config struct {
	// UserAgent identifies the caller to the SEC per its fair-access
	// policy. Requests without it are rejected or throttled harder.
	UserAgent            string
	MaxRequestsPerSecond int
	Timeout              time.Duration
	CacheTTL             time.Duration
	CacheEnabled         bool
	// CacheDir overrides DefaultCacheDir when non-empty.
	CacheDir string
}

// DefaultConfig returns the baseline policy used by the process-wide
// default client.
func DefaultConfig() Config {
	return Config{
		UserAgent:            "filinglens/1.0 (contact@filinglens.dev)",
		MaxRequestsPerSecond: 10,
		Timeout:              30 * time.Second,
		CacheTTL:             time.Hour,
		CacheEnabled:         true,
	}
}

// Client is the shared HTTP access client. A single instance is safe for
// concurrent use; the rate limiter is the only blocking point.
type Client struct {
	cfg     Config
	limiter *RateLimiter
	cache   *Cache
	httpc   *http.Client
	// sleep is overridable for retry-backoff tests.
	sleep func(time.Duration)
}

// NewClient builds a client from cfg. It fails only if the cache
// directory cannot be created while caching is enabled.
func NewClient(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	var cache *Cache
	if cfg.CacheEnabled {
		var err error
		cache, err = NewCache(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("open response cache: %w", err)
		}
	}

	return &Client{
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.MaxRequestsPerSecond),
		cache:   cache,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		sleep:   time.Sleep,
	}, nil
}

// Cache exposes the client's response cache for admin commands. It is nil
// when caching is disabled.
func (c *Client) Cache() *Cache { return c.cache }

// FetchOptions adjusts a single Fetch call.
type FetchOptions struct {
	// Header entries are merged over the defaults. The identifying
	// User-Agent cannot be overridden to empty.
	Header http.Header
	Params url.Values
	// NoCache bypasses the cache entirely: no read and no write.
	NoCache bool
}

// Response is the uniform fetch result. FromCache marks a response
// synthesized from the cache without network activity.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	FromCache  bool
}

// JSON unmarshals the response body.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Fetch performs a GET with rate limiting, caching, and retries. A cache
// hit returns without touching the network or the limiter. Transient
// statuses (429, 500, 502, 503, 504) are retried up to three attempts
// with exponential backoff from one second; connection-level failures
// consume the same attempt budget. Successful JSON bodies are cached;
// non-JSON bodies never are.
func (c *Client) Fetch(ctx context.Context, rawURL string, opts FetchOptions) (*Response, error) {
	useCache := c.cfg.CacheEnabled && c.cache != nil && !opts.NoCache
	key := Key(rawURL, opts.Params)

	if useCache {
		if value, ok := c.cache.Read(key); ok {
			header := make(http.Header)
			header.Set("Content-Type", "application/json")
			return &Response{
				StatusCode: http.StatusOK,
				Header:     header,
				Body:       value,
				FromCache:  true,
			}, nil
		}
	}

	reqURL, err := mergeParams(rawURL, opts.Params)
	if err != nil {
		return nil, &RequestError{URL: rawURL, Err: err}
	}

	c.limiter.Admit()

	resp, err := c.doWithRetries(ctx, reqURL, opts.Header)
	if err != nil {
		return nil, err
	}

	if useCache && json.Valid(resp.Body) {
		// Best-effort: an unwritable cache never fails the request.
		_ = c.cache.Write(key, json.RawMessage(resp.Body), c.cfg.CacheTTL)
	}

	return resp, nil
}

// Download streams a GET response to destPath and returns the absolute
// path. With useCache, an existing destination short-circuits before any
// network or limiter activity; this is an existence check, not a
// freshness check. A partial file is left as-is on failure.
func (c *Client) Download(ctx context.Context, rawURL, destPath string, useCache bool) (string, error) {
	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return "", &DownloadError{URL: rawURL, Dest: destPath, Err: err}
	}

	if useCache {
		if _, err := os.Stat(absPath); err == nil {
			return absPath, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", &DownloadError{URL: rawURL, Dest: absPath, Err: err}
	}

	c.limiter.Admit()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &DownloadError{URL: rawURL, Dest: absPath, Err: err}
	}
	c.applyHeaders(req, nil)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", &DownloadError{URL: rawURL, Dest: absPath, Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &DownloadError{URL: rawURL, Dest: absPath, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	out, err := os.Create(absPath)
	if err != nil {
		return "", &DownloadError{URL: rawURL, Dest: absPath, Err: err}
	}

	buf := make([]byte, downloadChunk)
	if _, err := io.CopyBuffer(out, resp.Body, buf); err != nil {
		_ = out.Close()
		return "", &DownloadError{URL: rawURL, Dest: absPath, Err: err}
	}
	if err := out.Close(); err != nil {
		return "", &DownloadError{URL: rawURL, Dest: absPath, Err: err}
	}

	return absPath, nil
}

func (c *Client) doWithRetries(ctx context.Context, reqURL string, extra http.Header) (*Response, error) {
	var (
		lastErr    error
		lastStatus int
	)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(baseBackoff << (attempt - 1))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, &RequestError{URL: reqURL, Err: err}
		}
		c.applyHeaders(req, extra)

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			lastStatus = 0
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			lastStatus = 0
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &Response{
				StatusCode: resp.StatusCode,
				Header:     resp.Header,
				Body:       body,
			}, nil
		}

		if retryableStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("transient status %s", resp.Status)
			lastStatus = resp.StatusCode
			continue
		}

		return nil, &RequestError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	return nil, &RequestError{URL: reqURL, StatusCode: lastStatus, Err: lastErr}
}

func (c *Client) applyHeaders(req *http.Request, extra http.Header) {
	// Accept-Encoding is left to the transport so gzip bodies are
	// decompressed transparently.
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", acceptHeader)

	for name, values := range extra {
		req.Header.Del(name)
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
}

func mergeParams(rawURL string, params url.Values) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	query := parsed.Query()
	for name, values := range params {
		for _, value := range values {
			query.Add(name, value)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
