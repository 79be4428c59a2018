package secgov

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(Config{
		UserAgent:            "filinglens-test/0.0 (test@filinglens.dev)",
		MaxRequestsPerSecond: 1000,
		Timeout:              5 * time.Second,
		CacheTTL:             time.Hour,
		CacheEnabled:         true,
		CacheDir:             t.TempDir(),
	})
	require.NoError(t, err)
	client.sleep = func(time.Duration) {}
	return client
}

func TestFetchCachesJSONBodies(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Apple Inc."}`))
	}))
	defer srv.Close()

	client := newTestClient(t)

	first, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
	require.NoError(t, err)
	require.False(t, first.FromCache)

	second, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.JSONEq(t, string(first.Body), string(second.Body))
	require.EqualValues(t, 1, hits.Load())
}

func TestFetchNeverCachesNonJSON(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>EDGAR</body></html>"))
	}))
	defer srv.Close()

	client := newTestClient(t)

	for i := 0; i < 2; i++ {
		resp, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
		require.NoError(t, err)
		require.False(t, resp.FromCache)
	}
	require.EqualValues(t, 2, hits.Load())
}

func TestFetchNoCacheBypassesReadAndWrite(t *testing.T) {
	body := atomic.Value{}
	body.Store(`{"rev":1}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body.Load().(string)))
	}))
	defer srv.Close()

	client := newTestClient(t)

	resp, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
	require.NoError(t, err)
	require.JSONEq(t, `{"rev":1}`, string(resp.Body))

	body.Store(`{"rev":2}`)

	resp, err = client.Fetch(context.Background(), srv.URL, FetchOptions{NoCache: true})
	require.NoError(t, err)
	require.False(t, resp.FromCache)
	require.JSONEq(t, `{"rev":2}`, string(resp.Body))

	// The bypass did not overwrite the cached entry either.
	resp, err = client.Fetch(context.Background(), srv.URL, FetchOptions{})
	require.NoError(t, err)
	require.True(t, resp.FromCache)
	require.JSONEq(t, `{"rev":1}`, string(resp.Body))
}

func TestFetchRetriesTransientStatuses(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := newTestClient(t)
	var backoffs []time.Duration
	client.sleep = func(d time.Duration) { backoffs = append(backoffs, d) }

	resp, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 3, hits.Load())
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, backoffs)
}

func TestFetchFailsAfterExhaustedRetries(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t)

	_, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusServiceUnavailable, reqErr.StatusCode)
	require.EqualValues(t, 3, hits.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t)

	_, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	require.EqualValues(t, 1, hits.Load())
}

func TestFetchFailuresNeverCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t)

	for i := 0; i < 2; i++ {
		_, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
		require.Error(t, err)
	}
	require.EqualValues(t, 2, hits.Load())
}

func TestFetchSendsIdentifyingHeaders(t *testing.T) {
	var userAgent, accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t)

	_, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
	require.NoError(t, err)
	require.Equal(t, "filinglens-test/0.0 (test@filinglens.dev)", userAgent)
	require.Contains(t, accept, "application/json")
}

func TestFetchMergesQueryParams(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t)

	_, err := client.Fetch(context.Background(), srv.URL+"/browse?action=getcompany", FetchOptions{
		Params: map[string][]string{"type": {"10-K"}, "cik": {"320193"}},
	})
	require.NoError(t, err)
	require.Equal(t, "action=getcompany&cik=320193&type=10-K", query)
}

func TestDownloadWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("accession contents"))
	}))
	defer srv.Close()

	client := newTestClient(t)
	dest := filepath.Join(t.TempDir(), "filings", "0000320193-24-000001.txt")

	path, err := client.Download(context.Background(), srv.URL, dest, false)
	require.NoError(t, err)
	require.Equal(t, dest, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "accession contents", string(data))
}

func TestDownloadSkipsExistingDestination(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	client := newTestClient(t)
	dest := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o644))

	path, err := client.Download(context.Background(), srv.URL, dest, true)
	require.NoError(t, err)
	require.Equal(t, dest, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "stale", string(data), "existence check, not freshness")
	require.EqualValues(t, 0, hits.Load())
	require.Empty(t, client.limiter.stamps, "no limiter admission on short-circuit")
}

func TestDownloadErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := newTestClient(t)
	dest := filepath.Join(t.TempDir(), "report.txt")

	_, err := client.Download(context.Background(), srv.URL, dest, false)
	var dlErr *DownloadError
	require.ErrorAs(t, err, &dlErr)
	require.Equal(t, srv.URL, dlErr.URL)
	require.Equal(t, dest, dlErr.Dest)
}

func TestFetchConnectionErrorsConsumeAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	client := newTestClient(t)
	var backoffs int
	client.sleep = func(time.Duration) { backoffs++ }

	_, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, 0, reqErr.StatusCode)
	require.Equal(t, 2, backoffs)
}

func TestFetchDisabledCacheStillWorks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		MaxRequestsPerSecond: 1000,
		CacheEnabled:         false,
	})
	require.NoError(t, err)
	require.Nil(t, client.Cache())

	resp, err := client.Fetch(context.Background(), srv.URL, FetchOptions{})
	require.NoError(t, err)
	require.False(t, resp.FromCache)
}

func TestResponseJSON(t *testing.T) {
	resp := &Response{Body: []byte(`{"cik":320193,"name":"Apple Inc."}`)}

	var decoded struct {
		CIK  int    `json:"cik"`
		Name string `json:"name"`
	}
	require.NoError(t, resp.JSON(&decoded))
	require.Equal(t, 320193, decoded.CIK)
	require.Equal(t, "Apple Inc.", decoded.Name)

	var bad []string
	require.Error(t, (&Response{Body: []byte(`{`)}).JSON(&bad))
}
