package secgov

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *testClock) {
	t.Helper()
	clock := newTestClock()
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)
	cache.Clock = clock.Now
	return cache, clock
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)

	key := Key("https://data.sec.gov/submissions/CIK0000320193.json", nil)
	require.NoError(t, cache.Write(key, json.RawMessage(`{"cik":320193}`), time.Hour))

	got, ok := cache.Read(key)
	require.True(t, ok)
	require.JSONEq(t, `{"cik":320193}`, string(got))
}

func TestCacheExpiry(t *testing.T) {
	cache, clock := newTestCache(t)

	key := Key("https://example.test/a", nil)
	require.NoError(t, cache.Write(key, json.RawMessage(`1`), time.Hour))

	clock.now = clock.now.Add(59 * time.Minute)
	_, ok := cache.Read(key)
	require.True(t, ok)

	clock.now = clock.now.Add(time.Minute)
	_, ok = cache.Read(key)
	require.False(t, ok, "entry at exactly its expiry time is stale")

	// The stale file is removed, not just skipped.
	entries, err := os.ReadDir(cache.Dir())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCacheOverwriteResetsEntry(t *testing.T) {
	cache, clock := newTestCache(t)

	key := Key("https://example.test/a", nil)
	require.NoError(t, cache.Write(key, json.RawMessage(`"old"`), time.Minute))
	require.NoError(t, cache.Write(key, json.RawMessage(`"new"`), time.Hour))

	clock.now = clock.now.Add(30 * time.Minute)
	got, ok := cache.Read(key)
	require.True(t, ok)
	require.Equal(t, `"new"`, string(got))
}

func TestCacheKeyCanonicalizesParams(t *testing.T) {
	first := url.Values{}
	first.Set("type", "10-K")
	first.Set("cik", "320193")

	second := url.Values{}
	second.Set("cik", "320193")
	second.Set("type", "10-K")

	base := "https://www.sec.gov/cgi-bin/browse-edgar"
	require.Equal(t, Key(base, first), Key(base, second))
	require.Equal(t, base+"?cik=320193&type=10-K", Key(base, first))
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	key := Key("https://example.test/a", nil)
	require.NoError(t, cache.Write(key, json.RawMessage(`1`), time.Hour))

	entries, err := os.ReadDir(cache.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	path := filepath.Join(cache.Dir(), entries[0].Name())
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, ok := cache.Read(key)
	require.False(t, ok)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "corrupt entry is removed")
}

func TestCacheClear(t *testing.T) {
	cache, _ := newTestCache(t)

	for _, u := range []string{"https://a.test", "https://b.test", "https://c.test"} {
		require.NoError(t, cache.Write(Key(u, nil), json.RawMessage(`1`), time.Hour))
	}

	removed, err := cache.Clear()
	require.NoError(t, err)
	require.Equal(t, 3, removed)

	_, ok := cache.Read(Key("https://a.test", nil))
	require.False(t, ok)
}

func TestCacheMissingDirIsMiss(t *testing.T) {
	cache, _ := newTestCache(t)
	require.NoError(t, os.RemoveAll(cache.Dir()))

	_, ok := cache.Read(Key("https://a.test", nil))
	require.False(t, ok)
}
