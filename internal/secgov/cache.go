package secgov

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// cacheEntry is the on-disk shape of a cached payload. There is no index
// or manifest; the per-key file is the only metadata.
type cacheEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt float64         `json:"expires_at"`
}

// Cache persists successful response payloads as one JSON file per key.
// Entries expire lazily: a stale or unreadable entry is deleted on the
// next read, never by a background sweep. Concurrent writers to different
// keys never conflict; writers to the same key race last-write-wins.
type Cache struct {
	dir string
	// Clock is overridable for tests.
	Clock func() time.Time
}

// DefaultCacheDir resolves the cache location: $XDG_CACHE_HOME/filinglens
// when set, otherwise ~/.cache/filinglens.
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "filinglens"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "filinglens"), nil
}

// NewCache opens a cache rooted at dir, creating the directory if needed.
// An empty dir selects DefaultCacheDir.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		dir, err = DefaultCacheDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string { return c.dir }

// Key derives the cache key for a URL and its query parameters. Encode
// sorts parameters by name, so parameter order never splits entries.
func Key(rawURL string, params url.Values) string {
	return rawURL + "?" + params.Encode()
}

// Read returns the cached value for key if present and unexpired. A stale
// or corrupted entry is deleted and reported as a miss.
func (c *Cache) Read(key string) (json.RawMessage, bool) {
	path := c.entryPath(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			_ = os.Remove(path)
		}
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Value == nil {
		_ = os.Remove(path)
		return nil, false
	}

	if unixSeconds(c.now()) >= entry.ExpiresAt {
		_ = os.Remove(path)
		return nil, false
	}

	return entry.Value, true
}

// Write persists value under key with the given TTL, overwriting any prior
// entry. Callers treat a returned error as a degraded cache, never as a
// failed request.
func (c *Cache) Write(key string, value json.RawMessage, ttl time.Duration) error {
	entry := cacheEntry{
		Value:     value,
		ExpiresAt: unixSeconds(c.now().Add(ttl)),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.entryPath(key), data, 0o644)
}

// Clear removes every entry file and returns the number removed.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err == nil {
			removed++
		}
	}

	return removed, nil
}

// entryPath hashes the key so arbitrary URLs map to safe filenames.
func (c *Cache) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

func (c *Cache) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
