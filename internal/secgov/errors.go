package secgov

import "fmt"

// RequestError reports a failed fetch: a transport error, a terminal
// non-2xx status, or exhausted retries. Cache failures never produce a
// RequestError; caching is best-effort.
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request %s failed: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// DownloadError reports a network or filesystem failure during a streaming
// download. A partially written destination file is left in place.
type DownloadError struct {
	URL  string
	Dest string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s to %s failed: %v", e.URL, e.Dest, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
