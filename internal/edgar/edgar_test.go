package edgar

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/filinglens/filinglens/internal/secgov"
)

// newTestService wires a Service to an httptest server so both the
// data and www base URLs resolve to handler.
func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := secgov.NewClient(secgov.Config{
		UserAgent:            "filinglens-test/0.0 (test@filinglens.dev)",
		MaxRequestsPerSecond: 1000,
		Timeout:              5 * time.Second,
		CacheTTL:             time.Hour,
		CacheEnabled:         true,
		CacheDir:             t.TempDir(),
	})
	require.NoError(t, err)

	svc := NewService(client)
	svc.DataBaseURL = srv.URL
	svc.WWWBaseURL = srv.URL
	return svc
}

// jsonHandler serves body at path and 404s everything else.
func jsonHandler(path, body string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
	return mux
}

func TestPadCIK(t *testing.T) {
	require.Equal(t, "0000320193", PadCIK("320193"))
	require.Equal(t, "0000320193", PadCIK(" 320193 "))
	require.Equal(t, "0000320193", PadCIK("0000320193"))
	require.Equal(t, "0000000001", PadCIK("1"))
}

func TestStripAccessionDashes(t *testing.T) {
	require.Equal(t, "000032019325000010", StripAccessionDashes("0000320193-25-000010"))
	require.Equal(t, "000032019325000010", StripAccessionDashes("000032019325000010"))
}

func TestArchiveURLBuilders(t *testing.T) {
	svc := NewService(nil)

	require.Equal(t,
		"https://www.sec.gov/Archives/edgar/data/0000320193/0000320193-25-000010-index.html",
		svc.FilingIndexURL("320193", "0000320193-25-000010"))
	require.Equal(t,
		"https://www.sec.gov/Archives/edgar/data/0000320193/0000320193-25-000010.txt",
		svc.CompleteSubmissionURL("320193", "0000320193-25-000010"))
	require.Equal(t,
		"https://www.sec.gov/Archives/edgar/data/0000320193/000032019325000010/",
		svc.FilingFolderURL("320193", "0000320193-25-000010"))
}

func TestArchiveURLFromIndexPath(t *testing.T) {
	svc := NewService(nil)

	for _, path := range []string{
		"edgar/data/320193/0000320193-25-000010.txt",
		"/edgar/data/320193/0000320193-25-000010.txt",
		"320193/0000320193-25-000010.txt",
	} {
		require.Equal(t,
			"https://www.sec.gov/Archives/edgar/data/320193/0000320193-25-000010.txt",
			svc.ArchiveURL(path), "path %q", path)
	}
}

func TestCompanyFeedURLStripsLeadingZeros(t *testing.T) {
	svc := NewService(nil)

	url := svc.CompanyFeedURL("0000320193")
	require.Contains(t, url, "CIK=320193&")
	require.Contains(t, url, "output=atom")
}
