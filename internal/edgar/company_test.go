package edgar

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

const tickerFileColumnar = `{
	"fields": ["cik", "name", "ticker", "exchange"],
	"data": [
		[320193, "Apple Inc.", "AAPL", "Nasdaq"],
		[789019, "MICROSOFT CORP", "MSFT", "Nasdaq"]
	]
}`

const submissionsDoc = `{
	"cik": 320193,
	"name": "Apple Inc.",
	"tickers": ["AAPL"],
	"exchanges": ["Nasdaq"],
	"sic": "3571",
	"sicDescription": "Electronic Computers",
	"category": "Large accelerated filer",
	"filings": {
		"recent": {
			"accessionNumber": ["0000320193-25-000010", "0000320193-24-000123", "0000320193-24-000081"],
			"form": ["10-Q", "10-K", "8-K"],
			"filingDate": ["2025-01-31", "2024-11-01", "2024-08-01"],
			"reportDate": ["2024-12-28", "2024-09-28", "2024-08-01"],
			"acceptanceDateTime": ["2025-01-31T16:30:00.000Z", "2024-11-01T16:30:00.000Z", "2024-08-01T16:30:00.000Z"],
			"primaryDocument": ["aapl-20241228.htm", "aapl-20240928.htm", "aapl-20240801.htm"]
		}
	}
}`

func newCompanyHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers_exchange.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tickerFileColumnar))
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(submissionsDoc))
	})
	return mux
}

func TestResolveTicker(t *testing.T) {
	svc := newTestService(t, newCompanyHandler())

	result, err := svc.ResolveTicker(context.Background(), "aapl")
	require.NoError(t, err)
	require.Empty(t, result.Warnings)

	identity := result.Data.(*TickerIdentity)
	require.Equal(t, "AAPL", identity.Ticker)
	require.Equal(t, "0000320193", identity.CIK)
	require.Equal(t, "Apple Inc.", identity.CompanyName)
}

func TestResolveTickerUnknownIsWarning(t *testing.T) {
	svc := newTestService(t, newCompanyHandler())

	result, err := svc.ResolveTicker(context.Background(), "NOPE")
	require.NoError(t, err)
	require.Nil(t, result.Data)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], "NOPE")
}

func TestResolveTickerLegacyFileFormat(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers_exchange.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."}}`))
	})
	svc := newTestService(t, mux)

	result, err := svc.ResolveTicker(context.Background(), "AAPL")
	require.NoError(t, err)

	identity := result.Data.(*TickerIdentity)
	require.Equal(t, "0000320193", identity.CIK)
	require.Equal(t, "Apple Inc.", identity.CompanyName)
}

func TestProfile(t *testing.T) {
	svc := newTestService(t, newCompanyHandler())

	result, err := svc.Profile(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, result.SourceURLs, 2)

	profile := result.Data.(*CompanyProfile)
	require.Equal(t, "0000320193", profile.CIK)
	require.Equal(t, "Apple Inc.", profile.EntityName)
	require.Equal(t, "3571", profile.SIC)
	require.Equal(t, []string{"AAPL"}, profile.Tickers)
	require.Equal(t, "Large accelerated filer", profile.Category)
}

func TestProfileUnknownTicker(t *testing.T) {
	svc := newTestService(t, newCompanyHandler())

	result, err := svc.Profile(context.Background(), "NOPE")
	require.NoError(t, err)
	require.Nil(t, result.Data)
	require.NotEmpty(t, result.Warnings)
}

func TestSubmissionsRawDocument(t *testing.T) {
	svc := newTestService(t, newCompanyHandler())

	result, err := svc.Submissions(context.Background(), "320193")
	require.NoError(t, err)
	require.Len(t, result.SourceURLs, 1)
	require.Contains(t, result.SourceURLs[0], "/submissions/CIK0000320193.json")
	require.JSONEq(t, submissionsDoc, string(result.Data.(json.RawMessage)))
}
