package edgar

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

const companyFactsDoc = `{
	"cik": 320193,
	"entityName": "Apple Inc.",
	"facts": {
		"dei": {
			"EntityCommonStockSharesOutstanding": {
				"units": {
					"shares": [
						{"end": "2024-10-18", "val": 15115823000, "fy": 2024, "fp": "FY", "form": "10-K", "filed": "2024-11-01", "accn": "0000320193-24-000123"}
					]
				}
			}
		},
		"us-gaap": {
			"Revenues": {
				"units": {
					"USD": [
						{"end": "2024-09-28", "val": 391035000000, "fy": 2024, "fp": "FY", "form": "10-K", "filed": "2024-11-01", "frame": "CY2024", "accn": "0000320193-24-000123"},
						{"end": "2024-12-28", "val": 124300000000, "fy": 2025, "fp": "Q1", "form": "10-Q", "filed": "2025-01-31", "accn": "0000320193-25-000010"}
					]
				}
			},
			"Assets": {
				"units": {
					"USD": [
						{"end": "2024-09-28", "val": 364980000000, "fy": 2024, "fp": "FY", "form": "10-K", "filed": "2024-11-01", "accn": "0000320193-24-000123"}
					]
				}
			}
		}
	}
}`

func TestCompanyFactsURL(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(companyFactsDoc))
	})
	svc := newTestService(t, mux)

	result, err := svc.CompanyFacts(context.Background(), "320193")
	require.NoError(t, err)
	require.Equal(t, "/api/xbrl/companyfacts/CIK0000320193.json", gotPath)
	require.NotNil(t, result.Data)
}

func TestCompanyConceptURL(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"units": {"USD": []}}`))
	})
	svc := newTestService(t, mux)

	_, err := svc.CompanyConcept(context.Background(), "320193", "us-gaap", "Revenues")
	require.NoError(t, err)
	require.Equal(t, "/api/xbrl/companyconcept/CIK0000320193/us-gaap/Revenues.json", gotPath)
}

func TestFramesURL(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data": []}`))
	})
	svc := newTestService(t, mux)

	_, err := svc.Frames(context.Background(), "us-gaap", "Revenues", "USD", "CY2024Q1")
	require.NoError(t, err)
	require.Equal(t, "/api/xbrl/frames/us-gaap/Revenues/USD/CY2024Q1.json", gotPath)
}

func TestListTaxonomies(t *testing.T) {
	taxonomies, err := ListTaxonomies([]byte(companyFactsDoc))
	require.NoError(t, err)
	require.Equal(t, []string{"dei", "us-gaap"}, taxonomies)
}

func TestListConcepts(t *testing.T) {
	concepts, err := ListConcepts([]byte(companyFactsDoc), "us-gaap")
	require.NoError(t, err)
	require.Equal(t, []string{"Assets", "Revenues"}, concepts)

	concepts, err = ListConcepts([]byte(companyFactsDoc), "ifrs-full")
	require.NoError(t, err)
	require.Empty(t, concepts)
}

func TestNormalizeFacts(t *testing.T) {
	table, err := NormalizeFacts([]byte(companyFactsDoc), "us-gaap")
	require.NoError(t, err)
	require.Equal(t, 3, table.Count)
	require.Equal(t, "us-gaap", table.Taxonomy)

	first := table.Rows[0]
	require.Equal(t, "Assets", first.Tag)
	require.Equal(t, "USD", first.Unit)
	require.Equal(t, 2024, first.FiscalYear)
	require.Equal(t, json.Number("364980000000"), first.Value)
	require.Equal(t, "0000320193-24-000123", first.Accession)
}

func TestFilterFacts(t *testing.T) {
	table, err := NormalizeFacts([]byte(companyFactsDoc), "us-gaap")
	require.NoError(t, err)

	byTag := FilterFacts(table.Rows, FactFilter{Tag: "Revenues"})
	require.Len(t, byTag, 2)

	byPeriod := FilterFacts(table.Rows, FactFilter{Tag: "Revenues", FiscalPeriod: "Q1"})
	require.Len(t, byPeriod, 1)
	require.Equal(t, "10-Q", byPeriod[0].Form)

	byDate := FilterFacts(table.Rows, FactFilter{End: "2024-09-28"})
	require.Len(t, byDate, 2)

	byRange := FilterFacts(table.Rows, FactFilter{End: "2024-10-01:2025-01-01"})
	require.Len(t, byRange, 1)
	require.Equal(t, "Revenues", byRange[0].Tag)

	none := FilterFacts(table.Rows, FactFilter{Unit: "shares"})
	require.Empty(t, none)
}
