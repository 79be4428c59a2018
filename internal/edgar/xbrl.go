package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/filinglens/filinglens/internal/secgov"
)

// FactRow is one normalized XBRL fact. Short field names follow the
// XBRL frames API so rows join back to filings via the accession
// number.
type FactRow struct {
	Tag          string      `json:"tag"`
	Unit         string      `json:"unit"`
	FiscalYear   int         `json:"fy"`
	FiscalPeriod string      `json:"fp"`
	End          string      `json:"end"`
	Value        json.Number `json:"val"`
	Form         string      `json:"form"`
	Filed        string      `json:"filed"`
	Frame        string      `json:"frame"`
	Accession    string      `json:"accn"`
}

// FactFilter narrows normalized fact rows. Zero-valued fields match
// everything.
type FactFilter struct {
	Tag          string
	FiscalPeriod string
	Form         string
	Unit         string
	// End selects a single end date (YYYY-MM-DD) or an inclusive range
	// (YYYY-MM-DD:YYYY-MM-DD).
	End string
}

// FactTable is the result of normalizing company facts for a taxonomy.
type FactTable struct {
	Taxonomy string    `json:"taxonomy"`
	Rows     []FactRow `json:"rows"`
	Count    int       `json:"count"`
}

func (s *Service) companyFactsURL(cik string) string {
	return s.DataBaseURL + "/api/xbrl/companyfacts/CIK" + PadCIK(cik) + ".json"
}

// CompanyFacts fetches the complete XBRL facts document for a company:
// every reported value across all taxonomies.
func (s *Service) CompanyFacts(ctx context.Context, cik string) (*Envelope, error) {
	url := s.companyFactsURL(cik)

	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch company facts: %w", err)
	}

	var raw json.RawMessage
	if err := resp.JSON(&raw); err != nil {
		return nil, fmt.Errorf("decode company facts: %w", err)
	}

	return envelope(raw, url), nil
}

// CompanyConcept fetches the time series for a single XBRL concept,
// e.g. every reported Revenues value for a company.
func (s *Service) CompanyConcept(ctx context.Context, cik, taxonomy, tag string) (*Envelope, error) {
	url := fmt.Sprintf("%s/api/xbrl/companyconcept/CIK%s/%s/%s.json", s.DataBaseURL, PadCIK(cik), taxonomy, tag)

	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch company concept: %w", err)
	}

	var raw json.RawMessage
	if err := resp.JSON(&raw); err != nil {
		return nil, fmt.Errorf("decode company concept: %w", err)
	}

	return envelope(raw, url), nil
}

// Frames fetches a cross-company frame: one concept across all
// reporting companies for a period such as CY2023 or CY2023Q1.
func (s *Service) Frames(ctx context.Context, taxonomy, tag, unit, period string) (*Envelope, error) {
	url := fmt.Sprintf("%s/api/xbrl/frames/%s/%s/%s/%s.json", s.DataBaseURL, taxonomy, tag, unit, period)

	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch frames: %w", err)
	}

	var raw json.RawMessage
	if err := resp.JSON(&raw); err != nil {
		return nil, fmt.Errorf("decode frames: %w", err)
	}

	return envelope(raw, url), nil
}

// factsDocument is the shape of a companyfacts payload: taxonomy ->
// tag -> units -> fact list.
type factsDocument struct {
	Facts map[string]map[string]struct {
		Units map[string][]FactRow `json:"units"`
	} `json:"facts"`
}

// ListTaxonomies extracts the taxonomy names present in a company
// facts document.
func ListTaxonomies(factsJSON []byte) ([]string, error) {
	var doc factsDocument
	if err := json.Unmarshal(factsJSON, &doc); err != nil {
		return nil, fmt.Errorf("decode company facts: %w", err)
	}

	taxonomies := make([]string, 0, len(doc.Facts))
	for name := range doc.Facts {
		taxonomies = append(taxonomies, name)
	}
	sort.Strings(taxonomies)
	return taxonomies, nil
}

// ListConcepts extracts the concept tags a company reports under one
// taxonomy.
func ListConcepts(factsJSON []byte, taxonomy string) ([]string, error) {
	var doc factsDocument
	if err := json.Unmarshal(factsJSON, &doc); err != nil {
		return nil, fmt.Errorf("decode company facts: %w", err)
	}

	tags := doc.Facts[taxonomy]
	concepts := make([]string, 0, len(tags))
	for name := range tags {
		concepts = append(concepts, name)
	}
	sort.Strings(concepts)
	return concepts, nil
}

// NormalizeFacts flattens a company facts document into tabular rows
// for one taxonomy.
func NormalizeFacts(factsJSON []byte, taxonomy string) (*FactTable, error) {
	var doc factsDocument
	if err := json.Unmarshal(factsJSON, &doc); err != nil {
		return nil, fmt.Errorf("decode company facts: %w", err)
	}

	rows := []FactRow{}
	tags := doc.Facts[taxonomy]
	tagNames := make([]string, 0, len(tags))
	for name := range tags {
		tagNames = append(tagNames, name)
	}
	sort.Strings(tagNames)

	for _, tag := range tagNames {
		units := tags[tag].Units
		unitNames := make([]string, 0, len(units))
		for name := range units {
			unitNames = append(unitNames, name)
		}
		sort.Strings(unitNames)

		for _, unit := range unitNames {
			for _, fact := range units[unit] {
				fact.Tag = tag
				fact.Unit = unit
				rows = append(rows, fact)
			}
		}
	}

	return &FactTable{Taxonomy: taxonomy, Rows: rows, Count: len(rows)}, nil
}

// FilterFacts returns the rows matching every set filter field.
func FilterFacts(rows []FactRow, filter FactFilter) []FactRow {
	var startEnd, stopEnd string
	if filter.End != "" {
		if start, stop, ok := strings.Cut(filter.End, ":"); ok {
			startEnd, stopEnd = start, stop
		} else {
			startEnd, stopEnd = filter.End, filter.End
		}
	}

	filtered := []FactRow{}
	for _, row := range rows {
		if filter.Tag != "" && row.Tag != filter.Tag {
			continue
		}
		if filter.FiscalPeriod != "" && row.FiscalPeriod != filter.FiscalPeriod {
			continue
		}
		if filter.Form != "" && row.Form != filter.Form {
			continue
		}
		if filter.Unit != "" && row.Unit != filter.Unit {
			continue
		}
		if filter.End != "" && (row.End < startEnd || row.End > stopEnd) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}
