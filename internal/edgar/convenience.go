package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// FilingBundle packages a filing with its parsed document index.
type FilingBundle struct {
	Filing        *Filing    `json:"filing_meta"`
	Documents     []Document `json:"documents"`
	DocumentCount int        `json:"document_count"`
	IndexURL      string     `json:"index_url"`
}

// FinancialSeries is time-series data for a set of XBRL tags.
type FinancialSeries struct {
	Ticker        string               `json:"ticker"`
	CIK           string               `json:"cik"`
	Series        map[string]TagSeries `json:"series"`
	TagsRequested []string             `json:"tags_requested"`
	TagsFound     []string             `json:"tags_found"`
}

// TagSeries holds the units and raw facts reported for one tag.
type TagSeries struct {
	Units []string        `json:"units"`
	Facts json.RawMessage `json:"facts"`
}

func (s *Service) resolveIdentity(ctx context.Context, ticker string) (*TickerIdentity, *Envelope, error) {
	resolved, err := s.ResolveTicker(ctx, ticker)
	if err != nil {
		return nil, nil, err
	}
	identity, ok := resolved.Data.(*TickerIdentity)
	if !ok || identity == nil {
		return nil, resolved, nil
	}
	return identity, resolved, nil
}

// LatestReport returns the most recent periodic report for a ticker,
// whichever of 10-Q and 10-K was filed last.
func (s *Service) LatestReport(ctx context.Context, ticker string) (*Envelope, error) {
	identity, resolved, err := s.resolveIdentity(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return resolved, nil
	}

	filings, err := s.RecentFilings(ctx, identity.CIK, FilingQuery{Forms: []string{"10-Q", "10-K"}, Limit: 1})
	if err != nil {
		return nil, err
	}

	urls := append(resolved.SourceURLs, filings.SourceURLs...)
	rows, _ := filings.Data.([]Filing)
	if len(rows) == 0 {
		return envelope(nil, urls...).warn("no 10-Q or 10-K filings found"), nil
	}

	return envelope(&rows[0], urls...), nil
}

// LatestCurrentReport returns the most recent 8-K for a ticker.
func (s *Service) LatestCurrentReport(ctx context.Context, ticker string) (*Envelope, error) {
	identity, resolved, err := s.resolveIdentity(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return resolved, nil
	}

	latest, err := s.LatestFiling(ctx, identity.CIK, "8-K")
	if err != nil {
		return nil, err
	}

	latest.SourceURLs = append(resolved.SourceURLs, latest.SourceURLs...)
	return latest, nil
}

// Bundle resolves a ticker, finds its latest filing of the given form,
// and parses the filing's document index into one result.
func (s *Service) Bundle(ctx context.Context, ticker, form string) (*Envelope, error) {
	identity, resolved, err := s.resolveIdentity(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return resolved, nil
	}

	latest, err := s.LatestFiling(ctx, identity.CIK, form)
	if err != nil {
		return nil, err
	}
	filing, ok := latest.Data.(*Filing)
	if !ok || filing == nil {
		latest.SourceURLs = append(resolved.SourceURLs, latest.SourceURLs...)
		return latest, nil
	}

	index, err := s.FilingIndexHTML(ctx, identity.CIK, filing.AccessionNumber)
	if err != nil {
		return nil, err
	}
	indexData := index.Data.(map[string]string)
	documents := ParseIndexDocuments(indexData["html"])

	urls := append(resolved.SourceURLs, latest.SourceURLs...)
	urls = append(urls, index.SourceURLs...)

	return envelope(&FilingBundle{
		Filing:        filing,
		Documents:     documents,
		DocumentCount: len(documents),
		IndexURL:      indexData["url"],
	}, urls...), nil
}

// Series fetches company concept data for each tag and aligns the
// results by tag. Tags that fail to resolve become warnings rather
// than failing the whole request.
func (s *Service) Series(ctx context.Context, ticker string, tags []string) (*Envelope, error) {
	identity, resolved, err := s.resolveIdentity(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return resolved, nil
	}

	series := &FinancialSeries{
		Ticker:        identity.Ticker,
		CIK:           identity.CIK,
		Series:        map[string]TagSeries{},
		TagsRequested: tags,
		TagsFound:     []string{},
	}

	result := envelope(series, resolved.SourceURLs...)
	for _, tag := range tags {
		concept, err := s.CompanyConcept(ctx, identity.CIK, "us-gaap", tag)
		if err != nil {
			result.warn(fmt.Sprintf("failed to get data for tag %q: %v", tag, err))
			continue
		}
		result.SourceURLs = append(result.SourceURLs, concept.SourceURLs...)

		raw, _ := concept.Data.(json.RawMessage)
		var doc struct {
			Units json.RawMessage `json:"units"`
		}
		var unitNames map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			result.warn(fmt.Sprintf("no data found for tag %q", tag))
			continue
		}
		if err := json.Unmarshal(doc.Units, &unitNames); err != nil || len(unitNames) == 0 {
			result.warn(fmt.Sprintf("no data found for tag %q", tag))
			continue
		}

		units := make([]string, 0, len(unitNames))
		for unit := range unitNames {
			units = append(units, unit)
		}
		sort.Strings(units)
		series.Series[tag] = TagSeries{Units: units, Facts: doc.Units}
		series.TagsFound = append(series.TagsFound, tag)
	}

	return result, nil
}
