package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/filinglens/filinglens/internal/secgov"
)

// TickerIdentity is the result of resolving a ticker symbol to its
// canonical EDGAR identifiers.
type TickerIdentity struct {
	Ticker      string `json:"ticker"`
	CIK         string `json:"cik"`
	CompanyName string `json:"company_name"`
}

// CompanyProfile is a normalized view of the company metadata carried
// in the submissions document.
type CompanyProfile struct {
	Ticker         string   `json:"ticker"`
	CIK            string   `json:"cik"`
	EntityName     string   `json:"entity_name"`
	FormerNames    []any    `json:"former_names"`
	Tickers        []string `json:"tickers"`
	Exchanges      []string `json:"exchanges"`
	SIC            string   `json:"sic"`
	SICDescription string   `json:"sic_description"`
	Addresses      any      `json:"addresses"`
	Category       string   `json:"filer_category"`
}

func (s *Service) tickerMapURL() string {
	return s.WWWBaseURL + "/files/company_tickers_exchange.json"
}

func (s *Service) submissionsURL(cik string) string {
	return s.DataBaseURL + "/submissions/CIK" + PadCIK(cik) + ".json"
}

// TickerMap fetches the full ticker-to-CIK mapping published by the SEC.
func (s *Service) TickerMap(ctx context.Context) (*Envelope, error) {
	url := s.tickerMapURL()

	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch ticker map: %w", err)
	}

	var raw json.RawMessage
	if err := resp.JSON(&raw); err != nil {
		return nil, fmt.Errorf("decode ticker map: %w", err)
	}

	return envelope(raw, url), nil
}

// ResolveTicker converts a ticker symbol to its 10-digit CIK. An
// unknown ticker is a warning, not an error.
func (s *Service) ResolveTicker(ctx context.Context, ticker string) (*Envelope, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	url := s.tickerMapURL()

	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch ticker map: %w", err)
	}

	identity, err := matchTicker(resp.Body, symbol)
	if err != nil {
		return nil, fmt.Errorf("decode ticker map: %w", err)
	}
	if identity == nil {
		return envelope(nil, url).warn(fmt.Sprintf("ticker %q not found in SEC database", ticker)), nil
	}

	return envelope(identity, url), nil
}

// Submissions fetches the raw submissions document for a CIK. It
// carries company metadata plus the most recent filings.
func (s *Service) Submissions(ctx context.Context, cik string) (*Envelope, error) {
	url := s.submissionsURL(cik)

	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch submissions: %w", err)
	}

	var raw json.RawMessage
	if err := resp.JSON(&raw); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	return envelope(raw, url), nil
}

// Profile resolves a ticker and folds its submissions metadata into a
// normalized company profile.
func (s *Service) Profile(ctx context.Context, ticker string) (*Envelope, error) {
	resolved, err := s.ResolveTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	identity, ok := resolved.Data.(*TickerIdentity)
	if !ok || identity == nil {
		return resolved, nil
	}

	url := s.submissionsURL(identity.CIK)
	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch submissions: %w", err)
	}

	var doc struct {
		Name           string   `json:"name"`
		FormerNames    []any    `json:"formerNames"`
		Tickers        []string `json:"tickers"`
		Exchanges      []string `json:"exchanges"`
		SIC            string   `json:"sic"`
		SICDescription string   `json:"sicDescription"`
		Addresses      any      `json:"addresses"`
		Category       string   `json:"category"`
	}
	if err := resp.JSON(&doc); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	entityName := doc.Name
	if entityName == "" {
		entityName = identity.CompanyName
	}
	tickers := doc.Tickers
	if len(tickers) == 0 {
		tickers = []string{identity.Ticker}
	}

	profile := &CompanyProfile{
		Ticker:         identity.Ticker,
		CIK:            identity.CIK,
		EntityName:     entityName,
		FormerNames:    doc.FormerNames,
		Tickers:        tickers,
		Exchanges:      doc.Exchanges,
		SIC:            doc.SIC,
		SICDescription: doc.SICDescription,
		Addresses:      doc.Addresses,
		Category:       doc.Category,
	}

	return envelope(profile, resolved.SourceURLs[0], url), nil
}

// matchTicker scans the ticker file for symbol. The current file is
// columnar ({"fields": [...], "data": [[...], ...]}); the legacy keyed
// object form is still accepted.
func matchTicker(body []byte, symbol string) (*TickerIdentity, error) {
	var columnar struct {
		Fields []string            `json:"fields"`
		Rows   [][]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &columnar); err == nil && len(columnar.Fields) > 0 {
		cikIdx, nameIdx, tickerIdx := fieldIndexes(columnar.Fields)
		for _, row := range columnar.Rows {
			if tickerIdx >= len(row) || cikIdx >= len(row) {
				continue
			}
			if !strings.EqualFold(rawString(row[tickerIdx]), symbol) {
				continue
			}
			identity := &TickerIdentity{Ticker: symbol, CIK: PadCIK(rawString(row[cikIdx]))}
			if nameIdx < len(row) {
				identity.CompanyName = rawString(row[nameIdx])
			}
			return identity, nil
		}
		return nil, nil
	}

	var legacy map[string]struct {
		CIK    json.Number `json:"cik_str"`
		Ticker string      `json:"ticker"`
		Title  string      `json:"title"`
	}
	if err := json.Unmarshal(body, &legacy); err != nil {
		return nil, err
	}
	for _, entry := range legacy {
		if strings.EqualFold(entry.Ticker, symbol) {
			return &TickerIdentity{
				Ticker:      symbol,
				CIK:         PadCIK(entry.CIK.String()),
				CompanyName: entry.Title,
			}, nil
		}
	}
	return nil, nil
}

func fieldIndexes(fields []string) (cik, name, ticker int) {
	cik, name, ticker = 0, 1, 2
	for i, field := range fields {
		switch field {
		case "cik":
			cik = i
		case "name":
			name = i
		case "ticker":
			ticker = i
		}
	}
	return cik, name, ticker
}

// rawString renders a raw JSON scalar as its text form, unquoting
// strings and passing numbers through.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}
