package edgar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/filinglens/filinglens/internal/secgov"
)

const defaultFilingLimit = 100

// Filing is one row of normalized filing metadata. Field names follow
// the submissions API so rows join cleanly with other EDGAR data.
type Filing struct {
	Form               string `json:"form"`
	FilingDate         string `json:"filingDate"`
	ReportDate         string `json:"reportDate"`
	AcceptanceDateTime string `json:"acceptanceDateTime"`
	AccessionNumber    string `json:"accessionNumber"`
	PrimaryDocument    string `json:"primaryDocument"`
}

// FilingQuery narrows RecentFilings results.
type FilingQuery struct {
	// Forms restricts results to these form types when non-empty.
	Forms []string
	// Limit caps the number of rows; zero or negative selects the
	// default of 100.
	Limit int
}

// submissionsRecent mirrors the columnar layout of the submissions
// document: parallel arrays indexed by filing.
type submissionsRecent struct {
	AccessionNumber    []string `json:"accessionNumber"`
	Form               []string `json:"form"`
	FilingDate         []string `json:"filingDate"`
	ReportDate         []string `json:"reportDate"`
	AcceptanceDateTime []string `json:"acceptanceDateTime"`
	PrimaryDocument    []string `json:"primaryDocument"`
}

func (r *submissionsRecent) filing(i int) Filing {
	at := func(values []string) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}
	return Filing{
		Form:               at(r.Form),
		FilingDate:         at(r.FilingDate),
		ReportDate:         at(r.ReportDate),
		AcceptanceDateTime: at(r.AcceptanceDateTime),
		AccessionNumber:    r.AccessionNumber[i],
		PrimaryDocument:    at(r.PrimaryDocument),
	}
}

func (s *Service) fetchRecent(ctx context.Context, cik string) (*submissionsRecent, string, error) {
	url := s.submissionsURL(cik)

	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, url, fmt.Errorf("fetch submissions: %w", err)
	}

	var doc struct {
		Filings struct {
			Recent submissionsRecent `json:"recent"`
		} `json:"filings"`
	}
	if err := resp.JSON(&doc); err != nil {
		return nil, url, fmt.Errorf("decode submissions: %w", err)
	}

	return &doc.Filings.Recent, url, nil
}

// RecentFilings lists a company's most recent filings, optionally
// filtered by form type. The submissions API carries roughly the 1000
// most recent filings.
func (s *Service) RecentFilings(ctx context.Context, cik string, query FilingQuery) (*Envelope, error) {
	recent, url, err := s.fetchRecent(ctx, cik)
	if err != nil {
		return nil, err
	}
	if len(recent.AccessionNumber) == 0 {
		return envelope([]Filing{}, url).warn("no filings found in submissions data"), nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultFilingLimit
	}

	filings := make([]Filing, 0, limit)
	for i := range recent.AccessionNumber {
		filing := recent.filing(i)
		if !matchesForms(filing.Form, query.Forms) {
			continue
		}
		filings = append(filings, filing)
		if len(filings) >= limit {
			break
		}
	}

	return envelope(filings, url), nil
}

// LatestFiling returns the most recent filing of the given form type,
// chosen by filing date.
func (s *Service) LatestFiling(ctx context.Context, cik, form string) (*Envelope, error) {
	formUpper := strings.ToUpper(strings.TrimSpace(form))

	recent, url, err := s.fetchRecent(ctx, cik)
	if err != nil {
		return nil, err
	}
	if len(recent.AccessionNumber) == 0 {
		return envelope(nil, url).warn("no filings found in submissions data"), nil
	}

	var latest *Filing
	for i := range recent.AccessionNumber {
		filing := recent.filing(i)
		if filing.Form != formUpper || filing.FilingDate == "" {
			continue
		}
		if latest == nil || filing.FilingDate > latest.FilingDate {
			f := filing
			latest = &f
		}
	}
	if latest == nil {
		return envelope(nil, url).warn(fmt.Sprintf("no %s filings found for this company", formUpper)), nil
	}

	return envelope(latest, url), nil
}

// FilingsByDateRange lists filings whose filing date falls within
// [start, end], optionally filtered by form type. Dates are YYYY-MM-DD.
func (s *Service) FilingsByDateRange(ctx context.Context, cik, startDate, endDate string, forms []string) (*Envelope, error) {
	url := s.submissionsURL(cik)

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return envelope([]Filing{}, url).warn(fmt.Sprintf("invalid start date %q, use YYYY-MM-DD", startDate)), nil
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return envelope([]Filing{}, url).warn(fmt.Sprintf("invalid end date %q, use YYYY-MM-DD", endDate)), nil
	}
	if start.After(end) {
		return envelope([]Filing{}, url).warn("start date must be before or equal to end date"), nil
	}

	recent, url, err := s.fetchRecent(ctx, cik)
	if err != nil {
		return nil, err
	}
	if len(recent.AccessionNumber) == 0 {
		return envelope([]Filing{}, url).warn("no filings found in submissions data"), nil
	}

	filings := []Filing{}
	for i := range recent.AccessionNumber {
		filing := recent.filing(i)
		if !matchesForms(filing.Form, forms) {
			continue
		}
		filed, err := time.Parse("2006-01-02", filing.FilingDate)
		if err != nil {
			continue
		}
		if filed.Before(start) || filed.After(end) {
			continue
		}
		filings = append(filings, filing)
	}

	return envelope(filings, url), nil
}

func matchesForms(form string, forms []string) bool {
	if len(forms) == 0 {
		return true
	}
	for _, want := range forms {
		if form == want {
			return true
		}
	}
	return false
}
