package edgar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// IndexRow is one filing entry from a master index file.
type IndexRow struct {
	CIK         string `json:"cik"`
	CompanyName string `json:"company_name"`
	FormType    string `json:"form_type"`
	DateFiled   string `json:"date_filed"`
	EdgarPath   string `json:"edgar_path"`
}

// IndexRowFilter narrows master index rows. Zero-valued fields match
// everything.
type IndexRowFilter struct {
	CIK   string
	Forms []string
}

func (s *Service) dailyIndexBaseURL() string {
	return s.WWWBaseURL + "/Archives/edgar/daily-index"
}

// DailyIndexPaths enumerates the likely master index file URLs for a
// year, or for one quarter of it when quarter is 1 through 4.
func (s *Service) DailyIndexPaths(year, quarter int) []string {
	base := s.dailyIndexBaseURL()

	quarters := []int{1, 2, 3, 4}
	if quarter >= 1 && quarter <= 4 {
		quarters = []int{quarter}
	}

	var paths []string
	for _, q := range quarters {
		for month := (q-1)*3 + 1; month <= q*3; month++ {
			prefix := fmt.Sprintf("%s/%d/QTR%d/master.%02d.idx", base, year, q, month)
			paths = append(paths, prefix, prefix+".gz")
		}
	}
	return paths
}

// DownloadDailyMasterIndex downloads the master index covering the
// given date (YYYY-MM-DD) to destPath, trying the plain and gzipped
// variants in order.
func (s *Service) DownloadDailyMasterIndex(ctx context.Context, date, destPath string) (*Envelope, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return envelope(nil).warn(fmt.Sprintf("invalid date %q, use YYYY-MM-DD", date)), nil
	}

	quarter := (int(day.Month())-1)/3 + 1
	prefix := fmt.Sprintf("%s/%d/QTR%d/master.%02d.idx", s.dailyIndexBaseURL(), day.Year(), quarter, int(day.Month()))
	candidates := []string{prefix, prefix + ".gz"}

	for _, url := range candidates {
		path, err := s.Client.Download(ctx, url, destPath, false)
		if err != nil {
			continue
		}
		return envelope(map[string]string{
			"downloaded_path": path,
			"url":             url,
			"date":            date,
		}, url), nil
	}

	result := envelope(nil, candidates...)
	return result.warn(fmt.Sprintf("failed to download master index for %s from any candidate URL", date)), nil
}

// ParseMasterIndex reads a master index stream and extracts its filing
// rows. The format is a preamble, a pipe-separated header line starting
// with CIK, a separator, then one pipe-separated row per filing.
func ParseMasterIndex(r io.Reader) ([]IndexRow, error) {
	rows := []IndexRow{}
	inData := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(latin1String(scanner.Bytes()))
		if line == "" {
			continue
		}

		if !inData {
			if strings.Contains(line, "|") && strings.Contains(strings.ToUpper(line), "CIK") {
				inData = true
			}
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			continue
		}
		row := IndexRow{
			CIK:         strings.TrimSpace(parts[0]),
			CompanyName: strings.TrimSpace(parts[1]),
			FormType:    strings.TrimSpace(parts[2]),
			DateFiled:   strings.TrimSpace(parts[3]),
		}
		if len(parts) > 4 {
			row.EdgarPath = strings.TrimSpace(parts[4])
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read master index: %w", err)
	}

	return rows, nil
}

// FilterIndexRows returns the rows matching every set filter field.
// CIK values compare after zero-padding, so "320193" matches
// "0000320193".
func FilterIndexRows(rows []IndexRow, filter IndexRowFilter) []IndexRow {
	wantCIK := ""
	if filter.CIK != "" {
		wantCIK = PadCIK(filter.CIK)
	}

	filtered := []IndexRow{}
	for _, row := range rows {
		if wantCIK != "" && PadCIK(row.CIK) != wantCIK {
			continue
		}
		if len(filter.Forms) > 0 && !matchesFormsFold(row.FormType, filter.Forms) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

func matchesFormsFold(form string, forms []string) bool {
	for _, want := range forms {
		if strings.EqualFold(form, want) {
			return true
		}
	}
	return false
}

// latin1String decodes ISO-8859-1 bytes, the encoding EDGAR index
// files are published in. Each byte maps directly to the same rune.
func latin1String(b []byte) string {
	for _, c := range b {
		if c >= 0x80 {
			runes := make([]rune, len(b))
			for i, c := range b {
				runes[i] = rune(c)
			}
			return string(runes)
		}
	}
	return string(b)
}
