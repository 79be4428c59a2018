package edgar

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/filinglens/filinglens/internal/secgov"
)

// Document is one document listed on a filing's index page.
type Document struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
	Type        string `json:"type"`
	URL         string `json:"url"`
}

// DocumentMatch pairs a document with the preferred type it satisfied.
type DocumentMatch struct {
	Document    Document `json:"document"`
	MatchedType string   `json:"matched_type"`
}

// FilingIndexHTML fetches the raw HTML of a filing's index page.
func (s *Service) FilingIndexHTML(ctx context.Context, cik, accession string) (*Envelope, error) {
	url := s.FilingIndexURL(cik, accession)

	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch filing index: %w", err)
	}

	return envelope(map[string]string{
		"html": string(resp.Body),
		"url":  url,
	}, url), nil
}

// CompleteSubmissionText fetches the filing's complete submission text
// file, a single file holding the whole filing. Useful as a fallback
// when index parsing comes up empty.
func (s *Service) CompleteSubmissionText(ctx context.Context, cik, accession string) (*Envelope, error) {
	url := s.CompleteSubmissionURL(cik, accession)

	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch submission text: %w", err)
	}

	return envelope(map[string]any{
		"text":   string(resp.Body),
		"url":    url,
		"length": len(resp.Body),
	}, url), nil
}

// DownloadDocument downloads a single filing document to destPath,
// reusing an existing file at that path.
func (s *Service) DownloadDocument(ctx context.Context, docURL, destPath string) (*Envelope, error) {
	path, err := s.Client.Download(ctx, docURL, destPath, true)
	if err != nil {
		return nil, fmt.Errorf("download document: %w", err)
	}

	data := map[string]any{
		"downloaded_path": path,
		"url":             docURL,
	}
	if info, err := os.Stat(path); err == nil {
		data["file_size"] = info.Size()
	}

	return envelope(data, docURL), nil
}

var (
	baseHrefRe = regexp.MustCompile(`(?i)<base\s+href="([^"]+)"`)
	docLinkRe  = regexp.MustCompile(`(?i)<a\s+href="([^"]+\.(?:txt|html|htm|xml|pdf))"[^>]*>([^<]+)</a>`)
	exhibitRe  = regexp.MustCompile(`(?i)EX-(\d+\.\d+)`)
)

// ParseIndexDocuments extracts the document list from a filing index
// page. Document types are inferred from filenames and descriptions.
func ParseIndexDocuments(indexHTML string) []Document {
	baseURL := ""
	if m := baseHrefRe.FindStringSubmatch(indexHTML); m != nil {
		baseURL = strings.TrimRight(m[1], "/")
	}

	documents := []Document{}
	for _, m := range docLinkRe.FindAllStringSubmatch(indexHTML, -1) {
		href := m[1]
		description := strings.TrimSpace(m[2])

		filename := href
		if i := strings.LastIndex(href, "/"); i >= 0 {
			filename = href[i+1:]
		}

		fullURL := href
		if !strings.HasPrefix(href, "http") && baseURL != "" {
			fullURL = baseURL + "/" + strings.TrimLeft(href, "/")
		}

		documents = append(documents, Document{
			Filename:    filename,
			Description: description,
			Type:        classifyDocument(filename, description),
			URL:         fullURL,
		})
	}
	return documents
}

func classifyDocument(filename, description string) string {
	upperName := strings.ToUpper(filename)
	upperDesc := strings.ToUpper(description)

	switch {
	case strings.Contains(upperDesc, "10-Q") || strings.Contains(upperName, "10-Q"):
		return "10-Q"
	case strings.Contains(upperDesc, "10-K") || strings.Contains(upperName, "10-K"):
		return "10-K"
	case strings.Contains(upperDesc, "8-K") || strings.Contains(upperName, "8-K"):
		return "8-K"
	case strings.Contains(upperName, "EX-"):
		if m := exhibitRe.FindStringSubmatch(filename); m != nil {
			return "EX-" + m[1]
		}
	case strings.HasSuffix(upperName, ".XML"):
		return "XML"
	case strings.HasSuffix(upperName, ".TXT"):
		return "TXT"
	}
	return "Unknown"
}

// FindDocuments returns the documents matching any of the preferred
// types, checking type, filename, and description. Each document
// matches at most once, against the first type that fits.
func FindDocuments(documents []Document, preferredTypes []string) []DocumentMatch {
	matches := []DocumentMatch{}
	for _, doc := range documents {
		haystack := strings.ToUpper(doc.Type + " " + doc.Filename + " " + doc.Description)
		for _, preferred := range preferredTypes {
			if strings.Contains(haystack, strings.ToUpper(preferred)) {
				matches = append(matches, DocumentMatch{Document: doc, MatchedType: strings.ToUpper(preferred)})
				break
			}
		}
	}
	return matches
}
