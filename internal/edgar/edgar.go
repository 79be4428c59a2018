// Package edgar provides query operations over the SEC's EDGAR and XBRL
// APIs. All operations go through a shared secgov.Client so rate
// limiting, caching, and retries apply uniformly.
package edgar

import (
	"strings"

	"github.com/filinglens/filinglens/internal/secgov"
)

const (
	// DefaultDataBaseURL serves the structured JSON APIs (submissions,
	// XBRL facts, concepts, frames).
	DefaultDataBaseURL = "https://data.sec.gov"
	// DefaultWWWBaseURL serves the ticker files, filing archives, index
	// files, and browse-edgar feeds.
	DefaultWWWBaseURL = "https://www.sec.gov"
)

// Service wraps a shared HTTP client with EDGAR-specific operations.
// Base URLs are overridable for tests.
type Service struct {
	Client      *secgov.Client
	DataBaseURL string
	WWWBaseURL  string
}

// NewService builds a service around client with production base URLs.
func NewService(client *secgov.Client) *Service {
	return &Service{
		Client:      client,
		DataBaseURL: DefaultDataBaseURL,
		WWWBaseURL:  DefaultWWWBaseURL,
	}
}

// Envelope is the uniform result shape for every operation. Data holds
// the operation-specific payload, SourceURLs lists every URL consulted,
// and Warnings records recoverable problems such as lookup misses.
type Envelope struct {
	Data       any      `json:"data"`
	SourceURLs []string `json:"source_urls"`
	Warnings   []string `json:"warnings"`
}

func envelope(data any, urls ...string) *Envelope {
	if urls == nil {
		urls = []string{}
	}
	return &Envelope{Data: data, SourceURLs: urls, Warnings: []string{}}
}

func (e *Envelope) warn(msg string) *Envelope {
	e.Warnings = append(e.Warnings, msg)
	return e
}

// PadCIK left-pads a CIK to the canonical 10-digit form.
func PadCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}

// StripAccessionDashes converts a dashed accession number to the
// no-dash form used in archive folder paths.
func StripAccessionDashes(accession string) string {
	return strings.ReplaceAll(accession, "-", "")
}
