package edgar

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/filinglens/filinglens/internal/secgov"
)

// FeedItem is one entry of a filings feed, normalized across the Atom
// and RSS forms.
type FeedItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Published   string `json:"pubDate"`
	Description string `json:"description"`
}

// FeedFiling is filing metadata extracted from a feed item.
type FeedFiling struct {
	CIK       string `json:"cik"`
	Accession string `json:"accession"`
	Form      string `json:"form"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"pubDate"`
}

// CompanyFeedURL returns the Atom feed URL for a company's filings.
// browse-edgar takes the CIK without leading zeros.
func (s *Service) CompanyFeedURL(cik string) string {
	numeric := strings.TrimLeft(PadCIK(cik), "0")
	if numeric == "" {
		numeric = "0"
	}
	return s.WWWBaseURL + "/cgi-bin/browse-edgar?action=getcompany&CIK=" + numeric +
		"&type=&dateb=&owner=exclude&count=40&output=atom"
}

type atomFeed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []struct {
		Title string `xml:"title"`
		Link  struct {
			Href string `xml:"href,attr"`
		} `xml:"link"`
		Published string `xml:"published"`
		Updated   string `xml:"updated"`
		Summary   string `xml:"summary"`
	} `xml:"entry"`
}

type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Items   []struct {
		Title       string `xml:"title"`
		Link        string `xml:"link"`
		PubDate     string `xml:"pubDate"`
		Description string `xml:"description"`
	} `xml:"channel>item"`
}

// FetchFeed fetches and parses a filings feed. SEC feeds are Atom;
// plain RSS 2.0 is accepted as well.
func (s *Service) FetchFeed(ctx context.Context, url string) (*Envelope, error) {
	resp, err := s.Client.Fetch(ctx, url, secgov.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	items, err := parseFeed(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	result := envelope(items, url)
	if len(items) == 0 {
		result.warn("no items found in feed")
	}
	return result, nil
}

func parseFeed(body []byte) ([]FeedItem, error) {
	var atom atomFeed
	if err := xml.Unmarshal(body, &atom); err == nil {
		items := make([]FeedItem, 0, len(atom.Entries))
		for _, entry := range atom.Entries {
			published := entry.Published
			if published == "" {
				published = entry.Updated
			}
			items = append(items, FeedItem{
				Title:       strings.TrimSpace(entry.Title),
				Link:        entry.Link.Href,
				Published:   strings.TrimSpace(published),
				Description: strings.TrimSpace(entry.Summary),
			})
		}
		return items, nil
	}

	var rss rssFeed
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(rss.Items))
	for _, item := range rss.Items {
		items = append(items, FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Published:   strings.TrimSpace(item.PubDate),
			Description: strings.TrimSpace(item.Description),
		})
	}
	return items, nil
}

var (
	feedArchiveRe = regexp.MustCompile(`/Archives/edgar/data/(\d+)/([^/]+)/`)
	feedForms     = []string{"10-Q", "10-K", "8-K", "20-F", "6-K", "DEF 14A", "S-1"}
)

// FeedFilings extracts filing metadata from feed items: the CIK and
// accession number from archive links, and the form type from titles
// and descriptions. Items carrying none of these are dropped.
func FeedFilings(items []FeedItem) []FeedFiling {
	filings := []FeedFiling{}
	for _, item := range items {
		var filing FeedFiling

		if m := feedArchiveRe.FindStringSubmatch(item.Link); m != nil {
			filing.CIK = PadCIK(m[1])
			filing.Accession = m[2]
		}
		for _, form := range feedForms {
			if strings.Contains(item.Title, form) || strings.Contains(item.Description, form) {
				filing.Form = form
				break
			}
		}

		if filing.CIK == "" && filing.Accession == "" && filing.Form == "" {
			continue
		}
		filing.Title = item.Title
		filing.Link = item.Link
		filing.Published = item.Published
		filings = append(filings, filing)
	}
	return filings
}
