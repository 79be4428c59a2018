package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/filinglens/filinglens/internal/edgar"
)

// TableFormatter renders envelopes as ASCII tables. Payload shapes
// without a table rendering fall back to indented JSON.
type TableFormatter struct{}

// FormatEnvelope renders an envelope as a table followed by any
// warnings and the source URLs the data came from.
func (f *TableFormatter) FormatEnvelope(env *edgar.Envelope) (string, error) {
	if env == nil {
		return "", nil
	}

	body, err := renderData(env.Data)
	if err != nil {
		return "", err
	}

	sections := []string{}
	if strings.TrimSpace(body) != "" {
		sections = append(sections, body)
	}
	if len(env.Warnings) > 0 {
		lines := make([]string, 0, len(env.Warnings))
		for _, warning := range env.Warnings {
			lines = append(lines, "warning: "+warning)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	if len(env.SourceURLs) > 0 {
		lines := make([]string, 0, len(env.SourceURLs))
		for _, url := range env.SourceURLs {
			lines = append(lines, "source: "+url)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n"), nil
}

func renderData(data any) (string, error) {
	switch v := data.(type) {
	case nil:
		return "", nil
	case *edgar.TickerIdentity:
		return renderKeyValues([][2]string{
			{"Ticker", v.Ticker},
			{"CIK", v.CIK},
			{"Company", v.CompanyName},
		}), nil
	case *edgar.CompanyProfile:
		return renderProfile(v), nil
	case *edgar.Filing:
		if v == nil {
			return "", nil
		}
		return renderFilings([]edgar.Filing{*v}), nil
	case []edgar.Filing:
		return renderFilings(v), nil
	case edgar.FactTable:
		return renderFactTable(&v), nil
	case *edgar.FactTable:
		return renderFactTable(v), nil
	case []edgar.IndexRow:
		return renderIndexRows(v), nil
	case []edgar.FeedItem:
		return renderFeedItems(v), nil
	case []edgar.FeedFiling:
		return renderFeedFilings(v), nil
	case []edgar.Document:
		return renderDocuments(v), nil
	case []edgar.DocumentMatch:
		docs := make([]edgar.Document, 0, len(v))
		for _, match := range v {
			docs = append(docs, match.Document)
		}
		return renderDocuments(docs), nil
	case *edgar.FilingBundle:
		return renderBundle(v), nil
	case *edgar.FinancialSeries:
		return renderSeries(v), nil
	default:
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

func newWriter() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func renderKeyValues(pairs [][2]string) string {
	t := newWriter()
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, pair := range pairs {
		if pair[1] == "" {
			continue
		}
		t.AppendRow(table.Row{pair[0], pair[1]})
	}
	return t.Render()
}

func renderProfile(profile *edgar.CompanyProfile) string {
	if profile == nil {
		return ""
	}
	return renderKeyValues([][2]string{
		{"Ticker", profile.Ticker},
		{"CIK", profile.CIK},
		{"Entity", profile.EntityName},
		{"Tickers", strings.Join(profile.Tickers, ", ")},
		{"Exchanges", strings.Join(profile.Exchanges, ", ")},
		{"SIC", profile.SIC},
		{"Industry", profile.SICDescription},
		{"Category", profile.Category},
	})
}

func renderFilings(filings []edgar.Filing) string {
	t := newWriter()
	t.AppendHeader(table.Row{"Form", "Filed", "Report Date", "Accession", "Primary Document"})
	for _, filing := range filings {
		t.AppendRow(table.Row{
			filing.Form,
			filing.FilingDate,
			filing.ReportDate,
			filing.AccessionNumber,
			filing.PrimaryDocument,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%d filings", len(filings))})
	return t.Render()
}

func renderFactTable(facts *edgar.FactTable) string {
	if facts == nil {
		return ""
	}
	t := newWriter()
	t.AppendHeader(table.Row{"Tag", "Unit", "FY", "FP", "End", "Value", "Form"})
	for _, row := range facts.Rows {
		t.AppendRow(table.Row{
			row.Tag,
			row.Unit,
			row.FiscalYear,
			row.FiscalPeriod,
			row.End,
			row.Value.String(),
			row.Form,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", fmt.Sprintf("%d facts", facts.Count)})
	return t.Render()
}

func renderIndexRows(rows []edgar.IndexRow) string {
	t := newWriter()
	t.AppendHeader(table.Row{"CIK", "Company", "Form", "Date Filed", "Path"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.CIK, row.CompanyName, row.FormType, row.DateFiled, row.EdgarPath})
	}
	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%d entries", len(rows))})
	return t.Render()
}

func renderFeedItems(items []edgar.FeedItem) string {
	t := newWriter()
	t.AppendHeader(table.Row{"Published", "Title", "Link"})
	for _, item := range items {
		t.AppendRow(table.Row{item.Published, item.Title, item.Link})
	}
	return t.Render()
}

func renderFeedFilings(filings []edgar.FeedFiling) string {
	t := newWriter()
	t.AppendHeader(table.Row{"Form", "CIK", "Accession", "Published", "Title"})
	for _, filing := range filings {
		t.AppendRow(table.Row{filing.Form, filing.CIK, filing.Accession, filing.Published, filing.Title})
	}
	return t.Render()
}

func renderDocuments(docs []edgar.Document) string {
	t := newWriter()
	t.AppendHeader(table.Row{"Type", "Filename", "Description"})
	for _, doc := range docs {
		t.AppendRow(table.Row{doc.Type, doc.Filename, doc.Description})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d documents", len(docs))})
	return t.Render()
}

func renderBundle(bundle *edgar.FilingBundle) string {
	if bundle == nil {
		return ""
	}
	sections := []string{}
	if bundle.Filing != nil {
		sections = append(sections, renderFilings([]edgar.Filing{*bundle.Filing}))
	}
	if len(bundle.Documents) > 0 {
		sections = append(sections, renderDocuments(bundle.Documents))
	}
	if bundle.IndexURL != "" {
		sections = append(sections, "index: "+bundle.IndexURL)
	}
	return strings.Join(sections, "\n")
}

func renderSeries(series *edgar.FinancialSeries) string {
	if series == nil {
		return ""
	}
	t := newWriter()
	t.AppendHeader(table.Row{"Tag", "Units", "Found"})
	for _, tag := range series.TagsRequested {
		entry, ok := series.Series[tag]
		found := "no"
		units := ""
		if ok {
			found = "yes"
			units = strings.Join(entry.Units, ", ")
		}
		t.AppendRow(table.Row{tag, units, found})
	}
	header := fmt.Sprintf("%s (CIK %s)", series.Ticker, series.CIK)
	return header + "\n" + t.Render()
}
