// Package reporter writes crawl results to disk. Two artifacts are
// produced: the per-page link listing and the site-wide unique link
// listing, as JSON or CSV.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rodaine/table"

	"github.com/linkmapper/linkmapper/internal/models"
)

// Format selects the on-disk encoding of both artifacts.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const (
	perPageBasename = "links_by_page"
	uniqueBasename  = "all_links"
)

// Sink receives the finished crawl report. The two writes are independent
// and correspond to the two output artifacts.
type Sink interface {
	WritePerPageLinks(report *models.CrawlReport) error
	WriteUniqueLinks(report *models.CrawlReport) error
}

// Reporter writes report artifacts into a directory.
type Reporter struct {
	dir    string
	format Format
}

func New(dir string, format Format) (*Reporter, error) {
	switch format {
	case FormatJSON, FormatCSV:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Reporter{dir: dir, format: format}, nil
}

// pageRecord is one page's entry in the per-page artifact.
type pageRecord struct {
	Page    string   `json:"page"`
	Fetched bool     `json:"fetched"`
	Error   string   `json:"error,omitempty"`
	Links   []string `json:"links"`
}

// pageRow is one link occurrence in the per-page CSV. The page cell is
// only filled on a page's first row, matching the summary-table layout.
type pageRow struct {
	Page    string `csv:"page,omitempty"`
	Fetched string `csv:"fetched,omitempty"`
	Error   string `csv:"error,omitempty"`
	Link    string `csv:"link"`
}

type linkRow struct {
	Link string `csv:"link"`
}

// WritePerPageLinks writes the per-page link listing, one entry per
// visited page sorted by URL. Failed pages appear with no links and their
// failure reason.
func (r *Reporter) WritePerPageLinks(report *models.CrawlReport) error {
	records := perPageRecords(report)

	switch r.format {
	case FormatCSV:
		var rows []pageRow
		for _, rec := range records {
			fetched := "false"
			if rec.Fetched {
				fetched = "true"
			}
			if len(rec.Links) == 0 {
				rows = append(rows, pageRow{Page: rec.Page, Fetched: fetched, Error: rec.Error})
				continue
			}
			for i, link := range rec.Links {
				if i == 0 {
					rows = append(rows, pageRow{Page: rec.Page, Fetched: fetched, Error: rec.Error, Link: link})
				} else {
					rows = append(rows, pageRow{Link: link})
				}
			}
		}
		return r.writeCSV(perPageBasename, &rows)
	default:
		return r.writeJSON(perPageBasename, records)
	}
}

// WriteUniqueLinks writes the sorted listing of every distinct link
// discovered across the site.
func (r *Reporter) WriteUniqueLinks(report *models.CrawlReport) error {
	if r.format == FormatCSV {
		rows := make([]linkRow, 0, len(report.UniqueLinks))
		for _, link := range report.UniqueLinks {
			rows = append(rows, linkRow{Link: link})
		}
		return r.writeCSV(uniqueBasename, &rows)
	}
	return r.writeJSON(uniqueBasename, report.UniqueLinks)
}

// PrintSummary writes a human-readable crawl summary table.
func PrintSummary(w io.Writer, report *models.CrawlReport) {
	tbl := table.New("Seed", "Pages fetched", "Pages failed", "Unique links", "Elapsed").WithWriter(w)
	tbl.AddRow(report.Seed, report.PagesFetched, report.PagesFailed, len(report.UniqueLinks), report.Elapsed.Round(time.Millisecond))
	tbl.Print()
}

func perPageRecords(report *models.CrawlReport) []pageRecord {
	records := make([]pageRecord, 0, len(report.Pages))
	for _, page := range report.Pages {
		records = append(records, pageRecord{
			Page:    page.URL,
			Fetched: page.Fetched,
			Error:   page.Error,
			Links:   page.Links,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Page < records[j].Page })
	return records
}

func (r *Reporter) writeJSON(basename string, v any) error {
	path := filepath.Join(r.dir, basename+".json")
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", basename, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (r *Reporter) writeCSV(basename string, rows any) error {
	path := filepath.Join(r.dir, basename+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
