// Package report turns a collected repository into one of the output
// artifacts, and owns the fallback that guarantees the artifact exists.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/reillywatson/prcomments/internal/export"
	"github.com/reillywatson/prcomments/internal/github"
)

const (
	CountsFile     = "comment_counts.json"
	ListFile       = "comments_list.json"
	CSVExportFile  = "pr_comments_export.csv"
	JSONExportFile = "pr_comments_export.json"
)

// Mode writes one artifact from a collection. Export must accept an empty
// Collection and still produce a well-formed artifact.
type Mode interface {
	Name() string
	Path() string
	Export(c github.Collection) error
}

// CountSummary writes per-type totals and PR coverage.
type CountSummary struct {
	path string
	out  io.Writer
}

func NewCountSummary(path string, out io.Writer) *CountSummary {
	return &CountSummary{path: path, out: out}
}

func (m *CountSummary) Name() string { return "count" }
func (m *CountSummary) Path() string { return m.path }

func (m *CountSummary) Export(c github.Collection) error {
	counts := github.Count(c)
	if err := export.WriteJSON(m.path, counts); err != nil {
		return err
	}
	export.PrintCounts(m.out, m.path, counts)
	return nil
}

// ListResult is the document written by FlatList.
type ListResult struct {
	Summary  github.Summary         `json:"summary"`
	Comments []github.CommentRecord `json:"comments"`
}

// FlatList writes every record together with a summary and generation time.
type FlatList struct {
	path string
	out  io.Writer
	now  func() time.Time
}

func NewFlatList(path string, out io.Writer) *FlatList {
	return &FlatList{path: path, out: out, now: time.Now}
}

func (m *FlatList) Name() string { return "list" }
func (m *FlatList) Path() string { return m.path }

func (m *FlatList) Export(c github.Collection) error {
	records := c.Records()
	result := ListResult{
		Summary:  github.Summarize(records, m.now()),
		Comments: records,
	}
	if err := export.WriteJSON(m.path, result); err != nil {
		return err
	}
	export.PrintRecordSummary(m.out, m.path, records)
	return nil
}

// CSVRows writes one CSV row per record.
type CSVRows struct {
	path string
	out  io.Writer
}

func NewCSVRows(path string, out io.Writer) *CSVRows {
	return &CSVRows{path: path, out: out}
}

func (m *CSVRows) Name() string { return "export-csv" }
func (m *CSVRows) Path() string { return m.path }

func (m *CSVRows) Export(c github.Collection) error {
	records := c.Records()
	if err := export.WriteCSV(m.path, records); err != nil {
		return err
	}
	export.PrintRecordSummary(m.out, m.path, records)
	return nil
}

// RecordsJSON writes the bare record array.
type RecordsJSON struct {
	path string
	out  io.Writer
}

func NewRecordsJSON(path string, out io.Writer) *RecordsJSON {
	return &RecordsJSON{path: path, out: out}
}

func (m *RecordsJSON) Name() string { return "export-json" }
func (m *RecordsJSON) Path() string { return m.path }

func (m *RecordsJSON) Export(c github.Collection) error {
	records := c.Records()
	if err := export.WriteJSON(m.path, records); err != nil {
		return err
	}
	export.PrintRecordSummary(m.out, m.path, records)
	return nil
}

// NewExport returns the record export for format "csv" or "json".
func NewExport(format, path string, out io.Writer) (Mode, error) {
	switch format {
	case "csv":
		return NewCSVRows(path, out), nil
	case "json":
		return NewRecordsJSON(path, out), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want csv or json)", format)
	}
}
