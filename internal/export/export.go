// Package export writes comment reports to disk as JSON or CSV and prints the
// operator summary that follows each write.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/reillywatson/prcomments/internal/github"
)

// utf8BOM lets spreadsheet tools detect UTF-8 in the CSV export.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteJSON writes v to path indented by two spaces. HTML characters and
// non-ASCII text are written as is.
func WriteJSON(path string, v any) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	})
}

// WriteCSV writes records under github.CSVHeader, prefixed with a UTF-8 BOM.
// An empty record list still produces the header row.
func WriteCSV(path string, records []github.CommentRecord) error {
	return writeFile(path, func(w io.Writer) error {
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(github.CSVHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, r := range records {
			if err := cw.Write(r.Row()); err != nil {
				return fmt.Errorf("failed to write CSV row for comment %d: %w", r.CommentID, err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// writeFile writes to a temporary file next to path and renames it into
// place, so readers never see a partially written artifact.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
