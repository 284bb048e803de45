package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/jobreco/internal/domain"
	"github.com/kailas-cloud/jobreco/internal/domain/job"
)

var columnAliases = map[string][]string{
	"title":  {"job title", "job_title", "title"},
	"city":   {"city"},
	"state":  {"state"},
	"salary": {"salary"},
}

// ReadTable parses the job CSV. The title column is required; city, state and
// salary are optional.
func ReadTable(path string) ([]job.Record, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parseTable(f, filepath.Base(path))
}

func parseTable(r io.Reader, name string) ([]job.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.NewCorpusError("%s is empty", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}

	cols := mapColumns(header)
	if _, ok := cols["title"]; !ok {
		return nil, domain.NewCorpusError("'%s' must contain a 'Job Title' column", name)
	}

	var records []job.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", name, line, err)
		}
		records = append(records, job.NewRecord(
			cell(row, cols, "title"),
			cell(row, cols, "city"),
			cell(row, cols, "state"),
			cell(row, cols, "salary"),
		))
	}
	return records, nil
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for key, aliases := range columnAliases {
			if _, done := cols[key]; done {
				continue
			}
			for _, a := range aliases {
				if h == a {
					cols[key] = i
				}
			}
		}
	}
	return cols
}

func cell(row []string, cols map[string]int, key string) string {
	i, ok := cols[key]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Titles returns the title of every record, "" for missing ones.
func Titles(records []job.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title()
	}
	return out
}
