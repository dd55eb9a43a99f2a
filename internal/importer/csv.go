package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// csvTable is a header-indexed CSV file.
type csvTable struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// readCSV decodes UTF-8 CSV content, dropping a leading byte order mark.
// normalise is applied to header names before indexing.
func readCSV(content []byte, normalise func(string) string) (*csvTable, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("file is not valid UTF-8")
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty or invalid CSV file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	t := &csvTable{header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		name := normalise(h)
		if _, seen := t.index[name]; !seen {
			t.index[name] = i
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}
	t.rows = rows
	return t, nil
}

// get returns a trimmed cell, or "" when the column or cell is absent.
func (t *csvTable) get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
