// Package csvfile decodes bank CSV exports into raw rows keyed by header
// name, handling legacy encodings and the formatting quirks of real bank
// files.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/jsykora/kasa/internal/database/repository"
	"github.com/jsykora/kasa/internal/service"
)

// Load reads and decodes the file at path according to the mapping's
// encoding, delimiter and header row.
func Load(path string, m repository.CSVMapping) ([]service.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, m)
}

// Read decodes one CSV stream. The mapping's HeaderRow is the zero-based
// index of the header line; rows above it are discarded. Trailing delimiter
// runs are stripped per line before parsing, since several banks terminate
// every record with a dangling separator.
func Read(r io.Reader, m repository.CSVMapping) ([]service.RawRow, error) {
	raw, err := io.ReadAll(decodingReader(r, m.Encoding))
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	delimiter := m.Delimiter
	if delimiter == "" {
		delimiter = ","
	}

	reader := csv.NewReader(strings.NewReader(stripTrailingDelimiters(string(raw), delimiter)))
	reader.Comma = rune(delimiter[0])
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if m.HeaderRow >= len(records) {
		return nil, fmt.Errorf("header row %d beyond end of file (%d lines)", m.HeaderRow, len(records))
	}

	header := make([]string, len(records[m.HeaderRow]))
	for i, h := range records[m.HeaderRow] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []service.RawRow
	for _, record := range records[m.HeaderRow+1:] {
		if isBlank(record) {
			continue
		}
		row := make(service.RawRow, len(header))
		for i, name := range header {
			if name == "" || i >= len(record) {
				continue
			}
			row[name] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodingReader wraps r with a charset decoder. UTF-8 and unknown names
// pass through unchanged; a misdeclared encoding should surface as garbled
// field values, not a hard failure.
func decodingReader(r io.Reader, name string) io.Reader {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" || name == "utf-8" || name == "utf8" {
		return r
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}

// stripTrailingDelimiters removes delimiter runs at the end of each line.
// A stray BOM at the start of the file is dropped too.
func stripTrailingDelimiters(content, delimiter string) string {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		for strings.HasSuffix(line, delimiter) {
			line = strings.TrimSuffix(line, delimiter)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
