package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultDelimiter separates fields when Options.Delimiter is unset
const DefaultDelimiter = ','

// Options controls how raw text is split into records
type Options struct {
	Delimiter rune
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// ParseError reports input that cannot be turned into a header and records
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %s", e.Line, msg)
	}
	return "parse error: " + msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Warning is a non-fatal problem with a single row
type Warning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Parse reads delimited text whose first line is a header naming the
// fields. Rows with missing trailing fields are padded with empty values
// and rows with extra fields are truncated; both produce a warning.
// Columns whose header is not a recognized field are ignored.
func Parse(r io.Reader, opts Options) ([]Record, []Warning, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.Comma = opts.delimiter()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &ParseError{Reason: "empty input: no header row"}
		}
		return nil, nil, &ParseError{Line: 1, Reason: "failed to read header row", Err: err}
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		records  []Record
		warnings []Warning
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, nil, &ParseError{Line: csvErr.Line, Reason: "malformed row", Err: csvErr.Err}
			}
			return nil, nil, &ParseError{Reason: "failed to read input", Err: err}
		}
		line, _ := reader.FieldPos(0)

		switch {
		case len(row) < len(header):
			warnings = append(warnings, Warning{
				Line:    line,
				Message: fmt.Sprintf("row has %d fields, expected %d; missing fields left empty", len(row), len(header)),
			})
		case len(row) > len(header):
			warnings = append(warnings, Warning{
				Line:    line,
				Message: fmt.Sprintf("row has %d fields, expected %d; extra fields dropped", len(row), len(header)),
			})
		}

		var rec Record
		for i, value := range row {
			if i >= len(columns) {
				break
			}
			if f := columns[i]; f.Valid() {
				rec.values[f] = value
			}
		}
		records = append(records, rec)
	}

	return records, warnings, nil
}

// mapHeader resolves each header column to a field, -1 for unrecognized columns
func mapHeader(header []string) ([]Field, error) {
	columns := make([]Field, len(header))
	seen := make(map[string]bool, len(header))
	recognized := 0
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name != "" && seen[name] {
			return nil, &ParseError{Line: 1, Reason: fmt.Sprintf("duplicate header %q", name)}
		}
		seen[name] = true

		f, ok := lookupKey(name)
		if !ok {
			columns[i] = -1
			continue
		}
		columns[i] = f
		recognized++
	}
	if recognized == 0 {
		return nil, &ParseError{Line: 1, Reason: "header names none of the recognized fields"}
	}
	return columns, nil
}
