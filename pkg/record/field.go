package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned when a name does not resolve to a recognized field
var ErrUnknownField = errors.New("unknown field")

// Field identifies one of the recognized columns of a stock record
type Field int

const (
	Ticker Field = iota
	Date
	Open
	High
	Low
	Close
	Volume

	numFields
)

// fieldKeys holds the header key of each field as it appears in the dataset.
// Keys are case-sensitive when matched against a header row.
var fieldKeys = [numFields]string{
	Ticker: "Ticker",
	Date:   "date",
	Open:   "open",
	High:   "high",
	Low:    "low",
	Close:  "close",
	Volume: "volume",
}

// fieldLabels holds the display label of each field
var fieldLabels = [numFields]string{
	Ticker: "Ticker",
	Date:   "Date",
	Open:   "Open",
	High:   "High",
	Low:    "Low",
	Close:  "Close",
	Volume: "Volume",
}

// Fields returns every recognized field in display order
func Fields() []Field {
	fields := make([]Field, 0, numFields)
	for f := Field(0); f < numFields; f++ {
		fields = append(fields, f)
	}
	return fields
}

// Valid reports whether f is a recognized field
func (f Field) Valid() bool {
	return f >= 0 && f < numFields
}

// Key returns the header key of the field
func (f Field) Key() string {
	if !f.Valid() {
		return ""
	}
	return fieldKeys[f]
}

// Label returns the human readable column label
func (f Field) Label() string {
	if !f.Valid() {
		return ""
	}
	return fieldLabels[f]
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldKeys[f]
}

// MarshalText encodes the field as its header key
func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	return []byte(fieldKeys[f]), nil
}

// UnmarshalText accepts any name ParseField accepts
func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseField resolves a user supplied field name. Matching is
// case-insensitive so column labels ("Date") and header keys ("date")
// both resolve.
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(name)
	for f := Field(0); f < numFields; f++ {
		if strings.EqualFold(name, fieldKeys[f]) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// lookupKey matches a header key exactly
func lookupKey(key string) (Field, bool) {
	for f := Field(0); f < numFields; f++ {
		if key == fieldKeys[f] {
			return f, true
		}
	}
	return 0, false
}
