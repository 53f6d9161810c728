package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ssargent/assetview/pkg/record"
)

// DefaultPageSize is the number of rows on one page
const DefaultPageSize = 50

// ErrInvalidParameter is matched by every InvalidParameterError
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError reports view parameters the engine refuses to compute
type InvalidParameterError struct {
	Param string
	Value string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %q", e.Param, e.Value)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// Direction is the sort order
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Flip returns the opposite direction
func (d Direction) Flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// MarshalText encodes the direction as "asc" or "desc"
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts any value ParseDirection accepts
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending".
// An empty value means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, &InvalidParameterError{Param: "sort_direction", Value: s}
	}
}

// Params selects the visible slice of a dataset
type Params struct {
	FilterField   record.Field `json:"filter_field" yaml:"filter_field"`
	FilterTerm    string       `json:"filter_term" yaml:"filter_term"`
	SortField     record.Field `json:"sort_field" yaml:"sort_field"`
	SortDirection Direction    `json:"sort_direction" yaml:"sort_direction"`
	PageNumber    int          `json:"page_number" yaml:"page_number"`
	PageSize      int          `json:"page_size" yaml:"page_size"`
}

// DefaultParams returns the initial view: filter and sort on Ticker,
// ascending, first page.
func DefaultParams() Params {
	return Params{
		FilterField:   record.Ticker,
		SortField:     record.Ticker,
		SortDirection: Ascending,
		PageNumber:    1,
		PageSize:      DefaultPageSize,
	}
}

// Validate checks the field selections
func (p Params) Validate() error {
	if !p.FilterField.Valid() {
		return &InvalidParameterError{Param: "filter_field", Value: p.FilterField.String()}
	}
	if !p.SortField.Valid() {
		return &InvalidParameterError{Param: "sort_field", Value: p.SortField.String()}
	}
	if p.SortDirection != Ascending && p.SortDirection != Descending {
		return &InvalidParameterError{Param: "sort_direction", Value: fmt.Sprint(int(p.SortDirection))}
	}
	return nil
}

// normalized clamps the page number to at least 1 and fills in a page size
func (p Params) normalized() Params {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Result is the visible slice for a set of parameters
type Result struct {
	Rows          []record.Record `json:"rows"`
	TotalFiltered int             `json:"total_filtered"`
	TotalPages    int             `json:"total_pages"`
	HasNext       bool            `json:"has_next"`
	HasPrevious   bool            `json:"has_previous"`
	Params        Params          `json:"params"`
}
