package query

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ssargent/assetview/pkg/record"
)

// Options tunes how the engine compares values
type Options struct {
	// NumericSort compares values that parse as numbers numerically.
	// When false every field is compared as a string, so "100" sorts
	// before "20".
	NumericSort bool
}

// Engine computes views over an in-memory record sequence. It holds no
// state besides its options and is safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine creates an engine
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Options returns the engine options
func (e *Engine) Options() Options {
	return e.opts
}

// Compute filters, sorts and paginates records. The input slice is never
// modified. Filtering always starts from the full sequence.
func (e *Engine) Compute(records []record.Record, params Params) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	params = params.normalized()

	matched := filter(records, params.FilterField, params.FilterTerm)

	compare := strings.Compare
	if e.opts.NumericSort {
		compare = compareNumeric
	}
	field := params.SortField
	descending := params.SortDirection == Descending
	slices.SortStableFunc(matched, func(a, b record.Record) int {
		c := compare(a.Get(field), b.Get(field))
		if descending {
			return -c
		}
		return c
	})

	total := len(matched)
	size := params.PageSize

	// Pages past the end clip to an empty slice. Computing the offset this
	// way cannot overflow for very large page numbers.
	first := total
	if params.PageNumber-1 <= total/size {
		first = min((params.PageNumber-1)*size, total)
	}
	last := min(first+size, total)

	return Result{
		Rows:          matched[first:last:last],
		TotalFiltered: total,
		TotalPages:    (total + size - 1) / size,
		HasNext:       first+size < total,
		HasPrevious:   params.PageNumber > 1,
		Params:        params,
	}, nil
}

// Compute runs a default engine with string comparison
func Compute(records []record.Record, params Params) (Result, error) {
	return NewEngine(Options{}).Compute(records, params)
}

func filter(records []record.Record, field record.Field, term string) []record.Record {
	matched := make([]record.Record, 0, len(records))
	if term == "" {
		return append(matched, records...)
	}

	lower := cases.Lower(language.Und)
	needle := lower.String(term)
	for _, r := range records {
		if strings.Contains(lower.String(r.Get(field)), needle) {
			matched = append(matched, r)
		}
	}
	return matched
}

// compareNumeric orders numbers by value. Numbers sort before values that
// do not parse; two non-numeric values compare as strings.
func compareNumeric(a, b string) int {
	x, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	y, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(x, y)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
