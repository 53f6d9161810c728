package query

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ssargent/assetview/pkg/record"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{
			name:    "defaults",
			params:  DefaultParams(),
			wantErr: false,
		},
		{
			name: "volume filter descending sort",
			params: Params{
				FilterField:   record.Volume,
				FilterTerm:    "100",
				SortField:     record.Close,
				SortDirection: Descending,
				PageNumber:    3,
				PageSize:      10,
			},
			wantErr: false,
		},
		{
			name: "zero page is still valid",
			params: Params{
				FilterField: record.Ticker,
				SortField:   record.Ticker,
			},
			wantErr: false,
		},
		{
			name: "invalid filter field",
			params: Params{
				FilterField: record.Field(12),
				SortField:   record.Ticker,
			},
			wantErr: true,
		},
		{
			name: "invalid sort field",
			params: Params{
				FilterField: record.Ticker,
				SortField:   record.Field(-3),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Params.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	if p.FilterField != record.Ticker {
		t.Errorf("FilterField = %v, want Ticker", p.FilterField)
	}
	if p.SortField != record.Ticker {
		t.Errorf("SortField = %v, want Ticker", p.SortField)
	}
	if p.SortDirection != Ascending {
		t.Errorf("SortDirection = %v, want asc", p.SortDirection)
	}
	if p.PageNumber != 1 {
		t.Errorf("PageNumber = %d, want 1", p.PageNumber)
	}
	if p.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", p.PageSize)
	}
	if p.FilterTerm != "" {
		t.Errorf("FilterTerm = %q, want empty", p.FilterTerm)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{input: "", want: Ascending},
		{input: "asc", want: Ascending},
		{input: "ASCENDING", want: Ascending},
		{input: "desc", want: Descending},
		{input: " Descending ", want: Descending},
		{input: "up", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDirection_Flip(t *testing.T) {
	if Ascending.Flip() != Descending {
		t.Error("expected asc to flip to desc")
	}
	if Descending.Flip() != Ascending {
		t.Error("expected desc to flip to asc")
	}
}

func TestParams_JSON(t *testing.T) {
	p := Params{
		FilterField:   record.Date,
		FilterTerm:    "2020",
		SortField:     record.Close,
		SortDirection: Descending,
		PageNumber:    2,
		PageSize:      50,
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"filter_field":"date","filter_term":"2020","sort_field":"close","sort_direction":"desc","page_number":2,"page_size":50}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	var decoded Params
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != p {
		t.Errorf("decoded %+v, want %+v", decoded, p)
	}
}

func TestInvalidParameterError(t *testing.T) {
	err := &InvalidParameterError{Param: "sort_field", Value: "exchange"}
	if err.Error() != `invalid parameter sort_field: "exchange"` {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidParameter) {
		t.Error("expected errors.Is to match ErrInvalidParameter")
	}
}
