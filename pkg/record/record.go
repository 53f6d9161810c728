// Package record ingests delimited stock data into immutable records and
// keeps the current dataset snapshot.
package record

import "encoding/json"

// Record is one parsed row of the dataset. Values are kept exactly as
// ingested; no numeric coercion happens here.
type Record struct {
	values [numFields]string
}

// New builds a record from field values. Fields not present map to "".
func New(values map[Field]string) Record {
	var r Record
	for f, v := range values {
		if f.Valid() {
			r.values[f] = v
		}
	}
	return r
}

// Get returns the raw value of a field, or "" for an unrecognized field
func (r Record) Get(f Field) string {
	if !f.Valid() {
		return ""
	}
	return r.values[f]
}

// Map returns the record keyed by header key
func (r Record) Map() map[string]string {
	m := make(map[string]string, numFields)
	for f := Field(0); f < numFields; f++ {
		m[fieldKeys[f]] = r.values[f]
	}
	return m
}

// MarshalJSON encodes the record as an object keyed by header key
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}
