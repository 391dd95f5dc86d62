package series

import "time"

// Record is one sample: a timestamp plus the parameter values measured at
// that instant. A missing key means the parameter was not measured (or was
// filtered out) and renders as a gap. The pipeline never mutates a Record it
// was given; derived records carry fresh value maps.
type Record struct {
	Time   string             `json:"time"`
	Values map[string]float64 `json:"values"`
}

// Clone returns a record with a copied value map.
func (r Record) Clone() Record {
	vals := make(map[string]float64, len(r.Values))
	for k, v := range r.Values {
		vals[k] = v
	}
	return Record{Time: r.Time, Values: vals}
}

// ParseTime parses the record timestamp. RFC3339 is the canonical format;
// a date-time without zone is accepted as a fallback for CSV exports.
func (r Record) ParseTime() (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, r.Time); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", r.Time); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02 15:04:05", r.Time); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// MovingAverageKey is the display key under which a parameter's trailing
// moving average is stored on derived records.
func MovingAverageKey(param string) string { return param + "_ma" }
