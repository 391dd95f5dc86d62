// Package dataset loads time-series samples from CSV or JSONL sources into
// the record form the display pipeline consumes.
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aquamon/MarineDataViewer/src/logging"
	"github.com/aquamon/MarineDataViewer/src/series"
)

// Dataset is an ordered record sequence plus the parameter list in source
// column order.
type Dataset struct {
	Source     string
	Records    []series.Record
	Parameters []string
}

// Defensive cap per JSONL line to avoid pathological memory spikes.
const maxLineBytes = 200 * 1024 * 1024

// Load dispatches on the file extension: .jsonl/.ndjson as JSON lines,
// everything else as CSV.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return ReadJSONL(f, path)
	default:
		return ReadCSV(f, path)
	}
}

// ReadCSV parses a header-led CSV. The time column is matched by name
// (time/timestamp/date, case-insensitive), defaulting to the first column.
// Every other column is a parameter; cells that do not parse as numbers
// become gaps.
func ReadCSV(r io.Reader, source string) (*Dataset, error) {
	start := time.Now()
	defer logging.TimeTrack(start, "read csv")
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	timeCol := 0
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "time", "timestamp", "date", "datetime":
			timeCol = i
		}
	}
	var params []string
	for i, name := range header {
		if i == timeCol {
			continue
		}
		params = append(params, strings.TrimSpace(name))
	}
	ds := &Dataset{Source: source, Parameters: params}
	line := 1
	for {
		row, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logging.Warnf("csv %s line %d: %v (skipped)", source, line, err)
			continue
		}
		if timeCol >= len(row) {
			continue
		}
		rec := series.Record{Time: strings.TrimSpace(row[timeCol]), Values: map[string]float64{}}
		pi := 0
		for i, cell := range row {
			if i == timeCol {
				continue
			}
			if pi >= len(params) {
				break
			}
			name := params[pi]
			pi++
			cell = strings.TrimSpace(cell)
			if cell == "" || strings.EqualFold(cell, "na") || strings.EqualFold(cell, "nan") {
				continue
			}
			v, perr := strconv.ParseFloat(cell, 64)
			if perr != nil || math.IsNaN(v) {
				continue
			}
			rec.Values[name] = v
		}
		ds.Records = append(ds.Records, rec)
	}
	logging.Infof("loaded %d records, %d parameters from %s", len(ds.Records), len(ds.Parameters), source)
	return ds, nil
}

// ReadJSONL parses one JSON object per line: a "time" string field plus
// numeric parameter fields. Lines that fail to parse are skipped with a
// warning. The reader accumulates logical lines dynamically so long lines do
// not need a fixed token size.
func ReadJSONL(r io.Reader, source string) (*Dataset, error) {
	start := time.Now()
	defer logging.TimeTrack(start, "read jsonl")
	reader := bufio.NewReader(r)
	ds := &Dataset{Source: source}
	seen := map[string]bool{}
	lineNo := 0
readLoop:
	for {
		var line []byte
		for {
			part, rerr := reader.ReadBytes('\n')
			if len(part) > 0 {
				if len(line)+len(part) > maxLineBytes {
					return nil, fmt.Errorf("line %d too large: exceeds %d bytes in %s", lineNo+1, maxLineBytes, source)
				}
				line = append(line, part...)
			}
			if rerr == nil {
				break
			}
			if errors.Is(rerr, io.EOF) {
				if len(line) == 0 {
					break readLoop
				}
				break
			}
			if errors.Is(rerr, bufio.ErrBufferFull) {
				continue
			}
			logging.Warnf("read warning: %v (file=%s)", rerr, source)
			if len(line) == 0 {
				break readLoop
			}
			break
		}
		lineNo++
		trimmed := strings.TrimSpace(string(line))
		if trimmed == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			logging.Warnf("jsonl %s line %d: %v (skipped)", source, lineNo, err)
			continue
		}
		ts, _ := obj["time"].(string)
		rec := series.Record{Time: ts, Values: map[string]float64{}}
		for k, v := range obj {
			if k == "time" {
				continue
			}
			if f, ok := v.(float64); ok && !math.IsNaN(f) {
				rec.Values[k] = f
				if !seen[k] {
					seen[k] = true
					ds.Parameters = append(ds.Parameters, k)
				}
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	// Field order in JSON objects is not stable; sort for determinism.
	sort.Strings(ds.Parameters)
	logging.Infof("loaded %d records, %d parameters from %s", len(ds.Records), len(ds.Parameters), source)
	return ds, nil
}

// ParamSummary aggregates one parameter over the whole dataset.
type ParamSummary struct {
	Name  string
	Count int
	Min   float64
	Max   float64
	Mean  float64
}

// Summarize computes per-parameter count/min/max/mean in parameter order.
func Summarize(ds *Dataset) []ParamSummary {
	out := make([]ParamSummary, 0, len(ds.Parameters))
	for _, p := range ds.Parameters {
		s := ParamSummary{Name: p, Min: math.Inf(1), Max: math.Inf(-1)}
		sum := 0.0
		for _, r := range ds.Records {
			v, ok := r.Values[p]
			if !ok {
				continue
			}
			s.Count++
			sum += v
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		if s.Count == 0 {
			s.Min, s.Max = 0, 0
		} else {
			s.Mean = sum / float64(s.Count)
		}
		out = append(out, s)
	}
	return out
}

// TimeSpan returns the first and last parsable timestamps. ok is false when
// no record carries one.
func TimeSpan(ds *Dataset) (time.Time, time.Time, bool) {
	var lo, hi time.Time
	found := false
	for _, r := range ds.Records {
		t, ok := r.ParseTime()
		if !ok {
			continue
		}
		if !found {
			lo, hi = t, t
			found = true
			continue
		}
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}
	return lo, hi, found
}
