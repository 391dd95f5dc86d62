package dataset

import (
	"math"
	"strings"
	"testing"
)

func TestReadCSVBasics(t *testing.T) {
	in := strings.Join([]string{
		"Time,Temp,Salinity,Notes",
		"2024-01-01T00:00:00Z,10.5,35.1,calm",
		"2024-01-01T01:00:00Z,,35.2,windy",
		"2024-01-01T02:00:00Z,11.0,NA,",
	}, "\n")
	ds, err := ReadCSV(strings.NewReader(in), "test.csv")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}
	if len(ds.Parameters) != 3 || ds.Parameters[0] != "Temp" {
		t.Fatalf("parameters wrong: %v", ds.Parameters)
	}
	if _, ok := ds.Records[1].Values["Temp"]; ok {
		t.Fatalf("empty cell must be a gap")
	}
	if _, ok := ds.Records[2].Values["Salinity"]; ok {
		t.Fatalf("NA cell must be a gap")
	}
	if _, ok := ds.Records[0].Values["Notes"]; ok {
		t.Fatalf("non-numeric column values must not appear")
	}
	if v := ds.Records[0].Values["Salinity"]; v != 35.1 {
		t.Fatalf("salinity = %v, want 35.1", v)
	}
}

func TestReadCSVTimeColumnByName(t *testing.T) {
	in := "depth,timestamp\n5.0,2024-01-01T00:00:00Z\n"
	ds, err := ReadCSV(strings.NewReader(in), "test.csv")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Records[0].Time != "2024-01-01T00:00:00Z" {
		t.Fatalf("time column not detected by name: %+v", ds.Records[0])
	}
	if ds.Records[0].Values["depth"] != 5.0 {
		t.Fatalf("depth lost: %+v", ds.Records[0].Values)
	}
}

func TestReadCSVRaggedRowsSkippedFields(t *testing.T) {
	in := "time,a,b\n2024-01-01T00:00:00Z,1\n2024-01-01T01:00:00Z,2,3\n"
	ds, err := ReadCSV(strings.NewReader(in), "test.csv")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("ragged rows must not abort the load, got %d records", len(ds.Records))
	}
	if _, ok := ds.Records[0].Values["b"]; ok {
		t.Fatalf("short row must leave trailing columns as gaps")
	}
}

func TestReadJSONL(t *testing.T) {
	in := strings.Join([]string{
		`{"time":"2024-01-01T00:00:00Z","temp":10.5,"site":"farm"}`,
		`not json at all`,
		`{"time":"2024-01-01T01:00:00Z","temp":11.0,"oxygen":8.1}`,
		``,
	}, "\n")
	ds, err := ReadJSONL(strings.NewReader(in), "test.jsonl")
	if err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records (bad line skipped), got %d", len(ds.Records))
	}
	if len(ds.Parameters) != 2 || ds.Parameters[0] != "oxygen" || ds.Parameters[1] != "temp" {
		t.Fatalf("parameters wrong (sorted, numeric only): %v", ds.Parameters)
	}
	if _, ok := ds.Records[0].Values["site"]; ok {
		t.Fatalf("string fields must not become parameters")
	}
}

func TestSummarize(t *testing.T) {
	in := "time,temp\n2024-01-01T00:00:00Z,10\n2024-01-01T01:00:00Z,20\n2024-01-01T02:00:00Z,\n"
	ds, err := ReadCSV(strings.NewReader(in), "test.csv")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	sums := Summarize(ds)
	if len(sums) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(sums))
	}
	s := sums[0]
	if s.Count != 2 || s.Min != 10 || s.Max != 20 || math.Abs(s.Mean-15) > 1e-9 {
		t.Fatalf("summary wrong: %+v", s)
	}
}

func TestTimeSpanSkipsUnparsable(t *testing.T) {
	in := "time,x\ngarbage,1\n2024-01-02T00:00:00Z,2\n2024-01-01T00:00:00Z,3\n"
	ds, err := ReadCSV(strings.NewReader(in), "test.csv")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	lo, hi, ok := TimeSpan(ds)
	if !ok {
		t.Fatalf("expected a span")
	}
	if lo.Day() != 1 || hi.Day() != 2 {
		t.Fatalf("span wrong: %v .. %v", lo, hi)
	}
}
