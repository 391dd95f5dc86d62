package taxonomy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadLookupCSV parses a hierarchy table: a name column (first column, or one
// headed "name"/"label"/"species_name") plus one column per rank. Rows with
// an empty name are skipped; empty or "NA" rank cells stay unknown.
func ReadLookupCSV(r io.Reader) (map[string]Info, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read taxonomy header: %w", err)
	}
	nameCol := 0
	rankCols := map[int]string{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		switch h {
		case "name", "label", "species_name":
			nameCol = i
			continue
		}
		for _, rank := range Ranks {
			if h == rank {
				rankCols[i] = rank
			}
		}
	}
	out := map[string]Info{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		info := Info{}
		for i, rank := range rankCols {
			if i >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[i])
			if v == "" || strings.EqualFold(v, "na") {
				continue
			}
			info[rank] = v
		}
		out[name] = info
	}
	return out, nil
}

// LoadLookup reads a hierarchy table from disk.
func LoadLookup(path string) (map[string]Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLookupCSV(f)
}
