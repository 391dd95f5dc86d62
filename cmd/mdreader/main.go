package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aquamon/MarineDataViewer/src/dataset"
	"github.com/aquamon/MarineDataViewer/src/logging"
)

func main() {
	var file string
	var logLevel string
	flag.StringVar(&file, "file", "samples.csv", "Path to a samples CSV or JSONL file")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()
	if logLevel != "" {
		logging.SetLevelString(logLevel)
	}

	ds, err := dataset.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Source: %s\n", ds.Source)
	fmt.Printf("Records: %d, parameters: %d\n", len(ds.Records), len(ds.Parameters))
	if lo, hi, ok := dataset.TimeSpan(ds); ok {
		fmt.Printf("Span: %s .. %s\n", lo.Format(time.RFC3339), hi.Format(time.RFC3339))
	}
	fmt.Printf("%-24s %8s %12s %12s %12s\n", "parameter", "count", "min", "max", "mean")
	for _, s := range dataset.Summarize(ds) {
		fmt.Printf("%-24s %8d %12.4g %12.4g %12.4g\n", s.Name, s.Count, s.Min, s.Max, s.Mean)
	}
}
