package main

import (
	"math"
	"testing"
	"time"

	"github.com/aquamon/MarineDataViewer/src/dataset"
	"github.com/aquamon/MarineDataViewer/src/series"
)

func TestParseHexColor(t *testing.T) {
	c, ok := parseHexColor("#1f77b4", 1.0)
	if !ok {
		t.Fatalf("expected #1f77b4 to parse")
	}
	if c.R != 0x1f || c.G != 0x77 || c.B != 0xb4 || c.A != 255 {
		t.Fatalf("unexpected color %+v", c)
	}
	c, ok = parseHexColor("ff0000", 0.5)
	if !ok || c.R != 255 || c.A != 128 {
		t.Fatalf("bare hex with opacity: %+v ok=%v", c, ok)
	}
	if _, ok := parseHexColor("#zzz", 1); ok {
		t.Fatalf("garbage must not parse")
	}
	if _, ok := parseHexColor("", 1); ok {
		t.Fatalf("empty must not parse")
	}
}

func TestLineStyleForDashed(t *testing.T) {
	st := lineStyleFor("#00ff00", 1, 2, series.LineDashed)
	if len(st.StrokeDashArray) == 0 {
		t.Fatalf("dashed style must set a dash array")
	}
	st = lineStyleFor("#00ff00", 1, 2, series.LineSolid)
	if len(st.StrokeDashArray) != 0 {
		t.Fatalf("solid style must not set a dash array")
	}
	if st.StrokeWidth != 2 {
		t.Fatalf("stroke width not carried: %v", st.StrokeWidth)
	}
}

func TestHeatColorEndpoints(t *testing.T) {
	lo := heatColor(0)
	hi := heatColor(1)
	if lo.B <= lo.R {
		t.Fatalf("low values should be blue-dominant: %+v", lo)
	}
	if hi.R <= hi.B {
		t.Fatalf("high values should be red-dominant: %+v", hi)
	}
	gap := heatColor(math.NaN())
	if gap.R != gap.G || gap.G != gap.B {
		t.Fatalf("gap cells should be neutral gray: %+v", gap)
	}
	// out-of-range values clamp instead of wrapping
	if heatColor(2) != hi || heatColor(-1) != lo {
		t.Fatalf("out-of-range values must clamp")
	}
}

func TestPickTimeStep(t *testing.T) {
	step, _ := pickTimeStep(90 * time.Minute)
	if step != 10*time.Minute {
		t.Fatalf("short span step = %v", step)
	}
	step, _ = pickTimeStep(10 * 24 * time.Hour)
	if step != 24*time.Hour {
		t.Fatalf("10-day span step = %v", step)
	}
	step, _ = pickTimeStep(60 * 24 * time.Hour)
	if step != 7*24*time.Hour {
		t.Fatalf("long span step = %v", step)
	}
}

func TestMakeTimeTicksCoverSpan(t *testing.T) {
	minT := time.Date(2024, 3, 1, 0, 7, 0, 0, time.UTC)
	maxT := minT.Add(5 * time.Hour)
	ticks := makeTimeTicks(minT, maxT, time.Hour, "15:04")
	if len(ticks) < 5 {
		t.Fatalf("expected hourly ticks across 5h, got %d", len(ticks))
	}
	for _, tk := range ticks {
		if tk.Label == "" {
			t.Fatalf("empty tick label")
		}
	}
}

func TestBuildTimeXAxisMonotonic(t *testing.T) {
	recs := []series.Record{
		{Time: "2024-03-01T00:00:00Z"},
		{Time: "not a time"},
		{Time: "2024-03-01T00:00:00Z"}, // duplicate timestamp
		{Time: "2024-03-01T01:00:00Z"},
	}
	times, _ := buildTimeXAxis(recs)
	if len(times) != len(recs) {
		t.Fatalf("length mismatch")
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			t.Fatalf("times not strictly increasing at %d: %v !> %v", i, times[i], times[i-1])
		}
	}
}

func TestChartSizeFallback(t *testing.T) {
	w, h := chartSize(&uiState{})
	if w < 800 || h < 280 || h > 520 {
		t.Fatalf("fallback size out of bounds: %dx%d", w, h)
	}
}

func TestFormatSummaryValue(t *testing.T) {
	if got := formatSummaryValue(1234.5); got != "1235" {
		t.Fatalf("large value: %q", got)
	}
	if got := formatSummaryValue(3.14159); got != "3.14" {
		t.Fatalf("mid value: %q", got)
	}
	if got := formatSummaryValue(0.01234); got != "0.012" {
		t.Fatalf("small value: %q", got)
	}
}

func TestRenderSeriesChartProducesImage(t *testing.T) {
	ds := &dataset.Dataset{
		Source:     "test.csv",
		Parameters: []string{"temp"},
	}
	for i := 0; i < 48; i++ {
		ds.Records = append(ds.Records, series.Record{
			Time:   time.Date(2024, 3, 1, i, 0, 0, 0, time.UTC).Format(time.RFC3339),
			Values: map[string]float64{"temp": 10 + float64(i%12)},
		})
	}
	state := &uiState{
		ds:       ds,
		store:    series.NewStore(ds.Parameters),
		brushEnd: len(ds.Records) - 1,
	}
	img := renderSeriesChart(state)
	if img == nil || img.Bounds().Dx() < 100 {
		t.Fatalf("expected a rendered chart image")
	}
}

func TestRenderHeatmapWithoutLookup(t *testing.T) {
	ds := &dataset.Dataset{Source: "test.csv", Parameters: []string{"temp", "sal"}}
	for i := 0; i < 10; i++ {
		ds.Records = append(ds.Records, series.Record{
			Time:   time.Date(2024, 3, 1, i, 0, 0, 0, time.UTC).Format(time.RFC3339),
			Values: map[string]float64{"temp": float64(i), "sal": 35},
		})
	}
	state := &uiState{
		ds:       ds,
		store:    series.NewStore(ds.Parameters),
		brushEnd: len(ds.Records) - 1,
	}
	img := renderHeatmap(state)
	if img == nil || img.Bounds().Dy() < 10 {
		t.Fatalf("expected heatmap rows even without a taxonomy table")
	}
}
