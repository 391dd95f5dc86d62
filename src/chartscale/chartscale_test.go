package chartscale

import (
	"math"
	"testing"

	"github.com/aquamon/MarineDataViewer/src/series"
)

func records(param string, vals ...float64) []series.Record {
	out := make([]series.Record, len(vals))
	for i, v := range vals {
		out[i] = series.Record{Time: "2024-01-01T00:00:00Z", Values: map[string]float64{param: v}}
	}
	return out
}

func TestPaddedSingleAxisFivePercent(t *testing.T) {
	data := records("temp", 10, 20)
	store := series.NewStore([]string{"temp"})
	d := SingleAxisDomain(data, []string{"temp"}, store, PolicyPadded)
	if math.Abs(d.Min-9.5) > 1e-9 || math.Abs(d.Max-20.5) > 1e-9 {
		t.Fatalf("expected [9.5,20.5], got [%v,%v]", d.Min, d.Max)
	}
}

func TestPaddedMinClampedAtZero(t *testing.T) {
	data := records("chl", 0.1, 30)
	store := series.NewStore([]string{"chl"})
	d := SingleAxisDomain(data, []string{"chl"}, store, PolicyPadded)
	if d.Min != 0 {
		t.Fatalf("padded minimum should clamp at zero, got %v", d.Min)
	}
	if d.Max <= 30 {
		t.Fatalf("padded maximum should exceed data max, got %v", d.Max)
	}
}

func TestNicePolicyDoesNotClampAtZero(t *testing.T) {
	data := records("depth", -12, -2)
	store := series.NewStore([]string{"depth"})
	d := SingleAxisDomain(data, []string{"depth"}, store, PolicyNice)
	if d.Min > -12 {
		t.Fatalf("nice bounds must cover the data minimum, got %v", d.Min)
	}
	if d.Min >= 0 {
		t.Fatalf("nice policy must not clamp negatives, got min=%v", d.Min)
	}
}

func TestAllExplicitRangesEnvelope(t *testing.T) {
	store := series.NewStore([]string{"temp", "sal"})
	lo1, hi1 := 5.0, 15.0
	lo2, hi2 := 30.0, 36.0
	store.SetAxisRange("temp", &series.AxisRange{Min: &lo1, Max: &hi1})
	store.SetAxisRange("sal", &series.AxisRange{Min: &lo2, Max: &hi2})
	d := SingleAxisDomain(nil, []string{"temp", "sal"}, store, PolicyPadded)
	if d.Min != 5 || d.Max != 36 {
		t.Fatalf("expected explicit envelope [5,36], got [%v,%v]", d.Min, d.Max)
	}
}

func TestPartialExplicitRangeSubstitutes(t *testing.T) {
	data := records("temp", 10, 20)
	store := series.NewStore([]string{"temp"})
	min := 0.0
	store.SetAxisRange("temp", &series.AxisRange{Min: &min})
	d := SingleAxisDomain(data, []string{"temp"}, store, PolicyPadded)
	// explicit min=0 replaces the scanned 10; pad applies to the new span
	if d.Min != 0 {
		t.Fatalf("explicit lower bound should substitute and clamp, got %v", d.Min)
	}
	if math.Abs(d.Max-21) > 1e-9 {
		t.Fatalf("expected max 21 (20 + 5%% of 20), got %v", d.Max)
	}
}

func TestMultiAxisIndependence(t *testing.T) {
	data := []series.Record{{
		Time:   "2024-01-01T00:00:00Z",
		Values: map[string]float64{"temp": 10, "sal": 35},
	}, {
		Time:   "2024-01-01T01:00:00Z",
		Values: map[string]float64{"temp": 20, "sal": 36},
	}}
	store := series.NewStore([]string{"temp", "sal"})
	got := MultiAxisDomains(data, []string{"temp", "sal"}, store)
	if math.Abs(got["temp"].Min-9.5) > 1e-9 || math.Abs(got["temp"].Max-20.5) > 1e-9 {
		t.Fatalf("temp domain wrong: %+v", got["temp"])
	}
	// sal's span is 1, so its padding must come from its own data only
	if math.Abs(got["sal"].Min-34.95) > 1e-9 || math.Abs(got["sal"].Max-36.05) > 1e-9 {
		t.Fatalf("sal domain wrong: %+v", got["sal"])
	}
}

func TestDomainDeterminism(t *testing.T) {
	data := records("temp", 3.17, 9.42, 6.66)
	store := series.NewStore([]string{"temp"})
	a := SingleAxisDomain(data, []string{"temp"}, store, PolicyNice)
	b := SingleAxisDomain(data, []string{"temp"}, store, PolicyNice)
	if a != b {
		t.Fatalf("identical inputs produced different bounds: %+v vs %+v", a, b)
	}
	ta := Ticks(a, 6)
	tb := Ticks(b, 6)
	if len(ta) != len(tb) {
		t.Fatalf("tick count unstable: %d vs %d", len(ta), len(tb))
	}
	for i := range ta {
		if ta[i] != tb[i] {
			t.Fatalf("tick %d unstable: %+v vs %+v", i, ta[i], tb[i])
		}
	}
}

func TestNiceDomainCoversAndRounds(t *testing.T) {
	d, ticks := NiceDomain(12.3, 87.6)
	if d.Min > 12.3 || d.Max < 87.6 {
		t.Fatalf("nice domain must cover data: %+v", d)
	}
	if len(ticks) < 2 || len(ticks) > 12 {
		t.Fatalf("unreadable tick count %d", len(ticks))
	}
	step := ticks[1] - ticks[0]
	for i := 2; i < len(ticks); i++ {
		if math.Abs((ticks[i]-ticks[i-1])-step) > 1e-6 {
			t.Fatalf("uneven tick spacing at %d", i)
		}
	}
}

func TestNoVisibleParametersFallback(t *testing.T) {
	store := series.NewStore(nil)
	d := SingleAxisDomain(nil, nil, store, PolicyPadded)
	if !(d.Max > d.Min) {
		t.Fatalf("fallback domain must be non-degenerate: %+v", d)
	}
}

func TestTickLabelsNonEmpty(t *testing.T) {
	ticks := Ticks(Domain{Min: 1, Max: 9}, 6)
	if len(ticks) < 2 {
		t.Fatalf("expected ticks")
	}
	for i, tk := range ticks {
		if tk.Label == "" {
			t.Fatalf("empty label at index %d", i)
		}
	}
}

func TestMovingAverageKeyScanned(t *testing.T) {
	data := []series.Record{{
		Time:   "2024-01-01T00:00:00Z",
		Values: map[string]float64{"temp": 10, "temp_ma": 12},
	}}
	store := series.NewStore([]string{"temp"})
	d := SingleAxisDomain(data, []string{"temp", "temp_ma"}, store, PolicyPadded)
	if d.Max <= 12 {
		t.Fatalf("overlay values must widen the domain, got %+v", d)
	}
}
