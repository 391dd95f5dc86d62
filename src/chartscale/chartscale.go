// Package chartscale computes y-axis domains and tick marks for the viewer's
// charts from display-ready records and the parameter configuration. All
// functions are pure: identical inputs produce identical bounds.
package chartscale

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/aquamon/MarineDataViewer/src/series"
)

// Policy selects how automatic bounds are finished.
type Policy int

const (
	// PolicyNice rounds bounds outward to a step derived from the span's
	// order of magnitude and emits matching ticks.
	PolicyNice Policy = iota
	// PolicyPadded pads 5% of the span on each side and clamps the minimum
	// at zero.
	PolicyPadded
)

// Domain is one axis range.
type Domain struct {
	Min, Max float64
}

// Range converts a domain to a go-chart continuous range.
func (d Domain) Range() *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: d.Min, Max: d.Max}
}

const padFraction = 0.05

// paramBounds scans one parameter's values across the display data,
// substituting explicit range bounds where set. ok is false when neither data
// nor explicit bounds produced a limit.
func paramBounds(data []series.Record, name string, st series.ParamState) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, r := range data {
		if v, ok := r.Values[name]; ok && !math.IsNaN(v) {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			found = true
		}
	}
	if st.AxisRange != nil {
		if st.AxisRange.Min != nil {
			lo = *st.AxisRange.Min
			found = true
		}
		if st.AxisRange.Max != nil {
			hi = *st.AxisRange.Max
			found = true
		}
	}
	if !found || lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

// SingleAxisDomain computes the shared domain for all visible parameters.
// When every visible parameter carries a complete explicit range the result
// is the envelope of those ranges with no further adjustment; otherwise the
// scanned bounds are finished per the policy.
func SingleAxisDomain(data []series.Record, visible []string, store *series.Store, policy Policy) Domain {
	if len(visible) == 0 {
		return fallbackDomain(policy)
	}
	allExplicit := true
	for _, name := range visible {
		if !store.Get(name).AxisRange.Complete() {
			allExplicit = false
			break
		}
	}
	if allExplicit {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, name := range visible {
			r := store.Get(name).AxisRange
			if *r.Min < lo {
				lo = *r.Min
			}
			if *r.Max > hi {
				hi = *r.Max
			}
		}
		return Domain{Min: lo, Max: hi}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, name := range visible {
		plo, phi, ok := paramBounds(data, name, store.Get(name))
		if !ok {
			continue
		}
		if plo < lo {
			lo = plo
		}
		if phi > hi {
			hi = phi
		}
		found = true
	}
	if !found {
		return fallbackDomain(policy)
	}
	switch policy {
	case PolicyPadded:
		return padDomain(lo, hi)
	default:
		d, _ := NiceDomain(lo, hi)
		return d
	}
}

// MultiAxisDomains computes one independent domain per visible parameter: its
// explicit range when complete, otherwise its own padded data bounds. There
// is no cross-parameter interaction.
func MultiAxisDomains(data []series.Record, visible []string, store *series.Store) map[string]Domain {
	out := make(map[string]Domain, len(visible))
	for _, name := range visible {
		st := store.Get(name)
		if st.AxisRange.Complete() {
			out[name] = Domain{Min: *st.AxisRange.Min, Max: *st.AxisRange.Max}
			continue
		}
		lo, hi, ok := paramBounds(data, name, st)
		if !ok {
			out[name] = fallbackDomain(PolicyPadded)
			continue
		}
		out[name] = padDomain(lo, hi)
	}
	return out
}

func fallbackDomain(policy Policy) Domain {
	if policy == PolicyPadded {
		return Domain{Min: 0, Max: 1}
	}
	d, _ := NiceDomain(0, 1)
	return d
}

func padDomain(lo, hi float64) Domain {
	span := hi - lo
	pad := span * padFraction
	if pad <= 0 {
		pad = 1
	}
	min := lo - pad
	if min < 0 {
		min = 0
	}
	return Domain{Min: min, Max: hi + pad}
}

// NiceDomain rounds [min,max] outward to a step of 20%, 50%, 100%, or 200% of
// the span's order of magnitude, picking the step that keeps the tick count
// readable, and returns the matching tick positions.
func NiceDomain(min, max float64) (Domain, []float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return Domain{Min: min, Max: max}, nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	step := mag
	for _, f := range []float64{0.2, 0.5, 1, 2} {
		step = f * mag
		if math.Ceil(span/step)+1 <= 8 {
			break
		}
	}
	lo := math.Floor(min/step) * step
	hi := math.Ceil(max/step) * step
	var ticks []float64
	for v := lo; v <= hi+step/2; v += step {
		ticks = append(ticks, round6(v))
		if len(ticks) > 12 {
			break
		}
	}
	return Domain{Min: lo, Max: hi}, ticks
}

// Ticks generates up to n tick marks over the domain using the 1, 2, 2.5, 5
// step family, with compact labels.
func Ticks(d Domain, n int) []chart.Tick {
	if n < 2 || math.IsNaN(d.Min) || math.IsNaN(d.Max) {
		return nil
	}
	min, max := d.Min, d.Max
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var ticks []chart.Tick
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: round6(v), Label: FormatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

// NiceTicks returns chart ticks at the positions NiceDomain derived.
func NiceTicks(min, max float64) (Domain, []chart.Tick) {
	d, positions := NiceDomain(min, max)
	ticks := make([]chart.Tick, 0, len(positions))
	for _, v := range positions {
		ticks = append(ticks, chart.Tick{Value: v, Label: FormatTick(v)})
	}
	return d, ticks
}

// FormatTick renders a compact axis label.
func FormatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	case av >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// round6 stabilizes accumulated float steps for label generation.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
