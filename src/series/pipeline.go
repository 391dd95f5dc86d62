package series

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeAxisMode controls how the window selection is interpreted.
type TimeAxisMode string

const (
	// TimeAxisIndependent windows by brush indices into the record sequence.
	TimeAxisIndependent TimeAxisMode = "independent"
	// TimeAxisCommon windows by absolute timestamps so multiple plots can
	// share one time range.
	TimeAxisCommon TimeAxisMode = "common"
)

// Window is the user's selection over the time axis: a brush index range,
// plus an optional absolute time range used in common mode.
type Window struct {
	StartIndex int       `json:"startIndex"`
	EndIndex   int       `json:"endIndex"`
	MinTime    time.Time `json:"minTime,omitempty"`
	MaxTime    time.Time `json:"maxTime,omitempty"`
	HasRange   bool      `json:"hasRange,omitempty"`
}

// FullWindow selects the whole record sequence.
func FullWindow(n int) Window {
	if n < 1 {
		return Window{}
	}
	return Window{StartIndex: 0, EndIndex: n - 1}
}

// Assumed sampling density when the data carries fewer than two parsable
// timestamps.
const defaultPointsPerDay = 24.0

// ComputeDisplayData derives the exact record sequence to plot from the raw
// series, the window selection, and the parameter configuration. Steps run in
// a fixed order: windowing, time-of-day filtering, moving-average enrichment.
// Input records are never mutated and output order matches input order.
func ComputeDisplayData(raw []Record, win Window, mode TimeAxisMode, store *Store) []Record {
	if len(raw) == 0 {
		return nil
	}
	windowed := applyWindow(raw, win, mode)
	filtered := applyTimeFilters(windowed, store)
	return applyMovingAverages(filtered, store)
}

func applyWindow(raw []Record, win Window, mode TimeAxisMode) []Record {
	if mode == TimeAxisCommon && win.HasRange {
		out := make([]Record, 0, len(raw))
		for _, r := range raw {
			t, ok := r.ParseTime()
			if !ok {
				// Unparsable timestamps cannot be placed on a shared
				// absolute axis.
				continue
			}
			if t.Before(win.MinTime) || t.After(win.MaxTime) {
				continue
			}
			out = append(out, r)
		}
		return out
	}
	start, end := win.StartIndex, win.EndIndex
	if start < 0 {
		start = 0
	}
	if start > len(raw)-1 {
		start = len(raw) - 1
	}
	if end < 0 {
		end = 0
	}
	if end > len(raw)-1 {
		end = len(raw) - 1
	}
	if start > end {
		return nil
	}
	return raw[start : end+1]
}

// parseClock converts "HH:mm" to minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// excludedAt reports whether a minute-of-day falls in the filter's exclusion
// window, both bounds inclusive. Start after End wraps past midnight.
func excludedAt(minute, start, end int) bool {
	if start <= end {
		return minute >= start && minute <= end
	}
	return minute >= start || minute <= end
}

func applyTimeFilters(in []Record, store *Store) []Record {
	type window struct{ start, end int }
	filters := map[string]window{}
	for _, p := range store.Params() {
		st := store.Get(p)
		if st.TimeFilter == nil || !st.TimeFilter.Enabled {
			continue
		}
		start, okS := parseClock(st.TimeFilter.Start)
		end, okE := parseClock(st.TimeFilter.End)
		if !okS || !okE {
			continue
		}
		filters[p] = window{start, end}
	}
	if len(filters) == 0 {
		return in
	}
	out := make([]Record, len(in))
	for i, r := range in {
		cp := r.Clone()
		t, ok := r.ParseTime()
		if ok {
			minute := t.Hour()*60 + t.Minute()
			for p, w := range filters {
				if _, has := cp.Values[p]; has && excludedAt(minute, w.start, w.end) {
					delete(cp.Values, p)
				}
			}
		}
		// Unparsable timestamps default to "not excluded".
		out[i] = cp
	}
	return out
}

// pointsPerDay infers the sampling density from the first two records'
// timestamps, falling back to an hourly assumption when the series is too
// short or the timestamps do not parse.
func pointsPerDay(in []Record) float64 {
	if len(in) < 2 {
		return defaultPointsPerDay
	}
	t0, ok0 := in[0].ParseTime()
	t1, ok1 := in[1].ParseTime()
	if !ok0 || !ok1 {
		return defaultPointsPerDay
	}
	d := t1.Sub(t0)
	if d <= 0 {
		return defaultPointsPerDay
	}
	return float64(24*time.Hour) / float64(d)
}

func applyMovingAverages(in []Record, store *Store) []Record {
	params := store.MovingAverageParams()
	if len(params) == 0 || len(in) == 0 {
		return in
	}
	ppd := pointsPerDay(in)
	sizes := make(map[string]int, len(params))
	for _, p := range params {
		st := store.Get(p)
		n := int(math.Round(st.MovingAverage.WindowDays * ppd))
		if n < 1 {
			n = 1
		}
		sizes[p] = n
	}
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	for _, p := range params {
		n := sizes[p]
		key := MovingAverageKey(p)
		// Trailing window: the value at i averages [i-n+1, i] and never
		// looks ahead. A window with zero usable values yields no key.
		for i := range in {
			lo := i - n + 1
			if lo < 0 {
				lo = 0
			}
			sum, count := 0.0, 0
			for j := lo; j <= i; j++ {
				if v, ok := in[j].Values[p]; ok && !math.IsNaN(v) {
					sum += v
					count++
				}
			}
			if count > 0 {
				out[i].Values[key] = sum / float64(count)
			}
		}
	}
	return out
}
