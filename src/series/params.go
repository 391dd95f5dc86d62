package series

// LineStyle selects the stroke pattern for a plotted series.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
)

// TimeFilter is a daily recurring exclusion window, inclusive of both bounds.
// When Start sorts after End the window wraps past midnight.
type TimeFilter struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"excludeStart"` // "HH:mm"
	End     string `json:"excludeEnd"`   // "HH:mm"
}

// MovingAverage configures the trailing moving-average overlay for one
// parameter.
type MovingAverage struct {
	Enabled    bool    `json:"enabled"`
	WindowDays float64 `json:"windowDays"`
	ShowLine   bool    `json:"showLine"`
}

// AxisRange overrides automatic domain computation. Only a range with both
// bounds set replaces scanning entirely; a single bound substitutes that side.
type AxisRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Complete reports whether both bounds are set.
func (r *AxisRange) Complete() bool { return r != nil && r.Min != nil && r.Max != nil }

// ParamState is the display configuration of one base parameter.
type ParamState struct {
	Visible       bool           `json:"visible"`
	Color         string         `json:"color"`
	Opacity       float64        `json:"opacity"`
	LineStyle     LineStyle      `json:"lineStyle"`
	LineWidth     float64        `json:"lineWidth"`
	TimeFilter    *TimeFilter    `json:"timeFilter,omitempty"`
	MovingAverage *MovingAverage `json:"movingAverage,omitempty"`
	AxisRange     *AxisRange     `json:"yAxisRange,omitempty"`
}

// OverlayStyle holds the cosmetic fields of a moving-average overlay. The
// overlay's existence is never stored; it is derived from the base
// parameter's MovingAverage state on every read.
type OverlayStyle struct {
	Color     string    `json:"color"`
	Opacity   float64   `json:"opacity"`
	LineStyle LineStyle `json:"lineStyle"`
	LineWidth float64   `json:"lineWidth"`
}

const (
	defaultOpacity   = 1.0
	defaultLineWidth = 1.5
	minLineWidth     = 0.5
	maxLineWidth     = 4.0
)

// defaultPalette cycles through distinguishable hex colors for newly seen
// parameters.
var defaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Store maps parameter names to their display configuration. Base parameters
// and moving-average overlay styles live in separate maps keyed by the base
// name, so nothing dispatches on a "_ma" suffix. Parameter order follows the
// data source's column order.
type Store struct {
	order    []string
	base     map[string]*ParamState
	overlays map[string]*OverlayStyle
}

// NewStore initializes one entry per parameter with defaults, preserving the
// given order.
func NewStore(params []string) *Store {
	s := &Store{base: map[string]*ParamState{}, overlays: map[string]*OverlayStyle{}}
	s.Reconcile(params)
	return s
}

func defaultState(i int) *ParamState {
	return &ParamState{
		Visible:   true,
		Color:     defaultPalette[i%len(defaultPalette)],
		Opacity:   defaultOpacity,
		LineStyle: LineSolid,
		LineWidth: defaultLineWidth,
	}
}

// Reconcile aligns the store with a new parameter list: entries whose key
// persists are preserved as-is, new parameters get defaults, and entries for
// vanished parameters are dropped together with their overlay styles.
func (s *Store) Reconcile(params []string) {
	next := make(map[string]*ParamState, len(params))
	order := make([]string, 0, len(params))
	for i, p := range params {
		if st, ok := s.base[p]; ok {
			next[p] = st
		} else {
			next[p] = defaultState(i)
		}
		order = append(order, p)
	}
	for name := range s.overlays {
		if _, ok := next[name]; !ok {
			delete(s.overlays, name)
		}
	}
	s.base = next
	s.order = order
}

// Params returns parameter names in source order.
func (s *Store) Params() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the state for a parameter. Unknown parameters yield defaults so
// callers never need to special-case missing configuration.
func (s *Store) Get(name string) ParamState {
	if st, ok := s.base[name]; ok {
		return *st
	}
	return *defaultState(0)
}

// Has reports whether the parameter is known to the store.
func (s *Store) Has(name string) bool {
	_, ok := s.base[name]
	return ok
}

func (s *Store) mut(name string) *ParamState {
	st, ok := s.base[name]
	if !ok {
		return nil
	}
	return st
}

func (s *Store) SetVisible(name string, v bool) {
	if st := s.mut(name); st != nil {
		st.Visible = v
	}
}

func (s *Store) SetColor(name, hex string) {
	if st := s.mut(name); st != nil {
		st.Color = hex
	}
}

func (s *Store) SetOpacity(name string, o float64) {
	if st := s.mut(name); st != nil {
		if o < 0 {
			o = 0
		}
		if o > 1 {
			o = 1
		}
		st.Opacity = o
	}
}

func (s *Store) SetLineStyle(name string, ls LineStyle) {
	if st := s.mut(name); st != nil {
		st.LineStyle = ls
	}
}

func (s *Store) SetLineWidth(name string, w float64) {
	if st := s.mut(name); st != nil {
		if w < minLineWidth {
			w = minLineWidth
		}
		if w > maxLineWidth {
			w = maxLineWidth
		}
		st.LineWidth = w
	}
}

func (s *Store) SetTimeFilter(name string, f *TimeFilter) {
	if st := s.mut(name); st != nil {
		st.TimeFilter = f
	}
}

func (s *Store) SetMovingAverage(name string, ma *MovingAverage) {
	if st := s.mut(name); st != nil {
		st.MovingAverage = ma
	}
}

func (s *Store) SetAxisRange(name string, r *AxisRange) {
	if st := s.mut(name); st != nil {
		st.AxisRange = r
	}
}

// SetOverlayStyle records cosmetic overrides for a parameter's moving-average
// overlay. The override is retained regardless of whether the overlay is
// currently drawable; it only surfaces through OverlayStyleFor while the
// overlay exists.
func (s *Store) SetOverlayStyle(name string, st *OverlayStyle) {
	if !s.Has(name) {
		return
	}
	if st == nil {
		delete(s.overlays, name)
		return
	}
	cp := *st
	s.overlays[name] = &cp
}

// hasOverlay reports whether the moving-average overlay for a base parameter
// currently exists. Purely derived from base state.
func (s *Store) hasOverlay(name string) bool {
	st, ok := s.base[name]
	return ok && st.MovingAverage != nil && st.MovingAverage.Enabled && st.MovingAverage.ShowLine
}

// MovingAverageParams returns, in source order, the base parameters with an
// enabled moving average (regardless of whether the overlay line is shown;
// enrichment runs for all of them).
func (s *Store) MovingAverageParams() []string {
	var out []string
	for _, p := range s.order {
		st := s.base[p]
		if st.MovingAverage != nil && st.MovingAverage.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// OverlayStyleFor resolves the drawing style for a parameter's moving-average
// overlay: explicit overrides win, otherwise the overlay inherits the base
// color at reduced opacity with a dashed stroke. ok is false when the overlay
// does not currently exist.
func (s *Store) OverlayStyleFor(name string) (OverlayStyle, bool) {
	if !s.hasOverlay(name) {
		return OverlayStyle{}, false
	}
	if o, ok := s.overlays[name]; ok {
		return *o, true
	}
	base := s.base[name]
	return OverlayStyle{
		Color:     base.Color,
		Opacity:   base.Opacity * 0.8,
		LineStyle: LineDashed,
		LineWidth: base.LineWidth,
	}, true
}

// SeriesKey identifies one drawable series: either a base parameter or its
// moving-average overlay.
type SeriesKey struct {
	Param   string // base parameter name
	Key     string // display/data key ("<param>" or "<param>_ma")
	Overlay bool
}

// VisibleSeries computes the drawable series list from the current state:
// every visible base parameter, each immediately followed by its overlay when
// one exists. Recomputed on every call; never maintained separately.
func (s *Store) VisibleSeries() []SeriesKey {
	var out []SeriesKey
	for _, p := range s.order {
		st := s.base[p]
		if !st.Visible {
			continue
		}
		out = append(out, SeriesKey{Param: p, Key: p})
		if s.hasOverlay(p) {
			out = append(out, SeriesKey{Param: p, Key: MovingAverageKey(p), Overlay: true})
		}
	}
	return out
}

// Snapshot deep-copies the base states for persistence.
func (s *Store) Snapshot() map[string]ParamState {
	out := make(map[string]ParamState, len(s.base))
	for name, st := range s.base {
		cp := *st
		if st.TimeFilter != nil {
			f := *st.TimeFilter
			cp.TimeFilter = &f
		}
		if st.MovingAverage != nil {
			m := *st.MovingAverage
			cp.MovingAverage = &m
		}
		if st.AxisRange != nil {
			r := *st.AxisRange
			if st.AxisRange.Min != nil {
				v := *st.AxisRange.Min
				r.Min = &v
			}
			if st.AxisRange.Max != nil {
				v := *st.AxisRange.Max
				r.Max = &v
			}
			cp.AxisRange = &r
		}
		out[name] = cp
	}
	return out
}

// OverlaySnapshot copies the overlay style overrides for persistence.
func (s *Store) OverlaySnapshot() map[string]OverlayStyle {
	out := make(map[string]OverlayStyle, len(s.overlays))
	for name, o := range s.overlays {
		out[name] = *o
	}
	return out
}

// Restore applies a snapshot: only parameters the store currently knows are
// touched, so a saved view from an older dataset degrades gracefully.
func (s *Store) Restore(states map[string]ParamState, overlays map[string]OverlayStyle) {
	for name, st := range states {
		if cur, ok := s.base[name]; ok {
			cp := st
			*cur = cp
		}
	}
	for name, o := range overlays {
		cp := o
		s.SetOverlayStyle(name, &cp)
	}
}
