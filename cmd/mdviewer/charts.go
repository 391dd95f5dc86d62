package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"strconv"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/aquamon/MarineDataViewer/src/chartscale"
	"github.com/aquamon/MarineDataViewer/src/logging"
	"github.com/aquamon/MarineDataViewer/src/series"
	"github.com/aquamon/MarineDataViewer/src/taxonomy"
)

// parseHexColor parses "#rrggbb" (or "rrggbb"); alpha comes from opacity.
func parseHexColor(hex string, opacity float64) (drawing.Color, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return drawing.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return drawing.Color{}, false
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return drawing.Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(math.Round(opacity * 255)),
	}, true
}

// lineStyleFor converts a parameter's display configuration to a go-chart
// stroke style.
func lineStyleFor(hex string, opacity, width float64, ls series.LineStyle) chart.Style {
	col, ok := parseHexColor(hex, opacity)
	if !ok {
		col = drawing.Color{R: 128, G: 128, B: 128, A: 255}
	}
	st := chart.Style{StrokeColor: col, StrokeWidth: width}
	if ls == series.LineDashed {
		st.StrokeDashArray = []float64{5.0, 5.0}
	}
	return st
}

func pickTimeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 2*time.Hour:
		return 10 * time.Minute, "15:04"
	case span <= 6*time.Hour:
		return 30 * time.Minute, "Jan 2 15:04"
	case span <= 24*time.Hour:
		return 1 * time.Hour, "Jan 2 15:04"
	case span <= 3*24*time.Hour:
		return 6 * time.Hour, "Jan 2 15:04"
	case span <= 14*24*time.Hour:
		return 24 * time.Hour, "Jan 2"
	default:
		return 7 * 24 * time.Hour, "Jan 2"
	}
}

func makeTimeTicks(minT, maxT time.Time, step time.Duration, labelFmt string) []chart.Tick {
	if step <= 0 {
		return nil
	}
	st := int64(step.Seconds())
	if st <= 0 {
		st = 1
	}
	aligned := time.Unix((minT.UTC().Unix()/st)*st, 0).UTC()
	var ticks []chart.Tick
	for t := aligned; !t.After(maxT.UTC().Add(step)); t = t.Add(step) {
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.UTC().Format(labelFmt)})
		if len(ticks) > 20 {
			break
		}
	}
	return ticks
}

// buildTimeXAxis places the display records on an absolute time axis. Records
// without a parsable timestamp get interpolated positions so line continuity
// survives a stray bad row.
func buildTimeXAxis(recs []series.Record) ([]time.Time, chart.XAxis) {
	times := make([]time.Time, len(recs))
	var last time.Time
	for i, r := range recs {
		if t, ok := r.ParseTime(); ok {
			times[i] = t
			last = t
		} else {
			last = last.Add(time.Second)
			times[i] = last
		}
	}
	// strictly increasing for go-chart
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			times[i] = times[i-1].Add(time.Second)
		}
	}
	if len(times) == 0 {
		return times, chart.XAxis{Name: "Time"}
	}
	minT, maxT := times[0], times[len(times)-1]
	step, labFmt := pickTimeStep(maxT.Sub(minT))
	ticks := makeTimeTicks(minT, maxT, step, labFmt)
	minF := chart.TimeToFloat64(minT)
	maxF := chart.TimeToFloat64(maxT)
	if maxF <= minF {
		maxF = minF + 1
	}
	return times, chart.XAxis{Name: "Time", Ticks: ticks, Range: &chart.ContinuousRange{Min: minF, Max: maxF}}
}

// visibleKeys flattens the store's visible series to display keys.
func visibleKeys(store *series.Store) []string {
	refs := store.VisibleSeries()
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.Key)
	}
	return out
}

// renderSeriesChart draws all visible series over the display data. In multi
// axis mode each series is normalized to its own domain so unrelated units
// share the canvas; in single mode they share one computed domain.
func renderSeriesChart(state *uiState) image.Image {
	cw, chh := chartSize(state)
	display := state.displayData()
	if len(display) == 0 {
		return blank(cw, chh)
	}
	times, xAxis := buildTimeXAxis(display)
	refs := state.store.VisibleSeries()
	if len(refs) == 0 {
		return blank(cw, chh)
	}

	var domains map[string]chartscale.Domain
	var shared chartscale.Domain
	if state.multiAxis {
		domains = chartscale.MultiAxisDomains(display, visibleKeys(state.store), state.store)
	} else {
		shared = chartscale.SingleAxisDomain(display, visibleKeys(state.store), state.store, state.scalePolicy)
	}

	var chartSeries []chart.Series
	for _, ref := range refs {
		ys := make([]float64, len(display))
		for i, r := range display {
			if v, ok := r.Values[ref.Key]; ok {
				ys[i] = v
			} else {
				ys[i] = math.NaN() // rendering gap
			}
		}
		if state.multiAxis {
			d := domains[ref.Key]
			span := d.Max - d.Min
			if span <= 0 {
				span = 1
			}
			for i, v := range ys {
				if !math.IsNaN(v) {
					ys[i] = (v - d.Min) / span
				}
			}
		}
		var st chart.Style
		if ref.Overlay {
			os, _ := state.store.OverlayStyleFor(ref.Param)
			st = lineStyleFor(os.Color, os.Opacity, os.LineWidth, os.LineStyle)
		} else {
			ps := state.store.Get(ref.Param)
			st = lineStyleFor(ps.Color, ps.Opacity, ps.LineWidth, ps.LineStyle)
		}
		name := ref.Key
		if ref.Overlay {
			name = ref.Param + " (avg)"
		}
		if len(times) == 1 {
			chartSeries = append(chartSeries, chart.TimeSeries{
				Name:    name,
				XValues: []time.Time{times[0], times[0].Add(time.Second)},
				YValues: []float64{ys[0], ys[0]},
				Style:   st,
			})
			continue
		}
		chartSeries = append(chartSeries, chart.TimeSeries{Name: name, XValues: times, YValues: ys, Style: st})
	}

	yAxis := chart.YAxis{}
	if state.multiAxis {
		yAxis.Range = &chart.ContinuousRange{Min: 0, Max: 1}
	} else {
		yAxis.Range = shared.Range()
		if state.scalePolicy == chartscale.PolicyNice {
			_, ticks := chartscale.NiceTicks(shared.Min, shared.Max)
			yAxis.Ticks = ticks
		} else {
			yAxis.Ticks = chartscale.Ticks(shared, 6)
		}
	}

	padBottom := 48
	if state.showHints {
		padBottom += 18
	}
	ch := chart.Chart{
		Title:      state.chartTitle(),
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: padBottom}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     chartSeries,
		Width:      cw,
		Height:     chh,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		logging.Warnf("series chart render error: %v; showing blank fallback", err)
		return blank(cw, chh)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		logging.Warnf("series chart decode error: %v; showing blank fallback", err)
		return blank(cw, chh)
	}
	if state.showHints {
		return drawHint(img, "Hint: drag the brush sliders to zoom; gaps are filtered or unmeasured samples.")
	}
	return img
}

// heatColor maps a normalized value in [0,1] to a blue-to-red ramp; NaN is a
// neutral gap cell.
func heatColor(v float64) color.RGBA {
	if math.IsNaN(v) {
		return color.RGBA{R: 40, G: 40, B: 40, A: 255}
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	r := uint8(math.Round(255 * v))
	b := uint8(math.Round(255 * (1 - v)))
	g := uint8(math.Round(90 * (1 - math.Abs(2*v-1))))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

const (
	heatLabelWidth = 220
	heatRowHeight  = 14
	heatIndentPx   = 12
)

// renderHeatmap draws one row per taxonomy display row: grouping rank rows as
// indented labels, data rows as normalized color cells across the display
// window.
func renderHeatmap(state *uiState) image.Image {
	cw, _ := chartSize(state)
	display := state.displayData()
	rows := taxonomy.Rows(state.store.Params(), state.lookup)
	if len(rows) == 0 || len(display) == 0 {
		return blank(cw, 240)
	}
	h := len(rows)*heatRowHeight + 24
	img := image.NewRGBA(image.Rect(0, 0, cw, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 18, G: 18, B: 18, A: 255}), image.Point{}, draw.Src)

	cellW := float64(cw-heatLabelWidth) / float64(len(display))
	for ri, row := range rows {
		y0 := 12 + ri*heatRowHeight
		label := strings.Repeat(" ", row.Indent*2) + row.Label
		drawString(img, heatIndentPx*row.Indent+4, y0+heatRowHeight-3, label, color.RGBA{R: 220, G: 220, B: 220, A: 255})
		if !row.Entry {
			continue
		}
		// normalize this parameter over the visible window
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range display {
			if v, ok := r.Values[row.Source]; ok {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
		}
		span := hi - lo
		for ci, r := range display {
			v, ok := r.Values[row.Source]
			norm := math.NaN()
			if ok {
				if span > 0 {
					norm = (v - lo) / span
				} else {
					norm = 0.5
				}
			}
			col := heatColor(norm)
			x0 := heatLabelWidth + int(float64(ci)*cellW)
			x1 := heatLabelWidth + int(float64(ci+1)*cellW)
			if x1 <= x0 {
				x1 = x0 + 1
			}
			for y := y0; y < y0+heatRowHeight-2; y++ {
				for x := x0; x < x1 && x < cw; x++ {
					img.SetRGBA(x, y, col)
				}
			}
		}
	}
	return img
}

func drawString(img *image.RGBA, x, y int, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawHint draws a small hint string near the bottom-left of the image.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	drawString(rgba, b.Min.X+8, b.Max.Y-8, text, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return rgba
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 18, G: 18, B: 18, A: 255}), image.Point{}, draw.Src)
	return img
}

func formatSummaryValue(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}
