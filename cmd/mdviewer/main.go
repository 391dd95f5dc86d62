package main

import (
	"flag"
	"fmt"
	"image/color"
	png "image/png"
	"path/filepath"
	"strconv"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/aquamon/MarineDataViewer/src/chartscale"
	"github.com/aquamon/MarineDataViewer/src/dataset"
	"github.com/aquamon/MarineDataViewer/src/logging"
	"github.com/aquamon/MarineDataViewer/src/plotview"
	"github.com/aquamon/MarineDataViewer/src/series"
	"github.com/aquamon/MarineDataViewer/src/taxonomy"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	filePath string
	cfg      *Config

	ds     *dataset.Dataset
	store  *series.Store
	lookup map[string]taxonomy.Info

	// window selection
	brushStart int
	brushEnd   int

	// modes
	multiAxis   bool
	scalePolicy chartscale.Policy
	showHints   bool

	// widgets
	seriesCanvas  *canvas.Image
	heatmapCanvas *canvas.Image
	summaryTable  *widget.Table
	fileLabel     *widget.Label
	startSlider   *widget.Slider
	endSlider     *widget.Slider
	rebuildParams func()
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var fileFlag, configFlag, logLevel string
	flag.StringVar(&fileFlag, "file", "", "Path to a samples CSV or JSONL file")
	flag.StringVar(&configFlag, "config", "", "Optional YAML config file")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()
	if logLevel != "" {
		logging.SetLevelString(logLevel)
	}

	cfg, err := LoadConfig(configFlag)
	if err != nil {
		logging.Errorf("config: %v", err)
		cfg = &Config{}
	}
	if logLevel == "" && cfg.LogLevel != "" {
		logging.SetLevelString(cfg.LogLevel)
	}

	a := app.NewWithID("com.aquamon.mdviewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Marine Data Viewer")
	w.Resize(fyne.NewSize(1200, 820))

	state := &uiState{
		app:         a,
		window:      w,
		filePath:    fileFlag,
		cfg:         cfg,
		store:       series.NewStore(nil),
		scalePolicy: chartscale.PolicyPadded,
	}
	loadPrefs(state)
	if fileFlag != "" {
		state.filePath = fileFlag
	}

	buildUI(state)
	if state.filePath != "" {
		loadAll(state)
	}
	w.SetOnClosed(func() { savePrefs(state) })
	w.ShowAndRun()
}

func (s *uiState) window2() series.Window {
	return series.Window{StartIndex: s.brushStart, EndIndex: s.brushEnd}
}

// displayData runs the pipeline for the current brush and parameter state.
func (s *uiState) displayData() []series.Record {
	if s.ds == nil {
		return nil
	}
	return series.ComputeDisplayData(s.ds.Records, s.window2(), series.TimeAxisIndependent, s.store)
}

func (s *uiState) chartTitle() string {
	title := "Samples"
	if s.cfg != nil && s.cfg.SiteName != "" {
		title = s.cfg.SiteName
	}
	if s.ds != nil {
		title += " – " + filepath.Base(s.ds.Source)
	}
	return title
}

func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return 1100, 340
	}
	sz := state.window.Canvas().Size()
	w := int(sz.Width*0.95) - 12
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.33)
	if h < 280 {
		h = 280
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

func buildUI(state *uiState) {
	state.fileLabel = widget.NewLabel(truncatePath(state.filePath, 60))
	openBtn := widget.NewButton("Open…", func() { openFileDialog(state) })

	state.seriesCanvas = canvas.NewImageFromImage(blank(1100, 340))
	state.seriesCanvas.FillMode = canvas.ImageFillContain
	state.heatmapCanvas = canvas.NewImageFromImage(blank(1100, 240))
	state.heatmapCanvas.FillMode = canvas.ImageFillContain

	state.startSlider = widget.NewSlider(0, 0)
	state.endSlider = widget.NewSlider(0, 0)
	state.startSlider.OnChanged = func(v float64) {
		state.brushStart = int(v)
		if state.brushStart > state.brushEnd {
			state.brushEnd = state.brushStart
			state.endSlider.SetValue(v)
		}
		redraw(state)
	}
	state.endSlider.OnChanged = func(v float64) {
		state.brushEnd = int(v)
		if state.brushEnd < state.brushStart {
			state.brushStart = state.brushEnd
			state.startSlider.SetValue(v)
		}
		redraw(state)
	}

	axisSelect := widget.NewSelect([]string{"Single axis", "Multi axis"}, func(v string) {
		state.multiAxis = v == "Multi axis"
		redraw(state)
	})
	axisSelect.Selected = "Single axis"
	if state.multiAxis {
		axisSelect.Selected = "Multi axis"
	}
	scaleSelect := widget.NewSelect([]string{"Padded", "Nice"}, func(v string) {
		if v == "Nice" {
			state.scalePolicy = chartscale.PolicyNice
		} else {
			state.scalePolicy = chartscale.PolicyPadded
		}
		redraw(state)
	})
	scaleSelect.Selected = "Padded"
	if state.scalePolicy == chartscale.PolicyNice {
		scaleSelect.Selected = "Nice"
	}
	hintsChk := widget.NewCheck("Hints", func(b bool) {
		state.showHints = b
		redraw(state)
	})
	hintsChk.Checked = state.showHints

	paramPanel := container.NewVBox()
	rebuildParamPanel := func() {
		paramPanel.Objects = nil
		paramPanel.Add(buildParamControls(state))
		paramPanel.Refresh()
	}

	exportBtn := widget.NewButton("Export PNG", func() {
		exportChartPNG(state, state.seriesCanvas, "marine-chart.png")
	})
	saveViewBtn := widget.NewButton("Save View…", func() { saveViewDialog(state) })
	loadViewBtn := widget.NewButton("Load View…", func() {
		loadViewDialog(state, func() {
			rebuildParamPanel()
			redraw(state)
		})
	})

	state.summaryTable = buildSummaryTable(state)

	tabs := container.NewAppTabs(
		container.NewTabItem("Series", container.NewVScroll(container.NewVBox(state.seriesCanvas))),
		container.NewTabItem("Taxonomy", container.NewVScroll(container.NewVBox(state.heatmapCanvas))),
		container.NewTabItem("Summary", state.summaryTable),
	)

	controls := container.NewVBox(
		container.NewHBox(openBtn, state.fileLabel),
		container.NewHBox(widget.NewLabel("Axis:"), axisSelect, widget.NewLabel("Scale:"), scaleSelect, hintsChk),
		widget.NewLabel("Brush start / end:"),
		state.startSlider,
		state.endSlider,
		container.NewHBox(exportBtn, saveViewBtn, loadViewBtn),
		widget.NewSeparator(),
		paramPanel,
	)
	rebuildParamPanel()

	split := container.NewHSplit(container.NewVScroll(controls), tabs)
	split.SetOffset(0.28)
	state.window.SetContent(split)

	state.rebuildParams = rebuildParamPanel
}

// buildParamControls builds the per-parameter styling controls: one block per
// parameter with every setter the store exposes.
func buildParamControls(state *uiState) fyne.CanvasObject {
	if state.ds == nil || len(state.store.Params()) == 0 {
		return widget.NewLabel("No data loaded")
	}
	sel := widget.NewSelect(state.store.Params(), nil)
	body := container.NewVBox()
	rebuild := func(name string) {
		body.Objects = nil
		if name == "" {
			body.Refresh()
			return
		}
		st := state.store.Get(name)

		visible := widget.NewCheck("Visible", func(b bool) {
			state.store.SetVisible(name, b)
			redraw(state)
		})
		visible.Checked = st.Visible

		colorEntry := widget.NewEntry()
		colorEntry.SetText(st.Color)
		colorEntry.OnSubmitted = func(v string) {
			state.store.SetColor(name, v)
			redraw(state)
		}

		opacity := widget.NewSlider(0, 1)
		opacity.Step = 0.05
		opacity.Value = st.Opacity
		opacity.OnChanged = func(v float64) {
			state.store.SetOpacity(name, v)
			redraw(state)
		}

		width := widget.NewSlider(0.5, 4)
		width.Step = 0.5
		width.Value = st.LineWidth
		width.OnChanged = func(v float64) {
			state.store.SetLineWidth(name, v)
			redraw(state)
		}

		styleSel := widget.NewSelect([]string{"solid", "dashed"}, func(v string) {
			state.store.SetLineStyle(name, series.LineStyle(v))
			redraw(state)
		})
		styleSel.Selected = string(st.LineStyle)

		maDays := widget.NewEntry()
		maDays.SetPlaceHolder("days")
		if st.MovingAverage != nil {
			maDays.SetText(strconv.FormatFloat(st.MovingAverage.WindowDays, 'f', -1, 64))
		}
		maChk := widget.NewCheck("Moving average", func(b bool) {
			days, err := strconv.ParseFloat(strings.TrimSpace(maDays.Text), 64)
			if err != nil || days <= 0 {
				days = 1
			}
			if b {
				state.store.SetMovingAverage(name, &series.MovingAverage{Enabled: true, WindowDays: days, ShowLine: true})
			} else {
				state.store.SetMovingAverage(name, nil)
			}
			redraw(state)
		})
		maChk.Checked = st.MovingAverage != nil && st.MovingAverage.Enabled

		tfStart := widget.NewEntry()
		tfStart.SetPlaceHolder("22:00")
		tfEnd := widget.NewEntry()
		tfEnd.SetPlaceHolder("02:00")
		if st.TimeFilter != nil {
			tfStart.SetText(st.TimeFilter.Start)
			tfEnd.SetText(st.TimeFilter.End)
		}
		tfChk := widget.NewCheck("Exclude time of day", func(b bool) {
			if b {
				state.store.SetTimeFilter(name, &series.TimeFilter{
					Enabled: true,
					Start:   strings.TrimSpace(tfStart.Text),
					End:     strings.TrimSpace(tfEnd.Text),
				})
			} else {
				state.store.SetTimeFilter(name, nil)
			}
			redraw(state)
		})
		tfChk.Checked = st.TimeFilter != nil && st.TimeFilter.Enabled

		axMin := widget.NewEntry()
		axMin.SetPlaceHolder("auto")
		axMax := widget.NewEntry()
		axMax.SetPlaceHolder("auto")
		if st.AxisRange != nil && st.AxisRange.Min != nil {
			axMin.SetText(strconv.FormatFloat(*st.AxisRange.Min, 'f', -1, 64))
		}
		if st.AxisRange != nil && st.AxisRange.Max != nil {
			axMax.SetText(strconv.FormatFloat(*st.AxisRange.Max, 'f', -1, 64))
		}
		applyRange := func(string) {
			r := &series.AxisRange{}
			if v, err := strconv.ParseFloat(strings.TrimSpace(axMin.Text), 64); err == nil {
				r.Min = &v
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(axMax.Text), 64); err == nil {
				r.Max = &v
			}
			if r.Min == nil && r.Max == nil {
				state.store.SetAxisRange(name, nil)
			} else {
				state.store.SetAxisRange(name, r)
			}
			redraw(state)
		}
		axMin.OnSubmitted = applyRange
		axMax.OnSubmitted = applyRange

		body.Add(visible)
		body.Add(container.NewHBox(widget.NewLabel("Color:"), colorEntry, styleSel))
		body.Add(widget.NewLabel("Opacity / width:"))
		body.Add(opacity)
		body.Add(width)
		body.Add(container.NewHBox(maChk, maDays))
		body.Add(container.NewHBox(tfChk, tfStart, tfEnd))
		body.Add(container.NewHBox(widget.NewLabel("Y range:"), axMin, axMax))
		body.Refresh()
	}
	sel.OnChanged = rebuild
	if params := state.store.Params(); len(params) > 0 {
		sel.Selected = params[0]
		rebuild(params[0])
	}
	return container.NewVBox(widget.NewLabel("Parameter:"), sel, body)
}

func buildSummaryTable(state *uiState) *widget.Table {
	headers := []string{"Parameter", "Count", "Min", "Max", "Mean"}
	return widget.NewTable(
		func() (int, int) {
			if state.ds == nil {
				return 1, len(headers)
			}
			return len(state.ds.Parameters) + 1, len(headers)
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(headers[id.Col])
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			sums := dataset.Summarize(state.ds)
			if id.Row-1 >= len(sums) {
				lbl.SetText("")
				return
			}
			s := sums[id.Row-1]
			switch id.Col {
			case 0:
				lbl.SetText(s.Name)
			case 1:
				lbl.SetText(fmt.Sprintf("%d", s.Count))
			case 2:
				lbl.SetText(formatSummaryValue(s.Min))
			case 3:
				lbl.SetText(formatSummaryValue(s.Max))
			case 4:
				lbl.SetText(formatSummaryValue(s.Mean))
			}
		},
	)
}

func openFileDialog(state *uiState) {
	fo := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		state.fileLabel.SetText(truncatePath(state.filePath, 60))
		loadAll(state)
	}, state.window)
	fo.Show()
}

// loadAll loads the dataset and reconciles the parameter store: states for
// persisting parameters survive a reload.
func loadAll(state *uiState) {
	ds, err := dataset.Load(state.filePath)
	if err != nil {
		logging.Errorf("load %s: %v", state.filePath, err)
		dialog.ShowError(err, state.window)
		return
	}
	state.ds = ds
	state.store.Reconcile(ds.Parameters)
	applyConfig(state.cfg, state.store)
	if state.cfg.TaxonomyTable != "" {
		if lk, err := taxonomy.LoadLookup(state.cfg.TaxonomyTable); err == nil {
			state.lookup = lk
		} else {
			logging.Warnf("taxonomy table %s: %v", state.cfg.TaxonomyTable, err)
		}
	}
	n := len(ds.Records)
	state.brushStart = 0
	state.brushEnd = n - 1
	if state.brushEnd < 0 {
		state.brushEnd = 0
	}
	state.startSlider.Max = float64(state.brushEnd)
	state.endSlider.Max = float64(state.brushEnd)
	state.startSlider.SetValue(0)
	state.endSlider.SetValue(float64(state.brushEnd))
	addRecentFile(state, state.filePath)
	if state.rebuildParams != nil {
		state.rebuildParams()
	}
	redraw(state)
}

func redraw(state *uiState) {
	if state.seriesCanvas != nil {
		state.seriesCanvas.Image = renderSeriesChart(state)
		cw, chh := chartSize(state)
		state.seriesCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
		state.seriesCanvas.Refresh()
	}
	if state.heatmapCanvas != nil {
		img := renderHeatmap(state)
		state.heatmapCanvas.Image = img
		state.heatmapCanvas.SetMinSize(fyne.NewSize(float32(img.Bounds().Dx()), float32(img.Bounds().Dy())))
		state.heatmapCanvas.Refresh()
	}
	if state.summaryTable != nil {
		state.summaryTable.Refresh()
	}
}

func saveViewDialog(state *uiState) {
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		v := plotview.Snapshot("", state.store, state.window2())
		if err := plotview.Save(wc, v); err != nil {
			logging.Errorf("save view: %v", err)
		}
	}, state.window)
	fs.SetFileName("plot-view.json")
	fs.Show()
}

func loadViewDialog(state *uiState, done func()) {
	fo := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		v, err := plotview.Load(rc)
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		win := plotview.Apply(v, state.store)
		state.brushStart = win.StartIndex
		state.brushEnd = win.EndIndex
		if state.ds != nil {
			max := len(state.ds.Records) - 1
			if state.brushEnd > max {
				state.brushEnd = max
			}
			if state.brushStart < 0 {
				state.brushStart = 0
			}
			state.startSlider.SetValue(float64(state.brushStart))
			state.endSlider.SetValue(float64(state.brushEnd))
		}
		done()
	}, state.window)
	fo.Show()
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil || img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		_ = png.Encode(wc, img.Image)
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// recent files
func addRecentFile(state *uiState, path string) {
	prefs := state.app.Preferences()
	raw := prefs.StringWithFallback("recentFiles", "")
	filtered := []string{path}
	for _, f := range strings.Split(raw, "\n") {
		if f != "" && f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	prefs.SetString("recentFiles", strings.Join(filtered, "\n"))
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetBool("multiAxis", state.multiAxis)
	prefs.SetBool("niceScale", state.scalePolicy == chartscale.PolicyNice)
	prefs.SetBool("showHints", state.showHints)
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if f := prefs.StringWithFallback("lastFile", state.filePath); f != "" {
		state.filePath = f
	}
	state.multiAxis = prefs.BoolWithFallback("multiAxis", false)
	if prefs.BoolWithFallback("niceScale", false) {
		state.scalePolicy = chartscale.PolicyNice
	}
	state.showHints = prefs.BoolWithFallback("showHints", false)
}

func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	return "…" + p[len(p)-n+1:]
}
