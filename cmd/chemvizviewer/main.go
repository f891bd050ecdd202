package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/chemviz/chemviz/cmd/chemvizviewer/uihelpers"
	"github.com/chemviz/chemviz/src/backend"
	"github.com/chemviz/chemviz/src/charts"
	"github.com/chemviz/chemviz/src/config"
	"github.com/chemviz/chemviz/src/export"
	"github.com/chemviz/chemviz/src/fetch"
	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/render"
	"github.com/chemviz/chemviz/src/types"
	"github.com/chemviz/chemviz/src/view"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    config.Config
	back   backend.Backend

	orch *fetch.Orchestrator
	ctrl *view.Controller
	pipe *export.Pipeline

	// latest applied snapshot; only touched on the UI goroutine
	snap fetch.Snapshot
	rows []charts.Row

	showHints bool
	// suppresses select callbacks while controls are synced from the controller
	syncing bool

	// widgets
	datasetEntry *widget.Entry
	statusLabel  *widget.Label
	barSelect    *widget.Select
	xSelect      *widget.Select
	ySelect      *widget.Select
	exportBtn    *widget.Button
	kpiBox       *fyne.Container
	tabs         *container.AppTabs
	modeViews    map[view.Mode]*fyne.Container
	table        *widget.Table
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

func metricLabels() []string {
	out := make([]string, 0, len(types.AllMetrics))
	for _, m := range types.AllMetrics {
		out = append(out, m.Label())
	}
	return out
}

func main() {
	cf := config.RegisterFlags(flag.CommandLine)
	var datasetFlag, modeFlag, barFlag string
	var screenshots bool
	var screenshotsOut string
	var screenshotsWidth int
	flag.StringVar(&datasetFlag, "dataset", "", "Dataset id to open at startup")
	flag.StringVar(&modeFlag, "mode", string(view.Overview), "Initial view mode: overview, trends, equipment, correlations")
	flag.StringVar(&barFlag, "bar", string(types.Flowrate), "Initial overview bar metric")
	flag.BoolVar(&screenshots, "screenshots", false, "Render every view of -dataset as PNGs headlessly and exit")
	flag.StringVar(&screenshotsOut, "screenshots-out", "docs/images", "Output directory for -screenshots")
	flag.IntVar(&screenshotsWidth, "screenshots-width", 1200, "Chart width for -screenshots")
	flag.Parse()

	cfg, err := cf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	logging.SetLevel(cfg.LogLevel)
	b, err := backend.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if screenshots {
		if err := RunScreenshotsMode(b, datasetFlag, screenshotsOut, screenshotsWidth, false); err != nil {
			fmt.Fprintf(os.Stderr, "screenshots error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[viewer] screenshots written to %s\n", screenshotsOut)
		return
	}

	a := app.NewWithID("com.chemviz.viewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("ChemViz Viewer")
	w.Resize(fyne.NewSize(1200, 860))

	state := &uiState{
		app:       a,
		window:    w,
		cfg:       cfg,
		back:      b,
		orch:      fetch.NewOrchestrator(b.Data, cfg.FetchFloor.Std()),
		ctrl:      view.NewController(),
		modeViews: map[view.Mode]*fyne.Container{},
	}
	state.pipe = b.Pipeline(cfg, dialogNotifier{window: w},
		export.NativeSaveAs{Dialog: saveDialog{window: w}},
		export.PromptedDownload{Prompter: formPrompter{window: w}, Download: export.LinkDownload{Dir: cfg.DownloadDir}},
	)
	if m, err := view.ParseMode(modeFlag); err == nil {
		start := view.Initial()
		start.Mode = m
		if bm, err := types.ParseMetric(barFlag); err == nil {
			start.BarMetric = bm
		}
		state.ctrl.Replace(start)
	} else {
		logging.Warnf("[viewer] %v; starting in overview", err)
	}

	// top bar controls
	state.datasetEntry = widget.NewEntry()
	state.datasetEntry.SetPlaceHolder("dataset id")
	state.datasetEntry.SetText(datasetFlag)
	state.datasetEntry.OnSubmitted = func(id string) { openDataset(state, id) }
	state.statusLabel = widget.NewLabel("No dataset open")
	// Create selects without callbacks first; we'll wire them after canvases exist
	state.barSelect = widget.NewSelect(metricLabels(), nil)
	state.xSelect = widget.NewSelect(metricLabels(), nil)
	state.ySelect = widget.NewSelect(metricLabels(), nil)
	hintsChk := widget.NewCheck("Hints", nil)

	state.exportBtn = widget.NewButton("Export PDF", func() { exportReport(state) })
	state.exportBtn.Disable()
	openBtn := widget.NewButton("Open", func() { openDataset(state, state.datasetEntry.Text) })
	reloadBtn := widget.NewButton("Reload", func() { openDataset(state, state.snap.DatasetID) })

	state.kpiBox = container.NewGridWithColumns(4)
	updateKPIs(state)

	// records table: 1 header row + data rows
	state.table = widget.NewTable(
		func() (int, int) { return len(state.rows) + 1, uihelpers.NumColumns },
		func() fyne.CanvasObject {
			bar := widget.NewProgressBar()
			bar.Max = 100
			return container.NewStack(widget.NewLabel(""), bar)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) { updateCell(state, id, o) },
	)
	updateColumnWidths(state)

	// one tab per mode, each a scrollable stack of chart images
	var items []*container.TabItem
	for _, m := range view.AllModes {
		box := container.NewVBox()
		state.modeViews[m] = box
		items = append(items, container.NewTabItem(m.Title(), container.NewVScroll(box)))
	}
	state.tabs = container.NewAppTabs(items...)
	state.tabs.SetTabLocation(container.TabLocationTop)

	top := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Dataset:"), container.NewHBox(openBtn, reloadBtn, state.exportBtn), state.datasetEntry),
		container.NewHBox(
			widget.NewLabel("Bar Metric:"), state.barSelect,
			widget.NewLabel("X-Axis:"), state.xSelect,
			widget.NewLabel("Y-Axis:"), state.ySelect,
			hintsChk, layout.NewSpacer(), state.statusLabel,
		),
		state.kpiBox,
	)
	split := container.NewVSplit(state.tabs, state.table)
	split.Offset = 0.68
	w.SetContent(container.NewBorder(top, nil, nil, nil, split))

	// Redraw charts on window resize so they scale with width
	prevW := int(w.Canvas().Size().Width)
	done := make(chan struct{})
	w.SetOnClosed(func() { close(done) })
	go func() {
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c := w.Canvas()
				if c == nil {
					continue
				}
				curW := int(c.Size().Width)
				if curW != prevW {
					prevW = curW
					fyne.Do(func() {
						updateColumnWidths(state)
						redrawCharts(state)
					})
				}
			}
		}
	}()

	// Wire callbacks now that canvases exist
	state.orch.OnChange(func(s fetch.Snapshot) {
		fyne.Do(func() { applySnapshot(state, s) })
	})
	state.ctrl.OnChange(func(view.ViewState) {
		syncControls(state)
		redrawCharts(state)
	})
	state.tabs.OnSelected = func(ti *container.TabItem) {
		idx := state.tabs.SelectedIndex()
		if idx < 0 || idx >= len(view.AllModes) {
			return
		}
		if _, err := state.ctrl.SetMode(view.AllModes[idx]); err != nil {
			logging.Warnf("[viewer] %v", err)
		}
	}
	state.barSelect.OnChanged = func(v string) {
		if state.syncing {
			return
		}
		m, err := types.ParseMetric(v)
		if err == nil {
			_, err = state.ctrl.SetBarMetric(m)
		}
		if err != nil {
			logging.Warnf("[viewer] bar metric: %v", err)
		}
	}
	axesChanged := func(string) {
		if state.syncing {
			return
		}
		x, errX := types.ParseMetric(state.xSelect.Selected)
		y, errY := types.ParseMetric(state.ySelect.Selected)
		if err := errors.Join(errX, errY); err != nil {
			logging.Warnf("[viewer] correlation axes: %v", err)
			return
		}
		if _, err := state.ctrl.SetCorrelationAxes(x, y); err != nil {
			logging.Warnf("[viewer] correlation axes: %v", err)
		}
	}
	state.xSelect.OnChanged = axesChanged
	state.ySelect.OnChanged = axesChanged
	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		redrawCharts(state)
	}

	buildMenus(state)
	syncControls(state)
	redrawCharts(state)
	if strings.TrimSpace(datasetFlag) != "" {
		a.Lifecycle().SetOnStarted(func() { openDataset(state, datasetFlag) })
	}

	w.ShowAndRun()
}

// menus and shortcuts
func buildMenus(state *uiState) {
	exportItem := fyne.NewMenuItem("Export PDF Report…", func() { exportReport(state) })
	exportItem.Disabled = !state.back.CanExport()
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Dataset…", func() { state.window.Canvas().Focus(state.datasetEntry) }),
		fyne.NewMenuItem("Reload", func() { openDataset(state, state.snap.DatasetID) }),
		fyne.NewMenuItemSeparator(),
		exportItem,
		fyne.NewMenuItem("Export Charts as PNG…", func() { exportChartsPNG(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	var modeItems []*fyne.MenuItem
	for _, m := range view.AllModes {
		m := m
		modeItems = append(modeItems, fyne.NewMenuItem(m.Title(), func() { state.ctrl.SetMode(m) }))
	}
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, fyne.NewMenu("View", modeItems...)))

	canv := state.window.Canvas()
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { openDataset(state, state.snap.DatasetID) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: mod}, func(fyne.Shortcut) { exportReport(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
	}
}

// openDataset switches to id: the view returns to its initial state and a new load starts.
// A response for a previously opened dataset is dropped by the orchestrator.
func openDataset(state *uiState, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		dialog.ShowInformation("Open", "Enter a dataset id first.", state.window)
		return
	}
	if id != state.snap.DatasetID {
		state.ctrl.Reset()
	}
	state.datasetEntry.SetText(id)
	fmt.Printf("[viewer] opening dataset %s from %s\n", id, state.back.Origin)
	state.orch.Open(context.Background(), id)
}

// applySnapshot runs on the UI goroutine for every applied orchestrator snapshot.
// Snapshots superseded while queued for the UI goroutine are dropped.
func applySnapshot(state *uiState, s fetch.Snapshot) {
	if s.Generation != state.orch.Snapshot().Generation {
		return
	}
	state.snap = s
	switch s.Phase {
	case fetch.Loading:
		state.statusLabel.SetText("Loading dataset " + s.DatasetID + "…")
		state.rows = nil
		state.exportBtn.Disable()
	case fetch.Ready:
		state.rows = charts.Table(s.Dataset.Records)
		state.statusLabel.SetText(fmt.Sprintf("Dataset %s: %d records (%s)", s.DatasetID, len(s.Dataset.Records), uihelpers.TruncatePath(state.back.Origin, 40)))
		if state.back.CanExport() {
			state.exportBtn.Enable()
		}
	case fetch.Failed:
		state.rows = nil
		state.statusLabel.SetText(fetch.ErrorLoading)
		logging.Errorf("[viewer] dataset %s: %v", s.DatasetID, s.Err)
		dialog.ShowError(errors.New(fetch.ErrorLoading), state.window)
	}
	updateKPIs(state)
	state.table.Refresh()
	redrawCharts(state)
}

// syncControls reflects the controller's state in the selects and the tab bar.
func syncControls(state *uiState) {
	s := state.ctrl.State()
	state.syncing = true
	defer func() { state.syncing = false }()
	state.barSelect.SetSelected(s.BarMetric.Label())
	state.xSelect.SetSelected(s.CorrelationX.Label())
	state.ySelect.SetSelected(s.CorrelationY.Label())
	// metric selects only drive the overview panels
	for _, sel := range []*widget.Select{state.barSelect, state.xSelect, state.ySelect} {
		if s.Mode == view.Overview {
			sel.Enable()
		} else {
			sel.Disable()
		}
	}
	for i, m := range view.AllModes {
		if m == s.Mode && state.tabs.SelectedIndex() != i {
			state.tabs.SelectIndex(i)
		}
	}
}

func updateKPIs(state *uiState) {
	var objs []fyne.CanvasObject
	for _, k := range charts.KPIs(state.snap.Dataset.Stats) {
		value := k.Value
		if state.snap.Phase != fetch.Ready {
			value = "-"
		} else if k.Unit != "" {
			value += " " + k.Unit
		}
		objs = append(objs, widget.NewCard("", k.Title, widget.NewLabelWithStyle(value, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})))
	}
	state.kpiBox.Objects = objs
	state.kpiBox.Refresh()
}

var columnHeaders = [uihelpers.NumColumns]string{
	"Equipment", "Type",
	"Flowrate (" + types.Flowrate.Unit() + ")", "Flow",
	"Pressure (" + types.Pressure.Unit() + ")", "Temperature (" + types.Temperature.Unit() + ")",
}

func updateCell(state *uiState, id widget.TableCellID, o fyne.CanvasObject) {
	stack := o.(*fyne.Container)
	lbl := stack.Objects[0].(*widget.Label)
	bar := stack.Objects[1].(*widget.ProgressBar)
	lbl.Importance = widget.MediumImportance
	lbl.TextStyle = fyne.TextStyle{Bold: id.Row == 0}
	bar.Hide()
	lbl.Show()
	if id.Row == 0 {
		lbl.SetText(columnHeaders[id.Col])
		return
	}
	rix := id.Row - 1
	if rix < 0 || rix >= len(state.rows) {
		lbl.SetText("")
		return
	}
	r := state.rows[rix]
	switch id.Col {
	case uihelpers.ColName:
		lbl.SetText(r.Name)
	case uihelpers.ColType:
		lbl.SetText(r.Type)
	case uihelpers.ColFlowrate:
		lbl.SetText(r.Flowrate)
	case uihelpers.ColFlowGauge:
		lbl.Hide()
		bar.SetValue(r.FlowGaugePct)
		bar.Show()
	case uihelpers.ColPressure:
		lbl.SetText(r.Pressure)
	case uihelpers.ColTemperature:
		if r.HighTemp {
			lbl.Importance = widget.DangerImportance
		}
		lbl.SetText(r.Temperature)
	}
}

func updateColumnWidths(state *uiState) {
	var winW float32 = 1200
	if c := state.window.Canvas(); c != nil && c.Size().Width > 0 {
		winW = c.Size().Width
	}
	for i, cw := range uihelpers.ComputeTableColumnWidths(winW) {
		state.table.SetColumnWidth(i, float32(cw))
	}
}

// chartOptions sizes panels for the current window width.
func chartOptions(state *uiState, panels int) (render.Options, int) {
	var winW float32 = 1200
	if c := state.window.Canvas(); c != nil && c.Size().Width > 0 {
		winW = c.Size().Width
	}
	cols := uihelpers.ComputeGridColumns(winW, panels)
	cw, ch := uihelpers.ComputePanelDimensions(winW, cols)
	return render.Options{Width: cw, Height: ch, Hints: state.showHints}, cols
}

// redrawCharts renders the panels of the current mode into its tab.
func redrawCharts(state *uiState) {
	s := state.ctrl.State()
	box := state.modeViews[s.Mode]
	if box == nil {
		return
	}
	switch state.snap.Phase {
	case fetch.Idle:
		box.Objects = []fyne.CanvasObject{widget.NewLabel("Open a dataset to see its charts.")}
		box.Refresh()
		return
	case fetch.Loading:
		bar := widget.NewProgressBarInfinite()
		box.Objects = []fyne.CanvasObject{widget.NewLabel("Loading…"), bar}
		box.Refresh()
		return
	case fetch.Failed:
		box.Objects = []fyne.CanvasObject{widget.NewLabel(fetch.ErrorLoading)}
		box.Refresh()
		return
	}
	defer logging.TimeTrack(time.Now(), "[viewer] redraw "+string(s.Mode))
	panels := view.Panels(s)
	o, cols := chartOptions(state, len(panels))
	ds := state.snap.Dataset
	imgs := make([]fyne.CanvasObject, 0, len(panels))
	for _, p := range panels {
		img := canvas.NewImageFromImage(render.Panel(p, ds.Stats, ds.Records, o))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(float32(o.Width), float32(o.Height)))
		imgs = append(imgs, img)
	}
	box.Objects = []fyne.CanvasObject{container.NewGridWithColumns(cols, imgs...)}
	box.Refresh()
}

// exportReport runs the export pipeline off the UI goroutine.
func exportReport(state *uiState) {
	if state.pipe == nil {
		dialog.ShowInformation("Export", "This data source has no PDF report.", state.window)
		return
	}
	if state.snap.Phase != fetch.Ready {
		dialog.ShowInformation("Export", "Open a dataset first.", state.window)
		return
	}
	id := state.snap.DatasetID
	state.exportBtn.Disable()
	state.pipe.OnState = func(s export.State) {
		fyne.Do(func() {
			if s != export.Idle {
				state.statusLabel.SetText("Export: " + s.String())
			}
		})
	}
	go func() {
		out := state.pipe.TriggerExport(context.Background(), id)
		fyne.Do(func() {
			state.exportBtn.Enable()
			switch out.Status {
			case export.Saved:
				state.statusLabel.SetText("Saved " + uihelpers.TruncatePath(out.Path, 60))
			case export.Cancelled:
				state.statusLabel.SetText("Export cancelled")
			default:
				if errors.Is(out.Err, export.ErrBusy) {
					return
				}
				state.statusLabel.SetText("Export failed")
			}
		})
	}()
}

// exportChartsPNG writes every panel of the current mode into a chosen folder.
func exportChartsPNG(state *uiState) {
	if state.snap.Phase != fetch.Ready {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	d := dialog.NewFolderOpen(func(lu fyne.ListableURI, err error) {
		if err != nil || lu == nil {
			return
		}
		s := state.ctrl.State()
		o, _ := chartOptions(state, 1)
		ds := state.snap.Dataset
		paths, err := render.WriteSet(lu.Path(), s, ds.Stats, ds.Records, o)
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		dialog.ShowInformation("Export", fmt.Sprintf("Wrote %d charts to %s", len(paths), uihelpers.TruncatePath(lu.Path(), 50)), state.window)
	}, state.window)
	d.Show()
}
