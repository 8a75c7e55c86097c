// Command hellyplot is a desktop viewer for combining CSV datasets and
// charting selected columns. All data handling lives in src/store, src/merge
// and src/plot; this package only wires widgets to those operations.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/Hellyhoken/helly-plot/cmd/hellyplot/uihelpers"
	"github.com/Hellyhoken/helly-plot/src/data"
	"github.com/Hellyhoken/helly-plot/src/merge"
	"github.com/Hellyhoken/helly-plot/src/plot"
	"github.com/Hellyhoken/helly-plot/src/store"
)

const indexOption = "(Index)"

type uiState struct {
	app    fyne.App
	window fyne.Window

	store    *store.Store
	renderer *plot.Renderer

	// data panel
	fileNames    []string
	selectedFile int
	fileList     *widget.List
	mergeSelect  *widget.Select
	mergeOn      *widget.Select
	statusLabel  *widget.Label

	// plot settings
	kindSelect   *widget.Select
	xSelect      *widget.Select
	yChecks      *widget.CheckGroup
	titleEntry   *widget.Entry
	xLabelEntry  *widget.Entry
	yLabelEntry  *widget.Entry
	markerSelect *widget.Select
	lineSelect   *widget.Select
	opacity      *widget.Slider
	gridChk      *widget.Check
	legendChk    *widget.Check

	chartCanvas *canvas.Image
}

func main() {
	var fileFlag string
	var logLevel string
	flag.StringVar(&fileFlag, "file", "", "CSV file to load at startup")
	flag.StringVar(&logLevel, "loglevel", "info", "log level: debug, info, warn, error")
	flag.Parse()
	data.SetLogLevel(logLevel)

	a := app.NewWithID("com.hellyhoken.hellyplot")
	w := a.NewWindow("Helly Plot")
	w.Resize(fyne.NewSize(1200, 800))

	state := &uiState{
		app:          a,
		window:       w,
		store:        store.New(),
		renderer:     plot.NewRenderer(),
		selectedFile: -1,
	}

	left := container.NewAppTabs(
		container.NewTabItem("Data", buildDataPanel(state)),
		container.NewTabItem("Plot Settings", buildPlotPanel(state)),
	)

	state.chartCanvas = canvas.NewImageFromImage(state.renderer.Image())
	state.chartCanvas.FillMode = canvas.ImageFillContain
	cw, chh := uihelpers.ComputeChartDimensions(800)
	state.chartCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))

	savePNG := widget.NewButton("Save as PNG", func() { exportDialog(state, "png") })
	saveSVG := widget.NewButton("Save as SVG", func() { exportDialog(state, "svg") })
	right := container.NewBorder(nil, container.NewHBox(savePNG, saveSVG), nil, nil, state.chartCanvas)

	split := container.NewHSplit(left, right)
	split.Offset = 0.28
	w.SetContent(split)

	buildMenus(state)
	loadPrefs(state)
	redraw(state)

	if fileFlag != "" {
		if err := loadPath(state, fileFlag); err != nil {
			dialog.ShowError(err, w)
		}
	}

	w.SetOnClosed(func() { savePrefs(state) })
	w.ShowAndRun()
}

func buildDataPanel(state *uiState) fyne.CanvasObject {
	state.fileList = widget.NewList(
		func() int { return len(state.fileNames) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(state.fileNames[i])
		},
	)
	state.fileList.OnSelected = func(i widget.ListItemID) { state.selectedFile = i }
	state.fileList.OnUnselected = func(widget.ListItemID) { state.selectedFile = -1 }

	addBtn := widget.NewButton("Add File…", func() { openFileDialog(state) })
	removeBtn := widget.NewButton("Remove Selected", func() { removeSelected(state) })

	var labels []string
	for _, s := range merge.Strategies() {
		labels = append(labels, s.String())
	}
	state.mergeSelect = widget.NewSelect(labels, func(v string) {
		s, _ := merge.ParseStrategy(v)
		// The key selector only matters for join strategies.
		if s.RequiresKey() {
			state.mergeOn.Enable()
		} else {
			state.mergeOn.Disable()
		}
	})
	state.mergeSelect.Selected = merge.RowConcat.String()

	state.mergeOn = widget.NewSelect(nil, nil)
	state.mergeOn.PlaceHolder = "key column"
	state.mergeOn.Disable()

	applyBtn := widget.NewButton("Apply Merge", func() { applyMerge(state) })
	state.statusLabel = widget.NewLabel("No data loaded")
	state.statusLabel.Wrapping = fyne.TextWrapWord

	listWrap := container.NewVScroll(state.fileList)
	listWrap.SetMinSize(fyne.NewSize(0, 220))

	return container.NewVBox(
		widget.NewLabel("Loaded Files"),
		listWrap,
		container.NewHBox(addBtn, removeBtn),
		widget.NewSeparator(),
		widget.NewLabel("Merge Type:"), state.mergeSelect,
		widget.NewLabel("Merge On:"), state.mergeOn,
		applyBtn,
		widget.NewSeparator(),
		state.statusLabel,
	)
}

func buildPlotPanel(state *uiState) fyne.CanvasObject {
	var kindLabels []string
	for _, k := range plot.Kinds() {
		kindLabels = append(kindLabels, k.String())
	}
	state.kindSelect = widget.NewSelect(kindLabels, func(string) { redraw(state) })
	state.kindSelect.Selected = plot.Line.String()

	state.xSelect = widget.NewSelect([]string{indexOption}, func(string) { redraw(state) })
	state.xSelect.Selected = indexOption

	state.yChecks = widget.NewCheckGroup(nil, func([]string) { redraw(state) })

	state.titleEntry = widget.NewEntry()
	state.titleEntry.SetPlaceHolder("Plot Title")
	state.titleEntry.OnChanged = func(string) { redraw(state) }
	state.xLabelEntry = widget.NewEntry()
	state.xLabelEntry.SetPlaceHolder("X Axis Label")
	state.xLabelEntry.OnChanged = func(string) { redraw(state) }
	state.yLabelEntry = widget.NewEntry()
	state.yLabelEntry.SetPlaceHolder("Y Axis Label")
	state.yLabelEntry.OnChanged = func(string) { redraw(state) }

	var markerLabels []string
	for _, m := range plot.Markers() {
		markerLabels = append(markerLabels, m.String())
	}
	state.markerSelect = widget.NewSelect(markerLabels, func(string) { redraw(state) })
	state.markerSelect.Selected = plot.MarkerNone.String()

	var lineLabels []string
	for _, l := range plot.LineStyles() {
		lineLabels = append(lineLabels, l.String())
	}
	state.lineSelect = widget.NewSelect(lineLabels, func(string) { redraw(state) })
	state.lineSelect.Selected = plot.LineSolid.String()

	state.opacity = widget.NewSlider(0.1, 1.0)
	state.opacity.Step = 0.1
	state.opacity.Value = 1.0
	state.opacity.OnChanged = func(float64) { redraw(state) }

	state.gridChk = widget.NewCheck("Show Grid", func(bool) { redraw(state) })
	state.gridChk.Checked = true
	state.legendChk = widget.NewCheck("Show Legend", func(bool) { redraw(state) })
	state.legendChk.Checked = true

	yWrap := container.NewVScroll(state.yChecks)
	yWrap.SetMinSize(fyne.NewSize(0, 160))

	return container.NewVScroll(container.NewVBox(
		widget.NewLabel("Plot Type:"), state.kindSelect,
		widget.NewLabel("X Axis:"), state.xSelect,
		widget.NewLabel("Y Axis (numeric columns):"), yWrap,
		widget.NewSeparator(),
		widget.NewLabel("Title:"), state.titleEntry,
		widget.NewLabel("X Label:"), state.xLabelEntry,
		widget.NewLabel("Y Label:"), state.yLabelEntry,
		widget.NewSeparator(),
		widget.NewLabel("Marker:"), state.markerSelect,
		widget.NewLabel("Line Style:"), state.lineSelect,
		widget.NewLabel("Opacity:"), state.opacity,
		state.gridChk,
		state.legendChk,
	))
}

// openFileDialog loads a CSV through the platform file picker.
func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		name := rc.URI().Name()
		_, assigned, lerr := state.store.Load(rc, name)
		if lerr != nil {
			dialog.ShowError(fmt.Errorf("failed to load %s: %w", name, lerr), state.window)
			return
		}
		rememberDir(state, rc.URI())
		state.fileNames = append(state.fileNames, assigned)
		state.fileList.Refresh()
		refreshMergeColumns(state)
	}, state.window)
	setDialogLocation(state, d)
	d.Show()
}

// rememberDir stores the directory of the given file URI for the next dialog.
func rememberDir(state *uiState, u fyne.URI) {
	if p := u.Path(); p != "" {
		state.app.Preferences().SetString("lastDir", filepath.Dir(p))
	}
}

// setDialogLocation points a file dialog at the last used directory.
func setDialogLocation(state *uiState, d *dialog.FileDialog) {
	dir := state.app.Preferences().String("lastDir")
	if dir == "" {
		return
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return
	}
	d.SetLocation(lister)
}

// loadPath loads a CSV given on the command line.
func loadPath(state *uiState, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, assigned, err := state.store.Load(f, filepath.Base(path))
	if err != nil {
		return err
	}
	state.fileNames = append(state.fileNames, assigned)
	state.fileList.Refresh()
	refreshMergeColumns(state)
	return nil
}

func removeSelected(state *uiState) {
	i := state.selectedFile
	if i < 0 || i >= len(state.fileNames) {
		return
	}
	name := state.fileNames[i]
	if !state.store.Remove(name) {
		return
	}
	state.fileNames = append(state.fileNames[:i], state.fileNames[i+1:]...)
	state.selectedFile = -1
	state.fileList.UnselectAll()
	state.fileList.Refresh()
	refreshMergeColumns(state)
	// The merged result is stale now; prompt for a fresh merge.
	state.statusLabel.SetText(fmt.Sprintf("Removed %s, re-apply merge to update the plot", name))
}

// refreshMergeColumns repopulates the "merge on" selector from the union of
// loaded columns.
func refreshMergeColumns(state *uiState) {
	prev := state.mergeOn.Selected
	cols := state.store.ColumnUnion()
	state.mergeOn.Options = cols
	state.mergeOn.Selected = ""
	for _, c := range cols {
		if c == prev {
			state.mergeOn.Selected = prev
			break
		}
	}
	state.mergeOn.Refresh()
}

func applyMerge(state *uiState) {
	strategy, ok := merge.ParseStrategy(state.mergeSelect.Selected)
	if !ok {
		dialog.ShowError(fmt.Errorf("unknown merge type %q", state.mergeSelect.Selected), state.window)
		return
	}
	key := ""
	if strategy.RequiresKey() {
		key = state.mergeOn.Selected
	}
	summary, err := state.store.Merge(strategy, key)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	m := state.store.Merged()
	state.statusLabel.SetText(summary + "\n" + uihelpers.FormatShape(m.NumRows(), m.NumColumns()))
	refreshColumnChoices(state)
	redraw(state)
}

// refreshColumnChoices repopulates the X and Y selectors from the merged
// result, keeping current selections where the columns still exist.
func refreshColumnChoices(state *uiState) {
	prevX := state.xSelect.Selected
	xOpts := append([]string{indexOption}, state.store.MergedColumns()...)
	state.xSelect.Options = xOpts
	state.xSelect.Selected = indexOption
	for _, c := range xOpts {
		if c == prevX {
			state.xSelect.Selected = prevX
			break
		}
	}
	state.xSelect.Refresh()

	prevY := state.yChecks.Selected
	numeric := state.store.MergedNumericColumns()
	state.yChecks.Options = numeric
	var kept []string
	for _, c := range numeric {
		for _, p := range prevY {
			if c == p {
				kept = append(kept, c)
				break
			}
		}
	}
	state.yChecks.SetSelected(kept)
	state.yChecks.Refresh()
}

// currentConfig snapshots the widget state into an immutable plot config.
func currentConfig(state *uiState) plot.Config {
	kind, _ := plot.ParseKind(state.kindSelect.Selected)
	marker, _ := plot.ParseMarker(state.markerSelect.Selected)
	lineStyle, _ := plot.ParseLineStyle(state.lineSelect.Selected)
	x := state.xSelect.Selected
	if x == indexOption {
		x = ""
	}
	return plot.Config{
		Kind:      kind,
		XColumn:   x,
		YColumns:  append([]string(nil), state.yChecks.Selected...),
		Title:     state.titleEntry.Text,
		XLabel:    state.xLabelEntry.Text,
		YLabel:    state.yLabelEntry.Text,
		Grid:      state.gridChk.Checked,
		Legend:    state.legendChk.Checked,
		Marker:    marker,
		LineStyle: lineStyle,
		Opacity:   state.opacity.Value,
	}
}

// redraw re-renders the full surface from the merged result and the current
// configuration snapshot.
func redraw(state *uiState) {
	if state.chartCanvas == nil {
		return
	}
	state.renderer.Render(state.store.Merged(), currentConfig(state))
	state.chartCanvas.Image = state.renderer.Image()
	state.chartCanvas.Refresh()
}

// exportDialog saves the current surface as PNG or SVG.
func exportDialog(state *uiState, format string) {
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if eerr := state.renderer.ExportTo(wc, format, plot.DefaultExportDPI); eerr != nil {
			dialog.ShowError(fmt.Errorf("failed to save plot: %w", eerr), state.window)
			return
		}
		rememberDir(state, wc.URI())
		state.statusLabel.SetText("Plot saved to " + uihelpers.TruncatePath(wc.URI().Path(), 60))
	}, state.window)
	setDialogLocation(state, fs)
	fs.SetFileName("plot." + format)
	fs.Show()
}

func buildMenus(state *uiState) {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open CSV…", func() { openFileDialog(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Plot as PNG…", func() { exportDialog(state, "png") }),
		fyne.NewMenuItem("Save Plot as SVG…", func() { exportDialog(state, "svg") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() { showAbout(state) }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { exportDialog(state, "png") })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { exportDialog(state, "png") })
	}
}

func showAbout(state *uiState) {
	dialog.ShowInformation("About Helly Plot", strings.Join([]string{
		"Helly Plot",
		"",
		"Load multiple CSV files, merge them with various options,",
		"and chart selected columns. Export plots as PNG or SVG.",
	}, "\n"), state.window)
}

func savePrefs(state *uiState) {
	p := state.app.Preferences()
	p.SetString("plotKind", state.kindSelect.Selected)
	p.SetBool("grid", state.gridChk.Checked)
	p.SetBool("legend", state.legendChk.Checked)
	p.SetFloat("opacity", state.opacity.Value)
}

func loadPrefs(state *uiState) {
	p := state.app.Preferences()
	if k := p.StringWithFallback("plotKind", ""); k != "" {
		if _, ok := plot.ParseKind(k); ok {
			state.kindSelect.Selected = k
		}
	}
	state.gridChk.Checked = p.BoolWithFallback("grid", true)
	state.legendChk.Checked = p.BoolWithFallback("legend", true)
	state.opacity.Value = p.FloatWithFallback("opacity", 1.0)
}
