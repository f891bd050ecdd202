package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/chemviz/chemviz/src/backend"
	"github.com/chemviz/chemviz/src/config"
	"github.com/chemviz/chemviz/src/export"
	"github.com/chemviz/chemviz/src/fetch"
	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/render"
	"github.com/chemviz/chemviz/src/termview"
	"github.com/chemviz/chemviz/src/types"
	"github.com/chemviz/chemviz/src/view"
)

type options struct {
	dataset   string
	mode      string
	bar       string
	x, y      string
	pngDir    string
	allModes  bool
	width     int
	hints     bool
	rows      int
	doExport  bool
	noPrompt  bool
	quietView bool
}

func parseArgs(args []string, stderr io.Writer) (*config.Flags, options, error) {
	fs := flag.NewFlagSet("chemviz", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := config.RegisterFlags(fs)
	var o options
	fs.StringVar(&o.dataset, "dataset", "", "Dataset id to open (may also be given as the first argument)")
	fs.StringVar(&o.mode, "mode", string(view.Overview), "View mode: overview, trends, equipment, correlations")
	fs.StringVar(&o.bar, "bar", string(types.Flowrate), "Metric of the overview bar chart: flowrate, pressure, temperature")
	fs.StringVar(&o.x, "x", string(types.Pressure), "Overview correlation X metric")
	fs.StringVar(&o.y, "y", string(types.Temperature), "Overview correlation Y metric")
	fs.StringVar(&o.pngDir, "png", "", "Also write the view's charts as PNG files into this directory")
	fs.BoolVar(&o.allModes, "all-modes", false, "With -png: write the charts of every view mode, one subdirectory per mode")
	fs.IntVar(&o.width, "width", 1200, "With -png: chart width in pixels (height follows the width)")
	fs.BoolVar(&o.hints, "hints", false, "With -png: draw a one-line hint under each chart")
	fs.IntVar(&o.rows, "rows", termview.DefaultOptions().TableRows, "Records table rows to print (0 prints all)")
	fs.BoolVar(&o.doExport, "export", false, "Download the dataset's PDF report after printing the summary")
	fs.BoolVar(&o.noPrompt, "yes", false, "With -export: keep the server's filename without asking")
	fs.BoolVar(&o.quietView, "quiet", false, "Do not print the terminal dashboard")
	if err := fs.Parse(args); err != nil {
		return nil, o, err
	}
	if o.dataset == "" && fs.NArg() > 0 {
		o.dataset = fs.Arg(0)
	}
	if strings.TrimSpace(o.dataset) == "" {
		return nil, o, errors.New("a dataset id is required (-dataset <id>)")
	}
	return cf, o, nil
}

// viewState applies the requested mode and metrics through the pure transitions.
func viewState(o options) (view.ViewState, error) {
	s := view.Initial()
	m, err := view.ParseMode(o.mode)
	if err != nil {
		return s, err
	}
	if s, err = view.SetMode(s, m); err != nil {
		return s, err
	}
	bar, err := types.ParseMetric(o.bar)
	if err != nil {
		return s, err
	}
	if s, err = view.SetBarMetric(s, bar); err != nil {
		return s, err
	}
	x, err := types.ParseMetric(o.x)
	if err != nil {
		return s, err
	}
	y, err := types.ParseMetric(o.y)
	if err != nil {
		return s, err
	}
	return view.SetCorrelationAxes(s, x, y)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cf, o, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	cfg, err := cf.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 2
	}
	if !logging.SetLevel(cfg.LogLevel) {
		logging.Warnf("[cli] unknown log level %q, keeping %v", cfg.LogLevel, logging.GetLevel())
	}
	state, err := viewState(o)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	b, err := backend.Open(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	orch := fetch.NewOrchestrator(b.Data, cfg.FetchFloor.Std())
	orch.OnChange(func(s fetch.Snapshot) {
		logging.Debugf("[cli] dataset=%s gen=%d phase=%s", s.DatasetID, s.Generation, s.Phase)
	})
	start := time.Now()
	gen := orch.Open(ctx, o.dataset)
	snap, err := orch.Wait(ctx, gen)
	if err != nil {
		fmt.Fprintf(stderr, "interrupted: %v\n", err)
		return 130
	}
	if snap.Phase != fetch.Ready {
		logging.Errorf("[cli] load dataset %s: %v", o.dataset, snap.Err)
		fmt.Fprintln(stderr, fetch.ErrorLoading)
		return 1
	}
	logging.TimeTrack(start, "[cli] load")
	ds := snap.Dataset

	if !o.quietView {
		topts := termview.DefaultOptions()
		topts.TableRows = o.rows
		fmt.Fprintf(stdout, "Dataset %s (%s) - %s\n\n", ds.ID, b.Origin, state.Mode.Title())
		fmt.Fprint(stdout, termview.Render(state, ds.Stats, ds.Records, topts))
	}

	if o.pngDir != "" {
		if err := writeCharts(o, state, ds, stdout); err != nil {
			fmt.Fprintf(stderr, "png error: %v\n", err)
			return 1
		}
	}

	if o.doExport {
		return exportReport(ctx, cfg, b, o, stdin, stdout, stderr)
	}
	return 0
}

func writeCharts(o options, state view.ViewState, ds fetch.Dataset, stdout io.Writer) error {
	ropts := render.DefaultOptions(o.width)
	ropts.Hints = o.hints
	if !o.allModes {
		paths, err := render.WriteSet(o.pngDir, state, ds.Stats, ds.Records, ropts)
		for _, p := range paths {
			fmt.Fprintf(stdout, "wrote %s\n", p)
		}
		return err
	}
	for _, m := range view.AllModes {
		s, err := view.SetMode(state, m)
		if err != nil {
			return err
		}
		paths, err := render.WriteSet(filepath.Join(o.pngDir, string(m)), s, ds.Stats, ds.Records, ropts)
		for _, p := range paths {
			fmt.Fprintf(stdout, "wrote %s\n", p)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func exportReport(ctx context.Context, cfg config.Config, b backend.Backend, o options, stdin io.Reader, stdout, stderr io.Writer) int {
	var prompter export.Prompter
	if !o.noPrompt {
		prompter = &export.TerminalPrompter{In: stdin, Out: stderr}
	}
	p := b.Pipeline(cfg, export.LogNotifier{},
		export.PromptedDownload{Prompter: prompter, Download: export.LinkDownload{Dir: cfg.DownloadDir}},
	)
	if p == nil {
		fmt.Fprintln(stderr, "export: offline CSV data has no report")
		return 1
	}
	p.OnState = func(s export.State) { logging.Debugf("[cli] export state=%s", s) }
	out := p.TriggerExport(ctx, o.dataset)
	switch out.Status {
	case export.Saved:
		fmt.Fprintf(stdout, "saved report to %s\n", out.Path)
		return 0
	case export.Cancelled:
		fmt.Fprintln(stdout, "export cancelled")
		return 0
	}
	fmt.Fprintf(stderr, "export failed: %v\n", out.Err)
	return 1
}
