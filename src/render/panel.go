package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/chemviz/chemviz/src/analysis"
	"github.com/chemviz/chemviz/src/charts"
	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/types"
	"github.com/chemviz/chemviz/src/view"
)

// Panel runs the adapter behind p over the dataset and draws it. A panic inside the chart
// library is recovered and yields a blank image.
func Panel(p view.Panel, stats types.DatasetStats, records []types.SensorReading, o Options) (img image.Image) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("[render] %s panel panicked: %v", p.Kind, r)
			img = Blank(o)
		}
	}()
	switch p.Kind {
	case view.PanelBar:
		return Bar(charts.Bar(analysis.Aggregate(records, p.Metric), p.Metric), o)
	case view.PanelTrend:
		schema := charts.ResolveSchema(records)
		if p.Metric != "" {
			return Trend(charts.Trend(records, schema, p.Metric), o)
		}
		return Trend(charts.Trend(records, schema), o)
	case view.PanelCorrelation:
		return Scatter(charts.Correlation(records, p.X, p.Y), o)
	case view.PanelDistribution:
		return Donut(charts.Distribution(stats.TypeDistribution), o)
	}
	return Blank(o)
}

// PanelFileName is the file a panel is written to by WriteSet.
func PanelFileName(mode view.Mode, i int, p view.Panel) string {
	switch p.Kind {
	case view.PanelCorrelation:
		return fmt.Sprintf("%s_%d_%s_%s_%s.png", mode, i+1, p.Kind, p.X, p.Y)
	case view.PanelDistribution:
		return fmt.Sprintf("%s_%d_%s.png", mode, i+1, p.Kind)
	}
	if p.Metric == "" {
		return fmt.Sprintf("%s_%d_%s_all.png", mode, i+1, p.Kind)
	}
	return fmt.Sprintf("%s_%d_%s_%s.png", mode, i+1, p.Kind, p.Metric)
}

// WriteSet renders every panel of s into outDir and returns the written paths.
func WriteSet(outDir string, s view.ViewState, stats types.DatasetStats, records []types.SensorReading, o Options) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	var written []string
	for i, p := range view.Panels(s) {
		img := Panel(p, stats, records, o)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return written, fmt.Errorf("png encode %s: %w", p.Kind, err)
		}
		outPath := filepath.Join(outDir, PanelFileName(s.Mode, i, p))
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", outPath, err)
		}
		written = append(written, outPath)
	}
	return written, nil
}
