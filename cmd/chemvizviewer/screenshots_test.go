package main

import (
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"testing"

	"github.com/chemviz/chemviz/src/backend"
	"github.com/chemviz/chemviz/src/dataset"
	"github.com/chemviz/chemviz/src/types"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plant.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	recs := []types.SensorReading{
		{EquipmentName: "P-1", EquipmentType: "Pump", Flowrate: types.F(120), Pressure: types.F(5.2), Temperature: types.F(110)},
		{EquipmentName: "P-2", EquipmentType: "Pump", Flowrate: types.F(140), Pressure: types.F(5.8), Temperature: types.F(98)},
		{EquipmentName: "V-1", EquipmentType: "Valve", Flowrate: types.F(60), Pressure: types.F(3.1)},
		{EquipmentName: "R-1", EquipmentType: "Reactor", Flowrate: types.F(90), Temperature: types.F(140)},
	}
	if err := dataset.WriteCSV(f, recs); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

// TestScreenshotWidths_AllModes ensures every generated chart shares the requested width.
func TestScreenshotWidths_AllModes(t *testing.T) {
	b := backend.Backend{Data: dataset.NewCSVSource(writeDataset(t))}
	outDir := t.TempDir()
	if err := RunScreenshotsMode(b, "1", outDir, 1400, true); err != nil {
		t.Fatalf("screenshots: %v", err)
	}
	files, err := filepath.Glob(filepath.Join(outDir, "*", "*.png"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) != 14 {
		t.Fatalf("expected 14 screenshots got %d", len(files))
	}
	for _, p := range files {
		f, err := os.Open(p)
		if err != nil {
			t.Fatalf("open %s: %v", p, err)
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", p, err)
		}
		if cfg.Width != 1400 {
			t.Fatalf("%s width = %d want 1400", filepath.Base(p), cfg.Width)
		}
	}
}

func TestScreenshots_NeedDataset(t *testing.T) {
	b := backend.Backend{Data: dataset.NewCSVSource(writeDataset(t))}
	if err := RunScreenshotsMode(b, "", t.TempDir(), 1200, false); err == nil {
		t.Fatalf("expected error without dataset id")
	}
	missing := backend.Backend{Data: dataset.NewCSVSource(filepath.Join(t.TempDir(), "absent"))}
	if err := RunScreenshotsMode(missing, "1", t.TempDir(), 1200, false); err == nil {
		t.Fatalf("expected fetch error for a missing source")
	}
}
