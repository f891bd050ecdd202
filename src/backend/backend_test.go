package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chemviz/chemviz/src/api"
	"github.com/chemviz/chemviz/src/config"
	"github.com/chemviz/chemviz/src/dataset"
	"github.com/chemviz/chemviz/src/export"
)

func TestOpen_CSV(t *testing.T) {
	dir := t.TempDir()
	body := "Equipment Name,Type,Flowrate,Pressure,Temperature\nP-1,Pump,10,5,90\n"
	if err := os.WriteFile(filepath.Join(dir, "7.csv"), []byte(body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	cfg := config.Default()
	cfg.DataDir = dir
	b, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := b.Data.(*dataset.CSVSource); !ok {
		t.Fatalf("expected CSV source got %T", b.Data)
	}
	if b.CanExport() || b.Pipeline(cfg, export.LogNotifier{}) != nil {
		t.Fatalf("offline data must not export")
	}
	recs, err := b.Data.Records(context.Background(), "7")
	if err != nil || len(recs) != 1 {
		t.Fatalf("records = %v, %v", recs, err)
	}
}

func TestOpen_API(t *testing.T) {
	cfg := config.Default()
	b, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := b.Data.(*api.Client); !ok {
		t.Fatalf("expected api client got %T", b.Data)
	}
	p := b.Pipeline(cfg, export.LogNotifier{}, export.LinkDownload{Dir: t.TempDir()})
	if p == nil || len(p.Strategies) != 1 || p.Prefix != cfg.ReportPrefix {
		t.Fatalf("unexpected pipeline: %+v", p)
	}
}

func TestOpen_BadURL(t *testing.T) {
	cfg := config.Default()
	cfg.APIURL = "not a url"
	if _, err := Open(cfg); err == nil {
		t.Fatalf("expected error for relative url")
	}
}
