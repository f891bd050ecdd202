package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chemviz/chemviz/src/backend"
	"github.com/chemviz/chemviz/src/fetch"
	"github.com/chemviz/chemviz/src/render"
	"github.com/chemviz/chemviz/src/view"
)

// RunScreenshotsMode renders every view mode of one dataset and writes the charts as PNGs
// under outDir/<mode>. It runs headlessly without creating a UI window.
func RunScreenshotsMode(b backend.Backend, id, outDir string, width int, hints bool) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("screenshots need -dataset")
	}
	ds, err := fetch.Join(context.Background(), b.Data, id, 0)
	if err != nil {
		return err
	}
	o := render.DefaultOptions(width)
	o.Hints = hints
	total := 0
	for _, m := range view.AllModes {
		s, err := view.SetMode(view.Initial(), m)
		if err != nil {
			return err
		}
		paths, err := render.WriteSet(filepath.Join(outDir, string(m)), s, ds.Stats, ds.Records, o)
		if err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}
		total += len(paths)
	}
	fmt.Printf("[viewer] rendered %d charts for dataset %s\n", total, id)
	return nil
}
