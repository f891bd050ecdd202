// Package backend picks the data and report sources a front-end talks to.
package backend

import (
	"fmt"

	"github.com/chemviz/chemviz/src/api"
	"github.com/chemviz/chemviz/src/config"
	"github.com/chemviz/chemviz/src/dataset"
	"github.com/chemviz/chemviz/src/export"
	"github.com/chemviz/chemviz/src/fetch"
	"github.com/chemviz/chemviz/src/logging"
)

// Backend bundles the collaborators of one session. Reports is nil for offline CSV data,
// which has no generated report.
type Backend struct {
	Data    fetch.Source
	Reports export.ReportSource
	// Origin names where data comes from, for labels and logs.
	Origin string
}

// Open builds the backend described by cfg. A non-empty DataDir selects the offline CSV
// source; otherwise the HTTP client for APIURL is used.
func Open(cfg config.Config) (Backend, error) {
	if cfg.DataDir != "" {
		logging.Infof("[backend] offline CSV data at %s", cfg.DataDir)
		return Backend{Data: dataset.NewCSVSource(cfg.DataDir), Origin: cfg.DataDir}, nil
	}
	c, err := api.New(cfg.APIURL, cfg.Token, cfg.HTTPTimeout.Std())
	if err != nil {
		return Backend{}, fmt.Errorf("api client: %w", err)
	}
	logging.Infof("[backend] dataset service %s", cfg.APIURL)
	return Backend{Data: c, Reports: c, Origin: cfg.APIURL}, nil
}

// CanExport reports whether a report source is available.
func (b Backend) CanExport() bool { return b.Reports != nil }

// Pipeline builds an export pipeline over b.Reports with the given ladder. It returns nil
// when the backend cannot export.
func (b Backend) Pipeline(cfg config.Config, n export.Notifier, ladder ...export.Strategy) *export.Pipeline {
	if !b.CanExport() {
		return nil
	}
	return &export.Pipeline{
		Source:     b.Reports,
		Strategies: ladder,
		Notifier:   n,
		Prefix:     cfg.ReportPrefix,
	}
}
