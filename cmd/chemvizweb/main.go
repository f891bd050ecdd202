package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/chemviz/chemviz/src/backend"
	"github.com/chemviz/chemviz/src/config"
	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/webview"
)

func main() {
	cf := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := cf.Load()
	if err != nil {
		logging.Errorf("[web] failed to load config: %v", err)
		os.Exit(2)
	}
	logging.SetLevel(cfg.LogLevel)

	b, err := backend.Open(cfg)
	if err != nil {
		logging.Errorf("[web] %v", err)
		os.Exit(2)
	}
	srv := &webview.Server{
		Source:  b.Data,
		Reports: b.Reports,
		Prefix:  cfg.ReportPrefix,
		Timeout: cfg.HTTPTimeout.Std(),
	}
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logging.Warnf("[web] shutdown: %v", err)
		}
	}()

	logging.Infof("[web] dashboard on http://%s (data from %s)", cfg.Listen, b.Origin)
	logging.Infof("[web] routes:")
	logging.Infof("[web]   GET /datasets/{id}?mode=&bar=&x=&y=")
	logging.Infof("[web]   GET /datasets/{id}/charts")
	if b.CanExport() {
		logging.Infof("[web]   GET /datasets/{id}/report")
	}
	logging.Infof("[web]   GET /health")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Errorf("[web] server failed: %v", err)
		os.Exit(1)
	}
	logging.Infof("[web] stopped")
}
