// Package webview serves a local HTML dashboard for one dataset at a time. The view state
// travels in the query string; charts are go-echarts pages embedded in the dashboard.
package webview

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/chemviz/chemviz/src/charts"
	"github.com/chemviz/chemviz/src/export"
	"github.com/chemviz/chemviz/src/fetch"
	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/types"
	"github.com/chemviz/chemviz/src/view"
)

// Server holds the collaborators the handlers need. Reports may be nil when the source has
// no report endpoint (offline CSV data).
type Server struct {
	Source  fetch.Source
	Reports export.ReportSource
	Prefix  string
	// Timeout bounds one upstream fetch; zero means no extra bound.
	Timeout time.Duration
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", s.handleIndex).Methods("GET")
	router.HandleFunc("/datasets/{id}", s.handleDashboard).Methods("GET")
	ds := router.PathPrefix("/datasets/{id}").Subrouter()
	ds.HandleFunc("/charts", s.handleCharts).Methods("GET")
	ds.HandleFunc("/report", s.handleReport).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}).Methods("GET")
	router.Use(logRequests)
	return router
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debugf("[web] %s %s in %s", r.Method, r.URL.RequestURI(), time.Since(start))
	})
}

func (s *Server) load(ctx context.Context, id string) (fetch.Dataset, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return fetch.Join(ctx, s.Source, id, 0)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		http.Redirect(w, r, "/datasets/"+url.PathEscape(id)+"?"+view.Query(view.Initial()).Encode(), http.StatusFound)
		return
	}
	writeHTML(w, indexTmpl, nil)
}

type modeLink struct {
	Title  string
	Href   string
	Active bool
}

type dashboardData struct {
	ID        string
	State     view.ViewState
	Modes     []modeLink
	Metrics   []types.Metric
	KPIs      []charts.KPI
	Rows      []charts.Row
	ChartsURL string
	ReportURL string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st := view.FromQuery(r.URL.Query())
	ds, err := s.load(r.Context(), id)
	if err != nil {
		logging.Warnf("[web] dataset=%s: %v", id, err)
		http.Error(w, fetch.ErrorLoading, http.StatusBadGateway)
		return
	}
	data := dashboardData{
		ID:        id,
		State:     st,
		Metrics:   types.AllMetrics,
		KPIs:      charts.KPIs(ds.Stats),
		Rows:      charts.Table(ds.Records),
		ChartsURL: "/datasets/" + id + "/charts?" + view.Query(st).Encode(),
	}
	if s.Reports != nil {
		data.ReportURL = "/datasets/" + id + "/report"
	}
	for _, m := range view.AllModes {
		next, _ := view.SetMode(st, m)
		data.Modes = append(data.Modes, modeLink{
			Title:  m.Title(),
			Href:   "/datasets/" + id + "?" + view.Query(next).Encode(),
			Active: m == st.Mode,
		})
	}
	writeHTML(w, dashboardTmpl, data)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st := view.FromQuery(r.URL.Query())
	ds, err := s.load(r.Context(), id)
	if err != nil {
		logging.Warnf("[web] dataset=%s charts: %v", id, err)
		http.Error(w, fetch.ErrorLoading, http.StatusBadGateway)
		return
	}
	var buf bytes.Buffer
	if err := renderPage(&buf, st, ds); err != nil {
		logging.Errorf("[web] dataset=%s render: %v", id, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write(buf.Bytes())
}

func renderPage(buf *bytes.Buffer, st view.ViewState, ds fetch.Dataset) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return chartsPage(st, ds.Stats, ds.Records).Render(buf)
}

// handleReport proxies the generated PDF with a resolved attachment filename so the
// browser's own download flow takes over.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if s.Reports == nil {
		http.Error(w, "reports are not available for this source", http.StatusNotFound)
		return
	}
	rep, err := s.Reports.Report(r.Context(), id)
	if err != nil {
		logging.Errorf("[web] dataset=%s report: %v", id, err)
		http.Error(w, export.AlertRequestFailed, http.StatusBadGateway)
		return
	}
	name := export.ResolveFilename(rep.ContentDisposition, id, s.Prefix)
	ct := rep.ContentType
	if ct == "" {
		ct = "application/pdf"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(rep.Data)
}

func writeHTML(w http.ResponseWriter, t *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		logging.Errorf("[web] template %s: %v", t.Name(), err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
