package webview

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/chemviz/chemviz/src/analysis"
	"github.com/chemviz/chemviz/src/fetch"
	"github.com/chemviz/chemviz/src/types"
)

type memSource struct {
	records []types.SensorReading
	fail    bool
}

func (m memSource) Stats(ctx context.Context, id string) (types.DatasetStats, error) {
	if m.fail {
		return types.DatasetStats{}, errors.New("upstream down")
	}
	return analysis.Summarize(m.records), nil
}

func (m memSource) Records(ctx context.Context, id string) ([]types.SensorReading, error) {
	if m.fail {
		return nil, errors.New("upstream down")
	}
	return m.records, nil
}

type memReports struct {
	rep types.Report
	err error
}

func (m memReports) Report(ctx context.Context, id string) (types.Report, error) {
	return m.rep, m.err
}

func records() []types.SensorReading {
	return []types.SensorReading{
		{EquipmentName: "P-1", EquipmentType: "Pump", Flowrate: types.F(120), Pressure: types.F(5.2), Temperature: types.F(110)},
		{EquipmentName: "V-1", EquipmentType: "Valve", Flowrate: types.F(60), Pressure: types.F(4.1), Temperature: types.F(80)},
	}
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func newServer(t *testing.T, s *Server) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newServer(t, &Server{Source: memSource{}})
	resp, body := get(t, srv, "/health")
	if resp.StatusCode != http.StatusOK || body != "OK" {
		t.Fatalf("health = %d %q", resp.StatusCode, body)
	}
}

func TestDashboard(t *testing.T) {
	srv := newServer(t, &Server{Source: memSource{records: records()}, Reports: memReports{}})
	resp, body := get(t, srv, "/datasets/3?mode=equipment")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{"Dataset 3", "Total Rows", "P-1", `class="hot"`, "/datasets/3/charts?", "mode=equipment", "/datasets/3/report"} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q", want)
		}
	}
	if strings.Contains(body, `name="bar"`) {
		t.Fatalf("metric selects belong to the overview only")
	}
}

func TestDashboard_FetchError(t *testing.T) {
	srv := newServer(t, &Server{Source: memSource{fail: true}})
	resp, body := get(t, srv, "/datasets/3")
	if resp.StatusCode != http.StatusBadGateway || !strings.Contains(body, fetch.ErrorLoading) {
		t.Fatalf("fetch error = %d %q", resp.StatusCode, body)
	}
}

func TestChartsPage(t *testing.T) {
	srv := newServer(t, &Server{Source: memSource{records: records()}})
	resp, body := get(t, srv, "/datasets/3/charts?mode=correlations")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "echarts") || !strings.Contains(body, "Flowrate vs Temperature") {
		t.Fatalf("charts page missing content")
	}
}

func TestReportProxy(t *testing.T) {
	rep := types.Report{Data: []byte("%PDF"), ContentDisposition: `attachment; filename="../x.pdf"`}
	srv := newServer(t, &Server{Source: memSource{}, Reports: memReports{rep: rep}})
	resp, body := get(t, srv, "/datasets/8/report")
	if resp.StatusCode != http.StatusOK || body != "%PDF" {
		t.Fatalf("report = %d %q", resp.StatusCode, body)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="x.pdf"` {
		t.Fatalf("content disposition = %q", cd)
	}

	failing := newServer(t, &Server{Source: memSource{}, Reports: memReports{err: errors.New("500")}})
	resp, body = get(t, failing, "/datasets/8/report")
	if resp.StatusCode != http.StatusBadGateway || !strings.Contains(body, "Failed to generate PDF") {
		t.Fatalf("failed report = %d %q", resp.StatusCode, body)
	}

	none := newServer(t, &Server{Source: memSource{}})
	if resp, _ := get(t, none, "/datasets/8/report"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("report without source = %d", resp.StatusCode)
	}
}

func TestIndexRedirect(t *testing.T) {
	srv := newServer(t, &Server{Source: memSource{records: records()}})
	resp, body := get(t, srv, "/?id=5")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Dataset 5") {
		t.Fatalf("redirect target = %d", resp.StatusCode)
	}
}

func TestIndexRedirectEscapesID(t *testing.T) {
	router := (&Server{Source: memSource{}}).Router()
	cases := map[string]string{
		"a b?x#y": "/datasets/a%20b%3Fx%23y?",
		"a/b":     "/datasets/a%2Fb?",
	}
	for id, want := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?id="+url.QueryEscape(id), nil))
		if rec.Code != http.StatusFound {
			t.Fatalf("id %q: status %d", id, rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, want) {
			t.Fatalf("id %q: location %q want prefix %q", id, loc, want)
		}
	}
}
