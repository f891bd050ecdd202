package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func newUpstream(t *testing.T, recordsBody string) (*httptest.Server, *[]string) {
	t.Helper()
	var auth []string
	router := mux.NewRouter()
	api := router.PathPrefix("/api/datasets/{id}").Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = append(auth, r.Header.Get("Authorization"))
			if mux.Vars(r)["id"] == "404" {
				http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	api.HandleFunc("/stats/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total_count":2,"average_flowrate":12.5,"average_pressure":4,"average_temperature":90,"type_distribution":{"Pump":2}}`)
	}).Methods("GET")
	api.HandleFunc("/data/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, recordsBody)
	}).Methods("GET")
	api.HandleFunc("/pdf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report_`+mux.Vars(r)["id"]+`.pdf"`)
		w.Write([]byte("%PDF-1.4 test"))
	}).Methods("GET")
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, &auth
}

func TestClient_StatsAndRecordsList(t *testing.T) {
	srv, auth := newUpstream(t, `[{"id":1,"equipment_name":"P-1","equipment_type":"Pump","flowrate":10,"pressure":4,"temperature":90},{"id":2,"equipment_name":"P-2","equipment_type":"Pump","flowrate":15}]`)
	c, err := New(srv.URL, "secret", 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	st, err := c.Stats(context.Background(), "7")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalCount != 2 || st.AverageFlowrate != 12.5 || st.TypeDistribution["Pump"] != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	recs, err := c.Records(context.Background(), "7")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(recs) != 2 || recs[1].Temperature != nil {
		t.Fatalf("unexpected records: %+v", recs)
	}
	for _, h := range *auth {
		if h != "Token secret" {
			t.Fatalf("authorization header = %q", h)
		}
	}
}

func TestClient_RecordsEnvelope(t *testing.T) {
	srv, _ := newUpstream(t, `{"count":1,"results":[{"id":1,"equipment_name":"V-1","equipment_type":"Valve","pressure":3}]}`)
	c, _ := New(srv.URL, "", 0)
	recs, err := c.Records(context.Background(), "3")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(recs) != 1 || recs[0].EquipmentType != "Valve" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv, _ := newUpstream(t, `[]`)
	c, _ := New(srv.URL, "", 0)
	_, err := c.Stats(context.Background(), "404")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError got %T %v", err, err)
	}
	if se.Code != http.StatusNotFound || se.Op != "stats" {
		t.Fatalf("unexpected status error: %+v", se)
	}
	if _, err := c.Report(context.Background(), "404"); !errors.As(err, &se) {
		t.Fatalf("report: expected *StatusError got %v", err)
	}
}

func TestClient_Report(t *testing.T) {
	srv, _ := newUpstream(t, `[]`)
	c, _ := New(srv.URL+"/", "", 0)
	rep, err := c.Report(context.Background(), "5")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if string(rep.Data) != "%PDF-1.4 test" || rep.ContentDisposition != `attachment; filename="report_5.pdf"` || rep.ContentType != "application/pdf" {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	if _, err := New("localhost:8000", "", 0); err == nil {
		t.Fatalf("expected error for url without scheme")
	}
}
