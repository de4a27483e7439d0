package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jengzang/smartcity-backend-go/internal/apiclient"
	"github.com/jengzang/smartcity-backend-go/internal/demostore"
	"github.com/jengzang/smartcity-backend-go/internal/mapview"
	"github.com/jengzang/smartcity-backend-go/internal/middleware"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const complaintsJSON = `[
 {"id":"c1","created_at":"2026-03-10T08:00:00Z","text":"мусор","ui_category":"Мусор","lat":42.3151,"lng":69.5901,"status":"NEW","priority_level":"HIGH","priority_score":0.8},
 {"id":"c2","created_at":"2026-03-09T08:00:00Z","text":"фонарь","ui_category":"Освещение","lat":42.3152,"lng":69.5902,"status":"DONE","priority_level":"LOW","priority_score":0.2},
 {"id":"c3","created_at":"2026-03-09T09:00:00Z","text":"без точки","ui_category":"Дороги","lat":null,"lng":null,"status":"REJECTED"}
]`

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/complaints", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, complaintsJSON)
	})
	mux.HandleFunc("/complaints/missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":404,"message":"Complaint not found"}`)
	})
	mux.HandleFunc("/complaints/c1", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Status string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","status":"`+body.Status+`"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListTable(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "--api-url", srv.URL, "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"c1", "HIGH 0.800", "42.31510", "Освещение"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusCommand(t *testing.T) {
	srv := fakeAPI(t)

	out, err := run(t, "--api-url", srv.URL, "status", "c1", "in_progress")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"IN_PROGRESS"`) {
		t.Errorf("output = %s", out)
	}

	_, err = run(t, "--api-url", srv.URL, "status", "missing", "DONE")
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("err = %v", err)
	}

	if _, err := run(t, "--api-url", srv.URL, "status", "c1", "CLOSED"); err == nil {
		t.Error("expected invalid status error")
	}
}

func TestReportValidatesCoordinatesBeforeSending(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	photo := filepath.Join(t.TempDir(), "p.jpg")
	if err := os.WriteFile(photo, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "--api-url", srv.URL, "report", "--photo", photo, "--lat", "95", "--lng", "69")
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("err = %v", err)
	}
	if called {
		t.Error("request sent with invalid coordinates")
	}
}

func TestMapGeoJSON(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "--api-url", srv.URL, "map", "--mode", "zones", "--geojson")
	if err != nil {
		t.Fatal(err)
	}
	var fc mapview.FeatureCollection
	if err := json.Unmarshal([]byte(out), &fc); err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 2 {
		t.Errorf("features = %d", len(fc.Features))
	}
}

func TestDemoFlow(t *testing.T) {
	home := t.TempDir()

	if _, err := run(t, "--home", home, "demo", "seed"); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--home", home, "demo", "seed")
	if err != nil || !strings.Contains(out, "already has data") {
		t.Fatalf("second seed: %q, %v", out, err)
	}

	if _, err := run(t, "--home", home, "demo", "add", "--category", "Мусор", "--text", "пакеты", "--lat", "42.3", "--lng", "69.6"); err != nil {
		t.Fatal(err)
	}

	st, err := demostore.New(home)
	if err != nil {
		t.Fatal(err)
	}
	reports := st.Load()
	if len(reports) != 4 || reports[0].Description != "пакеты" {
		t.Fatalf("reports = %+v", reports)
	}

	if _, err := run(t, "--home", home, "demo", "status", reports[0].ID, demostore.StatusDone); err != nil {
		t.Fatal(err)
	}
	if got := st.Load()[0].Status; got != demostore.StatusDone {
		t.Errorf("status = %q", got)
	}
	if _, err := run(t, "--home", home, "demo", "status", "nope", demostore.StatusDone); err == nil {
		t.Error("expected not found")
	}

	out, err = run(t, "--home", home, "dashboard", "--source", "demo", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var dash struct {
		KPI struct {
			Total int `json:"total"`
			Done  int `json:"done"`
		} `json:"kpi"`
	}
	if err := json.Unmarshal([]byte(out), &dash); err != nil {
		t.Fatal(err)
	}
	if dash.KPI.Total != 4 || dash.KPI.Done < 1 {
		t.Errorf("kpi = %+v", dash.KPI)
	}

	if out, err := run(t, "--home", home, "hotspots", "--source", "demo"); err != nil || !strings.Contains(out, "COUNT") {
		t.Errorf("hotspots: %q, %v", out, err)
	}
}

func TestPrefs(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, "--home", home, "prefs", "--theme", "light")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"light"`) || !strings.Contains(out, `"ru"`) {
		t.Errorf("prefs = %s", out)
	}
	if _, err := run(t, "--home", home, "prefs", "--lang", "de"); err == nil {
		t.Error("expected unsupported language error")
	}
}

func TestToken(t *testing.T) {
	out, err := run(t, "token", "--secret", "s3cret", "--ttl", "1h")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := middleware.ParseToken("s3cret", strings.TrimSpace(out))
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != middleware.RoleAdmin || claims.Subject != "admin" {
		t.Errorf("claims = %+v", claims)
	}

	t.Setenv("SMARTCITY_JWT_SECRET", "")
	if _, err := run(t, "token"); err == nil {
		t.Error("expected empty secret error")
	}
}
