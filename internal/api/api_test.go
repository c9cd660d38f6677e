package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kalambet/futuresim/internal/exportjob"
	"github.com/kalambet/futuresim/internal/metrics"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/simulator"
	"github.com/kalambet/futuresim/internal/storage"
)

const testToken = "test-token-12345"

const janeBody = `{"name":"Jane","age":30,"country":"usa","dream":"I will build a career as a software engineer by age 35","sessionId":"s1"}`

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*simulator.Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc, err := simulator.New(store, simulator.Options{Now: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("simulator.New: %v", err)
	}
	return svc, store
}

func setupHandler(t *testing.T, deps Deps) (http.Handler, *storage.Store) {
	t.Helper()
	svc, store := newTestService(t)
	deps.Service = svc
	if deps.Token == "" {
		deps.Token = testToken
	}
	return NewHandler(deps), store
}

func authReq(method, url, body, token string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorType(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Error.Type
}

func generate(t *testing.T, h http.Handler) storage.FutureRecord {
	t.Helper()
	rr := serve(h, authReq(http.MethodPost, "/futures", janeBody, testToken))
	if rr.Code != http.StatusCreated {
		t.Fatalf("POST /futures status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var rec storage.FutureRecord
	if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
		t.Fatalf("decoding future: %v", err)
	}
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := setupHandler(t, Deps{})

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("body = %v, want status=ok", body)
	}
}

func TestAuth(t *testing.T) {
	h, _ := setupHandler(t, Deps{})

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusUnauthorized},
		{"valid", testToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h, authReq(http.MethodGet, "/futures", "", tt.token))
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}
			if errorType(t, rr) != "authentication_error" {
				t.Error("expected authentication_error")
			}
			if got := rr.Header().Get("WWW-Authenticate"); got != bearerRealm {
				t.Errorf("WWW-Authenticate = %q", got)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	h, store := setupHandler(t, Deps{})

	rec := generate(t, h)
	if rec.ID == "" || rec.Projection.Score != 95 || rec.Recovery != simulator.RecoveryNone {
		t.Fatalf("future = %+v", rec)
	}
	if rec.Profile.Name != "Jane" || rec.Profile.Age != 30 {
		t.Errorf("profile = %+v", rec.Profile)
	}

	events, err := store.ListEvents(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].SessionID != "s1" {
		t.Errorf("events = %+v", events)
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	h, _ := setupHandler(t, Deps{})

	bodies := []string{
		`{"name":"Jane","age":0,"country":"usa","dream":"travel"}`,
		`{"name":"Jane","age":30,"country":"usa","dream":"  "}`,
		`{"name":`,
	}
	for _, body := range bodies {
		rr := serve(h, authReq(http.MethodPost, "/futures", body, testToken))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rr.Code)
			continue
		}
		if typ := errorType(t, rr); typ != "invalid_request_error" {
			t.Errorf("body %s: error type = %q", body, typ)
		}
	}
}

func TestGenerate_RateLimited(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(reg)
	h, _ := setupHandler(t, Deps{RateLimit: 1, Metrics: m})

	generate(t, h)
	rr := serve(h, authReq(http.MethodPost, "/futures", janeBody, testToken))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST status = %d, want 429", rr.Code)
	}

	// Reads are not limited.
	if rr := serve(h, authReq(http.MethodGet, "/futures", "", testToken)); rr.Code != http.StatusOK {
		t.Errorf("GET /futures status = %d", rr.Code)
	}
}

func TestFutures_GetListDelete(t *testing.T) {
	h, _ := setupHandler(t, Deps{})

	rr := serve(h, authReq(http.MethodGet, "/futures", "", testToken))
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("empty list = %s, want []", rr.Body.String())
	}

	rec := generate(t, h)

	rr = serve(h, authReq(http.MethodGet, "/futures/"+rec.ID, "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET future status = %d", rr.Code)
	}

	rr = serve(h, authReq(http.MethodGet, "/futures/stats", "", testToken))
	var stats storage.FutureStats
	json.NewDecoder(rr.Body).Decode(&stats)
	if stats.TotalFutures != 1 || stats.HighestScore != 95 {
		t.Errorf("stats = %+v", stats)
	}

	rr = serve(h, authReq(http.MethodDelete, "/futures/"+rec.ID, "", testToken))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", rr.Code)
	}

	rr = serve(h, authReq(http.MethodGet, "/futures/"+rec.ID, "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("GET deleted status = %d, want 404", rr.Code)
	}
	if typ := errorType(t, rr); typ != "not_found" {
		t.Errorf("error type = %q", typ)
	}
}

func TestReport(t *testing.T) {
	h, _ := setupHandler(t, Deps{})
	rec := generate(t, h)

	rr := serve(h, authReq(http.MethodGet, "/futures/"+rec.ID+"/report", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var report simulator.Report
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.Future.ID != rec.ID {
		t.Errorf("report future = %q, want %q", report.Future.ID, rec.ID)
	}

	rr = serve(h, authReq(http.MethodGet, "/futures/missing/report", "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing report status = %d, want 404", rr.Code)
	}
}

func TestExport(t *testing.T) {
	h, store := setupHandler(t, Deps{})
	rec := generate(t, h)

	rr := serve(h, authReq(http.MethodPost, "/futures/"+rec.ID+"/exports", `{"format":"pdf"}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unsupported format status = %d, want 400", rr.Code)
	}

	rr = serve(h, authReq(http.MethodPost, "/futures/"+rec.ID+"/exports", `{"format":"md","includeInsights":true}`, testToken))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("POST export status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var exp storage.Export
	json.NewDecoder(rr.Body).Decode(&exp)
	if rr.Header().Get("Location") != "/exports/"+exp.ID {
		t.Errorf("Location = %q", rr.Header().Get("Location"))
	}

	rr = serve(h, authReq(http.MethodGet, "/exports/"+exp.ID, "", testToken))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("pending export status = %d, want 202", rr.Code)
	}

	w := exportjob.NewWorker(store, nil, nil, 0)
	if didWork, err := w.RunOnce(context.Background()); err != nil || !didWork {
		t.Fatalf("RunOnce = %v, %v", didWork, err)
	}

	rr = serve(h, authReq(http.MethodGet, "/exports/"+exp.ID, "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("ready export status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "future-report-jane.md") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rr.Body.String(), "Jane") {
		t.Errorf("body does not mention the profile: %s", rr.Body.String())
	}

	rr = serve(h, authReq(http.MethodGet, "/exports/missing", "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing export status = %d, want 404", rr.Code)
	}
}

func TestAnalyze(t *testing.T) {
	h, _ := setupHandler(t, Deps{})

	rr := serve(h, authReq(http.MethodPost, "/analyze", `{"dream":"I will build a career as a software engineer"}`, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var a simulator.Analysis
	if err := json.NewDecoder(rr.Body).Decode(&a); err != nil {
		t.Fatalf("decoding analysis: %v", err)
	}
	if len(a.Insights) == 0 || len(a.Skills) == 0 {
		t.Errorf("analysis = %+v", a)
	}

	rr = serve(h, authReq(http.MethodPost, "/analyze", `{"dream":""}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty dream status = %d, want 400", rr.Code)
	}
}

func TestProgress(t *testing.T) {
	h, _ := setupHandler(t, Deps{})

	rr := serve(h, authReq(http.MethodPost, "/progress/milestones", `{"title":""}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty title status = %d, want 400", rr.Code)
	}

	rr = serve(h, authReq(http.MethodPost, "/progress/milestones", `{"title":"Learn Go","category":"skill"}`, testToken))
	if rr.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var m progress.Milestone
	json.NewDecoder(rr.Body).Decode(&m)

	rr = serve(h, authReq(http.MethodPost, "/progress/milestones/"+m.ID+"/complete", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var c simulator.Completion
	json.NewDecoder(rr.Body).Decode(&c)
	if !c.Milestone.Completed || c.Percentage != 100 || len(c.Unlocked) == 0 {
		t.Errorf("completion = %+v", c)
	}

	rr = serve(h, authReq(http.MethodPost, "/progress/milestones/missing/complete", "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Errorf("complete missing status = %d, want 404", rr.Code)
	}

	rr = serve(h, authReq(http.MethodGet, "/progress/stats", "", testToken))
	var stats progress.Stats
	json.NewDecoder(rr.Body).Decode(&stats)
	if rr.Code != http.StatusOK {
		t.Errorf("stats status = %d", rr.Code)
	}

	rr = serve(h, authReq(http.MethodDelete, "/progress/milestones/"+m.ID, "", testToken))
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rr.Code)
	}

	rr = serve(h, authReq(http.MethodGet, "/progress", "", testToken))
	var snap progress.Snapshot
	json.NewDecoder(rr.Body).Decode(&snap)
	if len(snap.Milestones) != 0 {
		t.Errorf("milestones after delete = %+v", snap.Milestones)
	}
}

func TestSuggestMilestones(t *testing.T) {
	h, _ := setupHandler(t, Deps{})

	rr := serve(h, authReq(http.MethodPost, "/progress/milestones/suggest", "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("suggest without futures status = %d, want 404", rr.Code)
	}

	rec := generate(t, h)
	rr = serve(h, authReq(http.MethodPost, "/progress/milestones/suggest?future_id="+rec.ID, "", testToken))
	if rr.Code != http.StatusCreated {
		t.Fatalf("suggest status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var ms []progress.Milestone
	json.NewDecoder(rr.Body).Decode(&ms)
	if len(ms) == 0 {
		t.Error("no milestones suggested")
	}
}

func TestShareAndEvents(t *testing.T) {
	h, store := setupHandler(t, Deps{})

	rr := serve(h, authReq(http.MethodPost, "/progress/shares", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("share without body status = %d", rr.Code)
	}
	rr = serve(h, authReq(http.MethodPost, "/progress/shares", `{"sessionId":"s2"}`, testToken))
	var shares map[string]int
	json.NewDecoder(rr.Body).Decode(&shares)
	if shares["socialShares"] != 2 {
		t.Errorf("socialShares = %v, want 2", shares)
	}

	rr = serve(h, authReq(http.MethodPost, "/events", `{"sessionId":"s2"}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("event without type status = %d, want 400", rr.Code)
	}
	rr = serve(h, authReq(http.MethodPost, "/events", `{"type":"view_timeline","sessionId":"s2"}`, testToken))
	if rr.Code != http.StatusNoContent {
		t.Errorf("event status = %d", rr.Code)
	}

	events, err := store.ListEvents(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("events = %+v, want share + view_timeline", events)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(reg)
	h, _ := setupHandler(t, Deps{Metrics: m, Gatherer: reg})

	generate(t, h)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `futuresim_http_requests_total{method="POST",route="/futures",status="201"} 1`) {
		t.Errorf("request counter missing from:\n%s", body)
	}
}

func TestCORS(t *testing.T) {
	h, _ := setupHandler(t, Deps{CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/futures", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := serve(h, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
