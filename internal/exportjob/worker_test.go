package exportjob

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kalambet/futuresim/internal/export"
	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/projection"
	"github.com/kalambet/futuresim/internal/storage"
)

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

// testClock is a store clock the test can move past retry backoff.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, _ := openClockedStore(t)
	return s
}

func openClockedStore(t *testing.T) (*storage.Store, *testClock) {
	t.Helper()
	clock := &testClock{now: fixedNow}
	s, err := storage.Open(":memory:", storage.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func saveTestFuture(t *testing.T, store *storage.Store, id string) {
	t.Helper()
	p := profile.UserProfile{Name: "Jane", Age: 30, Country: "usa", Dream: "I will build a career as a software engineer by age 35"}
	proj, err := projection.NewEngine(func() time.Time { return fixedNow }).Project(p)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	rec := storage.FutureRecord{ID: id, CreatedAt: fixedNow, Profile: p, Projection: proj}
	if err := store.SaveFuture(rec); err != nil {
		t.Fatalf("SaveFuture: %v", err)
	}
}

func enqueueTestExport(t *testing.T, store *storage.Store, exportID, futureID, format string, payload Payload) {
	t.Helper()
	if err := store.SaveExport(storage.Export{ID: exportID, FutureID: futureID, Format: format}); err != nil {
		t.Fatalf("SaveExport: %v", err)
	}
	payload.ExportID = exportID
	data, _ := json.Marshal(payload)
	job := storage.Job{ID: JobID(exportID), Type: JobType, PayloadJSON: string(data)}
	if err := store.EnqueueJob(job); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}
}

func jobStatus(t *testing.T, store *storage.Store, exportID string) (string, int) {
	t.Helper()
	job, err := store.GetJob(JobID(exportID))
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	return job.Status, job.Attempts
}

func TestWorker_RendersExport(t *testing.T) {
	store := openTestStore(t)
	saveTestFuture(t, store, "f-1")
	enqueueTestExport(t, store, "e-1", "f-1", "text", Payload{IncludeInsights: true, IncludeProgress: true})

	w := NewWorker(store, nil, nil, 0)
	w.now = func() time.Time { return fixedNow }

	didWork, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if !didWork {
		t.Fatal("RunOnce returned false, expected true")
	}

	exp, err := store.GetExport("e-1")
	if err != nil {
		t.Fatalf("GetExport: %v", err)
	}
	if exp.Status != storage.ExportReady {
		t.Fatalf("status = %q, want ready (error %q)", exp.Status, exp.Error)
	}
	if exp.Filename != "future-report-jane.txt" {
		t.Errorf("filename = %q", exp.Filename)
	}
	if !strings.Contains(string(exp.Body), "Generated for: Jane") {
		t.Errorf("body missing header:\n%s", exp.Body)
	}
	if status, _ := jobStatus(t, store, "e-1"); status != "completed" {
		t.Errorf("job status = %q, want completed", status)
	}
}

func TestWorker_NoJobs(t *testing.T) {
	store := openTestStore(t)
	w := NewWorker(store, nil, nil, 0)

	didWork, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if didWork {
		t.Error("RunOnce returned true on an empty queue")
	}
}

func TestWorker_RetryOnFailure(t *testing.T) {
	store, clock := openClockedStore(t)
	saveTestFuture(t, store, "f-r")
	enqueueTestExport(t, store, "e-r", "f-r", "json", Payload{})

	var calls atomic.Int32
	w := NewWorker(store, func(format string, in export.Input) (export.Result, error) {
		if n := calls.Add(1); n <= 2 {
			return export.Result{}, fmt.Errorf("transient error %d", n)
		}
		return export.Render(format, in)
	}, nil, 0)

	ctx := context.Background()
	for i := 1; i <= 2; i++ {
		if _, err := w.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce %d error: %v", i, err)
		}
		status, attempts := jobStatus(t, store, "e-r")
		if status != "pending" || attempts != i {
			t.Errorf("after fail %d: status=%q attempts=%d, want pending/%d", i, status, attempts, i)
		}
		exp, _ := store.GetExport("e-r")
		if exp.Status != storage.ExportPending {
			t.Errorf("after fail %d: export status = %q, want pending", i, exp.Status)
		}
		if didWork, _ := w.RunOnce(ctx); didWork {
			t.Fatalf("after fail %d: job claimed during backoff", i)
		}
		clock.Advance(time.Minute)
	}

	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce 3 error: %v", err)
	}
	if status, _ := jobStatus(t, store, "e-r"); status != "completed" {
		t.Errorf("after 3rd attempt: status=%q, want completed", status)
	}
	exp, _ := store.GetExport("e-r")
	if exp.Status != storage.ExportReady {
		t.Errorf("export status = %q, want ready", exp.Status)
	}
}

func TestWorker_MaxRetriesExceeded(t *testing.T) {
	store, clock := openClockedStore(t)
	saveTestFuture(t, store, "f-m")
	enqueueTestExport(t, store, "e-m", "f-m", "json", Payload{})

	w := NewWorker(store, func(string, export.Input) (export.Result, error) {
		return export.Result{}, fmt.Errorf("disk full")
	}, nil, 0)

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		didWork, err := w.RunOnce(ctx)
		if err != nil {
			t.Fatalf("RunOnce %d error: %v", i, err)
		}
		if !didWork {
			t.Fatalf("RunOnce %d returned false", i)
		}
		clock.Advance(time.Minute)
	}

	if status, _ := jobStatus(t, store, "e-m"); status != "failed" {
		t.Errorf("final status = %q, want failed", status)
	}
	exp, _ := store.GetExport("e-m")
	if exp.Status != storage.ExportFailed || !strings.Contains(exp.Error, "disk full") {
		t.Errorf("export = %s/%q, want failed with cause", exp.Status, exp.Error)
	}
}

func TestWorker_PermanentFailures(t *testing.T) {
	tests := []struct {
		name     string
		futureID string
		format   string
		want     string
	}{
		{"unknown format", "f-p", "docx", "unsupported export format"},
		{"missing future", "gone", "json", "no longer exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openTestStore(t)
			saveTestFuture(t, store, "f-p")
			enqueueTestExport(t, store, "e-p", tt.futureID, tt.format, Payload{})

			w := NewWorker(store, nil, nil, 0)
			if _, err := w.RunOnce(context.Background()); err != nil {
				t.Fatalf("RunOnce error: %v", err)
			}

			status, attempts := jobStatus(t, store, "e-p")
			if status != "failed" || attempts != 1 {
				t.Errorf("job = %s/%d, want failed/1", status, attempts)
			}
			exp, _ := store.GetExport("e-p")
			if exp.Status != storage.ExportFailed || !strings.Contains(exp.Error, tt.want) {
				t.Errorf("export = %s/%q, want failed containing %q", exp.Status, exp.Error, tt.want)
			}
		})
	}
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	store := openTestStore(t)
	w := NewWorker(store, nil, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
