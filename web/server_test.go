package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roomload/refresh"
	"roomload/schedule"
)

type fakeProvider struct {
	snapshot   *refresh.Snapshot
	refreshErr error
	refreshed  int
}

func (f *fakeProvider) Current() *refresh.Snapshot {
	return f.snapshot
}

func (f *fakeProvider) Status() refresh.Status {
	status := refresh.Status{Live: true}
	if f.snapshot != nil {
		builtAt := f.snapshot.BuiltAt
		status.Ready = true
		status.SnapshotID = f.snapshot.ID.String()
		status.BuiltAt = &builtAt
		status.RowsRead = f.snapshot.Report.RowsRead
	}
	if f.refreshErr != nil {
		status.LastError = f.refreshErr.Error()
	}
	return status
}

func (f *fakeProvider) Refresh(context.Context) (*refresh.Snapshot, error) {
	f.refreshed++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.snapshot, nil
}

func testRows() []schedule.Row {
	return []schedule.Row{
		{Number: 2, Values: map[string]string{
			"SCHEDULE":          "9:00 AM-10:30 AM",
			"DAYS":              "MTH",
			"ROOM":              "201 & IR",
			"INSTRUCTOR":        "Dela Cruz, Juan",
			"SUBJECT":           "ACC101",
			"DESCRIPTIVE TITLE": "Financial Accounting",
			"PYB":               "BSA1A",
			"UNITS":             "3",
		}},
		{Number: 3, Values: map[string]string{
			"SCHEDULE":          "8:00 AM-12:00 PM",
			"DAYS":              "S",
			"ROOM":              "",
			"INSTRUCTOR":        "Lim, Paolo",
			"SUBJECT":           "OJT1",
			"DESCRIPTIVE TITLE": "Accounting Practicum",
			"PYB":               "BSA4A",
			"UNITS":             "6",
		}},
	}
}

func testSnapshot(t *testing.T) *refresh.Snapshot {
	t.Helper()
	snapshot, err := refresh.Build(testRows(), refresh.BuildOptions{})
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	snapshot.BuiltAt = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	return snapshot
}

func get(t *testing.T, handler http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	resp := rec.Result()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestServer_AllocationPageRendersSelectedDay(t *testing.T) {
	t.Parallel()

	handler := NewServer(&fakeProvider{snapshot: testSnapshot(t)}, Options{})

	resp, body := get(t, handler, "/?day=thursday")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "<h2>Thursday</h2>") {
		t.Fatalf("expected thursday selected: %s", body)
	}
	if !strings.Contains(body, "10:00 AM - 11:30 AM") {
		t.Fatalf("expected thursday slot labels: %s", body)
	}
	if !strings.Contains(body, "auto-refresh") {
		t.Fatalf("expected live badge: %s", body)
	}
}

func TestServer_AllocationPageWithoutSnapshot(t *testing.T) {
	t.Parallel()

	handler := NewServer(&fakeProvider{}, Options{})

	resp, body := get(t, handler, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "No room occupancy to show.") {
		t.Fatalf("expected empty state: %s", body)
	}
}

func TestServer_LoadsPageFilters(t *testing.T) {
	t.Parallel()

	handler := NewServer(&fakeProvider{snapshot: testSnapshot(t)}, Options{})

	_, body := get(t, handler, "/loads")
	if !strings.Contains(body, "Dela Cruz, Juan") || !strings.Contains(body, "Lim, Paolo") {
		t.Fatalf("expected both instructors: %s", body)
	}

	_, body = get(t, handler, "/loads?instructor=lim")
	if strings.Contains(body, "Dela Cruz, Juan") || !strings.Contains(body, "Accounting Practicum") {
		t.Fatalf("expected only Lim listed: %s", body)
	}
}

func TestServer_APIAllocation(t *testing.T) {
	t.Parallel()

	handler := NewServer(&fakeProvider{snapshot: testSnapshot(t)}, Options{})

	resp, body := get(t, handler, "/api/allocation?day=Monday")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var payload allocationResponse
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Days) != 1 || payload.Days[0].Label != "Monday" {
		t.Fatalf("unexpected days: %+v", payload.Days)
	}
	if len(payload.Rooms) != 2 || payload.Rooms[0] != "201" || payload.Rooms[1] != "IR" {
		t.Fatalf("unexpected rooms: %v", payload.Rooms)
	}

	resp, _ = get(t, handler, "/api/allocation?day=Sunday")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unoccupied day, got %d", resp.StatusCode)
	}
}

func TestServer_APILoadsKeysScheduleByDayName(t *testing.T) {
	t.Parallel()

	handler := NewServer(&fakeProvider{snapshot: testSnapshot(t)}, Options{})

	resp, body := get(t, handler, "/api/loads")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload struct {
		Days        []string `json:"days"`
		Instructors []struct {
			Name     string                       `json:"name"`
			Summary  struct{ Total float64 }      `json:"summary"`
			Schedule map[string][]json.RawMessage `json:"schedule"`
		} `json:"instructors"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Instructors) != 2 {
		t.Fatalf("unexpected instructors: %+v", payload.Instructors)
	}
	first := payload.Instructors[0]
	if first.Name != "Dela Cruz, Juan" || first.Summary.Total != 3 {
		t.Fatalf("unexpected first instructor: %+v", first)
	}
	if len(first.Schedule["Monday"]) != 1 || len(first.Schedule["Thursday"]) != 1 {
		t.Fatalf("unexpected schedule keys: %+v", first.Schedule)
	}
	if payload.Days[len(payload.Days)-1] != "Saturday" {
		t.Fatalf("unexpected days: %v", payload.Days)
	}
}

func TestServer_APIWithoutSnapshotIsUnavailable(t *testing.T) {
	t.Parallel()

	handler := NewServer(&fakeProvider{}, Options{})
	for _, target := range []string{"/api/allocation", "/api/loads", "/chart/occupancy"} {
		resp, _ := get(t, handler, target)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("expected 503 for %s, got %d", target, resp.StatusCode)
		}
	}
}

func TestServer_APIRefresh(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{snapshot: testSnapshot(t)}
	handler := NewServer(provider, Options{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if rec.Code != http.StatusOK || provider.refreshed != 1 {
		t.Fatalf("expected refresh to succeed, got %d", rec.Code)
	}

	provider.refreshErr = errors.New("sheet unavailable")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "sheet unavailable") {
		t.Fatalf("expected 502 with error, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_ChartAndMetrics(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "roomload_builds_total 1\n")
	})
	handler := NewServer(&fakeProvider{snapshot: testSnapshot(t)}, Options{Metrics: metrics})

	resp, body := get(t, handler, "/chart/occupancy")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Occupied") {
		t.Fatalf("unexpected chart response %d", resp.StatusCode)
	}

	_, body = get(t, handler, "/metrics")
	if !strings.Contains(body, "roomload_builds_total") {
		t.Fatalf("expected metrics body, got %q", body)
	}

	resp, _ = get(t, NewServer(&fakeProvider{}, Options{}), "/metrics")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected metrics unmounted, got %d", resp.StatusCode)
	}
}
