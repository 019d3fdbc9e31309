package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomload/schedule"
)

func TestRecorder_ObserveBuild(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rec.ObserveBuild(ResultSuccess, 120*time.Millisecond)
	rec.ObserveBuild(ResultError, time.Second)
	rec.ObserveBuild(ResultSuccess, 80*time.Millisecond)

	expected := `
# HELP roomload_builds_total Total number of snapshot builds by result
# TYPE roomload_builds_total counter
roomload_builds_total{result="error"} 1
roomload_builds_total{result="success"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(rec.builds, strings.NewReader(expected)))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration))
}

func TestRecorder_SkippedAndSuccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rec.RecordSkipped(map[schedule.SkipReason]int{
		schedule.SkipNoRoom:      2,
		schedule.SkipInvalidTime: 1,
	})
	rec.RecordSkipped(map[schedule.SkipReason]int{schedule.SkipNoRoom: 1})
	rec.RecordSuccess(time.Unix(1700000000, 0), 12, 30)

	assert.Equal(t, float64(3), testutil.ToFloat64(rec.skipped.WithLabelValues(string(schedule.SkipNoRoom))))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.skipped.WithLabelValues(string(schedule.SkipInvalidTime))))
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(rec.lastSuccess))
	assert.Equal(t, float64(12), testutil.ToFloat64(rec.rooms))
	assert.Equal(t, float64(30), testutil.ToFloat64(rec.instructors))
}

func TestNewRecorder_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg)
	require.NoError(t, err)
	second, err := NewRecorder(reg)
	require.NoError(t, err)

	first.ObserveBuild(ResultSuccess, time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(second.builds.WithLabelValues(ResultSuccess)))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *Recorder
	rec.ObserveBuild(ResultSuccess, time.Second)
	rec.RecordSkipped(map[schedule.SkipReason]int{schedule.SkipNoRoom: 1})
	rec.RecordSuccess(time.Now(), 1, 1)
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)
	rec.ObserveBuild(ResultNoData, time.Millisecond)

	server := httptest.NewServer(Handler(reg))
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `roomload_builds_total{result="no_data"} 1`)
}
