package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomload/metrics"
	"roomload/schedule"
)

func sampleRows(room string) []schedule.Row {
	return []schedule.Row{
		{Number: 2, Values: map[string]string{
			"SCHEDULE":          "9:00 AM-10:30 AM",
			"DAYS":              "MW",
			"ROOM":              room,
			"INSTRUCTOR":        "Dela Cruz, Juan",
			"SUBJECT":           "ACC101",
			"DESCRIPTIVE TITLE": "Financial Accounting",
			"PYB":               "BSA1A",
			"UNITS":             "3",
		}},
		{Number: 3, Values: map[string]string{"SCHEDULE": "", "DAYS": "M"}},
	}
}

func TestBuild_DerivesBothViews(t *testing.T) {
	t.Parallel()

	snapshot, err := Build(sampleRows("201"), BuildOptions{})
	require.NoError(t, err)

	assert.True(t, snapshot.HasAllocation())
	assert.True(t, snapshot.HasLoads())
	assert.Equal(t, []string{"201"}, snapshot.Grid.Rooms)
	assert.Equal(t, float64(3), snapshot.Loads.Instructors[0].Summary.Total)
	assert.Equal(t, 1, snapshot.Report.RowsSkipped())
	assert.NotEqual(t, uuid.Nil, snapshot.ID)
}

func TestBuild_NoData(t *testing.T) {
	t.Parallel()

	_, err := Build([]schedule.Row{{Number: 2, Values: map[string]string{"SCHEDULE": "bad"}}}, BuildOptions{})
	assert.ErrorIs(t, err, schedule.ErrNoData)
}

func TestRefresher_FailureKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	var fail atomic.Bool
	source := SourceFunc(func(context.Context) ([]schedule.Row, error) {
		if fail.Load() {
			return nil, errors.New("sheet unavailable")
		}
		return sampleRows("201"), nil
	})

	r := New(source, true, Options{Recorder: recorder})
	assert.Nil(t, r.Current())
	assert.False(t, r.Status().Ready)

	first, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, first.Live)
	assert.False(t, first.BuiltAt.IsZero())

	fail.Store(true)
	_, err = r.Refresh(context.Background())
	require.Error(t, err)

	assert.Same(t, first, r.Current())
	status := r.Status()
	assert.True(t, status.Ready)
	assert.True(t, status.Live)
	assert.Equal(t, first.ID.String(), status.SnapshotID)
	assert.Equal(t, "sheet unavailable", status.LastError)
	require.NotNil(t, status.LastAttempt)
	assert.False(t, status.LastAttempt.Before(*status.BuiltAt))
	assert.Equal(t, 2, status.RowsRead)
	assert.Equal(t, 1, status.RowsSkipped)
}

func TestRefresher_ConcurrentCallsShareOneRebuild(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	source := SourceFunc(func(context.Context) ([]schedule.Row, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return sampleRows("201"), nil
	})

	r := New(source, false, Options{})

	const callers = 5
	var wg sync.WaitGroup
	results := make([]*Snapshot, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snapshot, err := r.Refresh(context.Background())
			assert.NoError(t, err)
			results[i] = snapshot
		}(i)
	}

	<-started
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, snapshot := range results {
		assert.Same(t, results[0], snapshot)
	}
}

func TestRefresher_NewestSourceWins(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	slow := SourceFunc(func(ctx context.Context) ([]schedule.Row, error) {
		close(started)
		<-ctx.Done()
		return sampleRows("OLD"), nil
	})

	r := New(slow, true, Options{})

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Refresh(context.Background())
		errCh <- err
	}()

	<-started
	r.SetSource(StaticRows(sampleRows("NEW")), false)

	snapshot, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW"}, snapshot.Grid.Rooms)
	assert.False(t, snapshot.Live)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded rebuild did not return")
	}
	assert.Equal(t, []string{"NEW"}, r.Current().Grid.Rooms)
}

func TestRefresher_CallerContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	source := SourceFunc(func(context.Context) ([]schedule.Row, error) {
		<-release
		return sampleRows("201"), nil
	})

	r := New(source, false, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Refresh(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRefresher_RunRefreshesOnInterval(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	source := SourceFunc(func(context.Context) ([]schedule.Row, error) {
		calls.Add(1)
		return sampleRows("201"), nil
	})

	r := New(source, true, Options{Interval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}
	assert.NotNil(t, r.Current())
}
