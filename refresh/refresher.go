package refresh

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"roomload/metrics"
	"roomload/schedule"
)

const (
	DefaultInterval = time.Minute
	defaultTimeout  = 30 * time.Second
)

// ErrSuperseded is returned to callers of a rebuild that was overtaken by a
// newer source before it could publish.
var ErrSuperseded = errors.New("rebuild superseded by a newer source")

type Source interface {
	Fetch(ctx context.Context) ([]schedule.Row, error)
}

type SourceFunc func(ctx context.Context) ([]schedule.Row, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]schedule.Row, error) {
	return f(ctx)
}

// StaticRows serves a fixed row set, such as rows read once from local files.
func StaticRows(rows []schedule.Row) Source {
	return SourceFunc(func(context.Context) ([]schedule.Row, error) {
		return rows, nil
	})
}

type Options struct {
	Build    BuildOptions
	Interval time.Duration
	Timeout  time.Duration
	Recorder *metrics.Recorder
	Logger   *zerolog.Logger
	Now      func() time.Time
}

type Status struct {
	SnapshotID     string     `json:"snapshotId,omitempty"`
	BuiltAt        *time.Time `json:"builtAt,omitempty"`
	LastAttempt    *time.Time `json:"lastAttempt,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
	Live           bool       `json:"live"`
	Ready          bool       `json:"ready"`
	RowsRead       int        `json:"rowsRead"`
	EntriesEmitted int        `json:"entriesEmitted"`
	RowsSkipped    int        `json:"rowsSkipped"`
}

// Refresher keeps the latest snapshot built from a source. At most one
// rebuild runs per source generation; swapping the source cancels the
// in-flight rebuild and only the newest generation may publish.
type Refresher struct {
	opts  Options
	log   zerolog.Logger
	group singleflight.Group

	mu          sync.Mutex
	source      Source
	live        bool
	generation  uint64
	cancel      context.CancelFunc
	lastAttempt time.Time
	lastErr     error

	current atomic.Pointer[Snapshot]
}

func New(source Source, live bool, opts Options) *Refresher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Refresher{opts: opts, log: log, source: source, live: live}
}

// Current returns the last published snapshot, or nil before the first
// successful build.
func (r *Refresher) Current() *Snapshot {
	return r.current.Load()
}

// SetSource replaces the source and cancels any rebuild still running for
// the previous one. The next Refresh builds from the new source.
func (r *Refresher) SetSource(source Source, live bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.source = source
	r.live = live
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Refresh rebuilds from the current source, joining a rebuild already in
// flight for it. A failed rebuild keeps the previous snapshot.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	generation := r.generation
	source := r.source
	live := r.live
	r.mu.Unlock()

	ch := r.group.DoChan(strconv.FormatUint(generation, 10), func() (any, error) {
		return r.rebuild(generation, source, live)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (r *Refresher) rebuild(generation uint64, source Source, live bool) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.Timeout)
	defer cancel()

	r.mu.Lock()
	if generation != r.generation {
		r.mu.Unlock()
		return nil, ErrSuperseded
	}
	r.cancel = cancel
	r.mu.Unlock()

	started := r.opts.Now()
	snapshot, err := r.build(ctx, source)
	elapsed := r.opts.Now().Sub(started)

	r.mu.Lock()
	defer r.mu.Unlock()
	if generation != r.generation {
		r.log.Debug().Uint64("generation", generation).Msg("discarding superseded rebuild")
		return nil, ErrSuperseded
	}
	r.cancel = nil
	r.lastAttempt = started
	r.lastErr = err

	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, schedule.ErrNoData) {
			result = metrics.ResultNoData
		}
		r.opts.Recorder.ObserveBuild(result, elapsed)
		r.log.Warn().Err(err).Bool("live", live).Msg("rebuild failed, keeping previous snapshot")
		return nil, err
	}

	snapshot.BuiltAt = started
	snapshot.Live = live
	r.current.Store(snapshot)

	r.opts.Recorder.ObserveBuild(metrics.ResultSuccess, elapsed)
	r.opts.Recorder.RecordSkipped(snapshot.Report.SkippedByReason())
	r.opts.Recorder.RecordSuccess(started, len(snapshot.Grid.Rooms), len(snapshot.Loads.Instructors))
	r.log.Info().
		Str("snapshot", snapshot.ID.String()).
		Int("rows", snapshot.Report.RowsRead).
		Int("entries", snapshot.Report.EntriesEmitted).
		Int("skipped", snapshot.Report.RowsSkipped()).
		Dur("elapsed", elapsed).
		Msg("snapshot rebuilt")
	for _, skipped := range snapshot.Report.Skipped {
		r.log.Debug().Int("row", skipped.RowNumber).Str("reason", string(skipped.Reason)).Msg("row skipped")
	}
	return snapshot, nil
}

func (r *Refresher) build(ctx context.Context, source Source) (*Snapshot, error) {
	rows, err := source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Build(rows, r.opts.Build)
}

// Run refreshes immediately and then on every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.Refresh(ctx); err != nil && ctx.Err() == nil && !errors.Is(err, ErrSuperseded) {
			r.log.Debug().Err(err).Msg("scheduled refresh failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Refresher) Status() Status {
	r.mu.Lock()
	status := Status{Live: r.live}
	if !r.lastAttempt.IsZero() {
		attempt := r.lastAttempt
		status.LastAttempt = &attempt
	}
	if r.lastErr != nil {
		status.LastError = r.lastErr.Error()
	}
	r.mu.Unlock()

	if snapshot := r.Current(); snapshot != nil {
		builtAt := snapshot.BuiltAt
		status.Ready = true
		status.SnapshotID = snapshot.ID.String()
		status.BuiltAt = &builtAt
		status.RowsRead = snapshot.Report.RowsRead
		status.EntriesEmitted = snapshot.Report.EntriesEmitted
		status.RowsSkipped = snapshot.Report.RowsSkipped()
	}
	return status
}
