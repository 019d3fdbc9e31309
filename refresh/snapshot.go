package refresh

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomload/allocation"
	"roomload/internal/classify"
	"roomload/loads"
	"roomload/schedule"
)

type BuildOptions struct {
	Classifier *classify.Classifier
	Patterns   allocation.Patterns
	Loads      loads.Options
}

// Snapshot is one immutable build of the occupancy grid and load report.
type Snapshot struct {
	ID      uuid.UUID
	BuiltAt time.Time
	Live    bool
	Grid    allocation.Grid
	Loads   loads.Report
	Report  schedule.NormalizeReport
	// Slots resolves the buckets of each weekday for this build.
	Slots *allocation.Catalog
}

func (s *Snapshot) HasAllocation() bool {
	return s != nil && len(s.Grid.Days) > 0
}

func (s *Snapshot) HasLoads() bool {
	return s != nil && len(s.Loads.Instructors) > 0
}

// Build normalizes rows and derives both views from the same entries. A view
// with no data stays empty; schedule.ErrNoData is returned only when neither
// view has anything to show.
func Build(rows []schedule.Row, opts BuildOptions) (*Snapshot, error) {
	entries, report := schedule.Normalize(rows, schedule.NormalizeOptions{Classifier: opts.Classifier})

	grid, err := allocation.Build(entries, opts.Patterns)
	if err != nil && !errors.Is(err, schedule.ErrNoData) {
		return nil, fmt.Errorf("build allocation: %w", err)
	}
	loadReport, err := loads.Aggregate(entries, opts.Loads)
	if err != nil && !errors.Is(err, schedule.ErrNoData) {
		return nil, fmt.Errorf("aggregate loads: %w", err)
	}

	snapshot := &Snapshot{
		ID:     uuid.New(),
		Grid:   grid,
		Loads:  loadReport,
		Report: report,
		Slots:  allocation.NewCatalog(opts.Patterns, entries),
	}
	if !snapshot.HasAllocation() && !snapshot.HasLoads() {
		return nil, schedule.ErrNoData
	}
	return snapshot, nil
}
