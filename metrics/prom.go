package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roomload/schedule"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoData  = "no_data"
)

// Recorder tracks snapshot builds. A nil Recorder discards everything.
type Recorder struct {
	builds      *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
	rooms       prometheus.Gauge
	instructors prometheus.Gauge
}

// NewRecorder registers the build collectors on reg, or on the default
// registerer when reg is nil. Collectors that are already registered are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	builds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roomload_builds_total",
		Help: "Total number of snapshot builds by result",
	}, []string{"result"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roomload_rows_skipped_total",
		Help: "Source rows dropped during normalization by reason",
	}, []string{"reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roomload_build_duration_seconds",
		Help:    "Time spent fetching rows and building a snapshot",
		Buckets: prometheus.DefBuckets,
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roomload_last_success_timestamp_seconds",
		Help: "Unix time of the last successful snapshot build",
	})
	rooms := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roomload_rooms",
		Help: "Rooms in the current allocation grid",
	})
	instructors := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roomload_instructors",
		Help: "Instructors in the current load report",
	})

	var err error
	if builds, err = register(reg, builds); err != nil {
		return nil, err
	}
	if skipped, err = register(reg, skipped); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if lastSuccess, err = register(reg, lastSuccess); err != nil {
		return nil, err
	}
	if rooms, err = register(reg, rooms); err != nil {
		return nil, err
	}
	if instructors, err = register(reg, instructors); err != nil {
		return nil, err
	}

	return &Recorder{
		builds:      builds,
		skipped:     skipped,
		duration:    duration,
		lastSuccess: lastSuccess,
		rooms:       rooms,
		instructors: instructors,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

// ObserveBuild counts one build attempt and its duration.
func (r *Recorder) ObserveBuild(result string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.builds.WithLabelValues(result).Inc()
	r.duration.Observe(elapsed.Seconds())
}

func (r *Recorder) RecordSkipped(byReason map[schedule.SkipReason]int) {
	if r == nil {
		return
	}
	for reason, count := range byReason {
		r.skipped.WithLabelValues(string(reason)).Add(float64(count))
	}
}

// RecordSuccess publishes the shape of a freshly built snapshot.
func (r *Recorder) RecordSuccess(at time.Time, rooms, instructors int) {
	if r == nil {
		return
	}
	r.lastSuccess.Set(float64(at.Unix()))
	r.rooms.Set(float64(rooms))
	r.instructors.Set(float64(instructors))
}

// Handler exposes the collectors of gatherer, or of the default gatherer when
// nil.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
