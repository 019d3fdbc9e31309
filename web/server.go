// Package web serves a read-only view of the latest snapshot; it has no
// auth and is meant for a trusted network.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"roomload/output"
	"roomload/refresh"
)

//go:embed templates/*.html
var templateFS embed.FS

// SnapshotProvider is satisfied by *refresh.Refresher.
type SnapshotProvider interface {
	Current() *refresh.Snapshot
	Status() refresh.Status
	Refresh(ctx context.Context) (*refresh.Snapshot, error)
}

type Options struct {
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler
	Logger  *zerolog.Logger
}

type Server struct {
	provider SnapshotProvider
	log      zerolog.Logger
	mux      *http.ServeMux
}

type statusView struct {
	Live        bool
	Ready       bool
	BuiltAt     string
	LastError   string
	RowsRead    int
	RowsSkipped int
}

type allocationPageView struct {
	Title  string
	Status statusView
	View   AllocationView
}

type loadsPageView struct {
	Title       string
	Status      statusView
	Filter      string
	Instructors []LoadView
}

func NewServer(provider SnapshotProvider, opts Options) http.Handler {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	server := &Server{provider: provider, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleAllocation)
	mux.HandleFunc("GET /loads", server.handleLoads)
	mux.HandleFunc("GET /api/allocation", server.handleAPIAllocation)
	mux.HandleFunc("GET /api/loads", server.handleAPILoads)
	mux.HandleFunc("GET /api/status", server.handleAPIStatus)
	mux.HandleFunc("POST /api/refresh", server.handleAPIRefresh)
	mux.HandleFunc("GET /chart/occupancy", server.handleChart)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAllocation(w http.ResponseWriter, r *http.Request) {
	view := allocationPageView{Title: "Room allocation", Status: s.statusView()}
	if snapshot := s.provider.Current(); snapshot != nil {
		view.View = BuildAllocationView(snapshot.Grid, r.URL.Query().Get("day"))
	}
	if err := renderTemplate(w, "allocation.html", view); err != nil {
		s.log.Error().Err(err).Msg("render allocation page")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLoads(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("instructor")
	view := loadsPageView{Title: "Teaching loads", Status: s.statusView(), Filter: filter}
	if snapshot := s.provider.Current(); snapshot != nil {
		view.Instructors = BuildLoadViews(snapshot.Loads, filter)
	}
	if err := renderTemplate(w, "loads.html", view); err != nil {
		s.log.Error().Err(err).Msg("render loads page")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIAllocation(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.requireSnapshot(w)
	if !ok {
		return
	}
	resp, found := buildAllocationResponse(snapshot, r.URL.Query().Get("day"))
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "day has no occupancy"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPILoads(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.requireSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, buildLoadsResponse(snapshot))
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.Status())
}

func (s *Server) handleAPIRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	if _, err := s.provider.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("manual refresh failed")
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":  err.Error(),
			"status": s.provider.Status(),
		})
		return
	}
	writeJSON(w, http.StatusOK, s.provider.Status())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.requireSnapshot(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := output.RenderOccupancyChart(w, snapshot.Grid); err != nil {
		s.log.Error().Err(err).Msg("render occupancy chart")
	}
}

func (s *Server) requireSnapshot(w http.ResponseWriter) (*refresh.Snapshot, bool) {
	snapshot := s.provider.Current()
	if snapshot == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":  "no schedule loaded yet",
			"status": s.provider.Status(),
		})
		return nil, false
	}
	return snapshot, true
}

func (s *Server) statusView() statusView {
	status := s.provider.Status()
	view := statusView{
		Live:        status.Live,
		Ready:       status.Ready,
		LastError:   status.LastError,
		RowsRead:    status.RowsRead,
		RowsSkipped: status.RowsSkipped,
	}
	if status.BuiltAt != nil {
		view.BuiltAt = status.BuiltAt.Local().Format("15:04:05")
	}
	return view
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"pct": func(value float64) string {
			return fmt.Sprintf("%.2f%%", value)
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
