package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"roomboard/internal/loader"
	"roomboard/internal/metrics"
	"roomboard/internal/timetable"
)

// Server serves the schedule grid API.
type Server struct {
	holder     *loader.SnapshotHolder
	aggregator *timetable.Aggregator
	dayNames   timetable.DayNames
	rooms      []string
	logger     *zerolog.Logger
}

// NewServer creates the API server over a snapshot holder.
func NewServer(holder *loader.SnapshotHolder, aggregator *timetable.Aggregator, dayNames timetable.DayNames, rooms []string, logger *zerolog.Logger) *Server {
	return &Server{
		holder:     holder,
		aggregator: aggregator,
		dayNames:   dayNames,
		rooms:      rooms,
		logger:     logger,
	}
}

// Handler returns the API routing with logging and metrics applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/week", s.handleWeek)
	mux.HandleFunc("GET /api/v1/grid", s.handleGrid)
	mux.HandleFunc("GET /api/v1/grid/export", s.handleGridExport)
	mux.HandleFunc("GET /api/v1/rooms", s.handleRooms)
	return s.withObservability(mux)
}

// Run serves the API until ctx is cancelled.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Int("port", port).Msg("API server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.IncHTTPRequest(r.URL.Path, strconv.Itoa(rec.status))
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(started)).
			Msg("api request")
	})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
