package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/openflights"
)

var errBadThreshold = apperrors.New(apperrors.ErrCodeInvalidInput, "min_flights must be a non-negative integer")

// Server serves the dashboard page and its route data over HTTP. Query
// parameters override the configured threshold and color scale per request:
// ?min_flights=50&scale=plasma.
type Server struct {
	routes []openflights.Route
	opts   Options
	log    *log.Logger
}

// NewServer builds a Server over sorted routes. A nil logger silences
// request logging.
func NewServer(routes []openflights.Route, opts Options, logger *log.Logger) (*Server, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{routes: routes, opts: opts, log: logger}, nil
}

// Handler returns the dashboard's HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/api/routes", s.handleRoutes)
	r.Get("/api/stats", s.handleStats)
	r.Get("/histogram.png", s.handleHistogram)
	return r
}

// ListenAndServe serves the dashboard on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

// requestOptions layers query-parameter overrides on the configured options.
func (s *Server) requestOptions(r *http.Request) (Options, error) {
	opts := s.opts
	if raw := r.URL.Query().Get("min_flights"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil || min < 0 {
			return opts, errBadThreshold
		}
		opts.MinFlights = min
	}
	if raw := r.URL.Query().Get("scale"); raw != "" {
		scale, err := ParseScale(raw)
		if err != nil {
			return opts, err
		}
		opts.Scale = scale
	}
	return opts, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := WritePage(s.routes, opts, &buf); err != nil {
		s.log.Error("failed to render dashboard", "error", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, openflights.FilterRoutes(s.routes, opts.MinFlights))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, Summarize(openflights.FilterRoutes(s.routes, opts.MinFlights)))
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	png, err := Histogram(openflights.FilterRoutes(s.routes, opts.MinFlights))
	if err != nil {
		http.Error(w, "no routes to chart", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
