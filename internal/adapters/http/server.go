package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/travelsir"
	"github.com/aretw0/travelsir/internal/logging"
	"github.com/aretw0/travelsir/internal/runtime"
	"github.com/aretw0/travelsir/pkg/config"
	"github.com/aretw0/travelsir/pkg/domain"
	"github.com/aretw0/travelsir/pkg/observability"
	"github.com/aretw0/travelsir/pkg/report"
)

// DefaultMaxWeeks bounds the horizon a single request may ask for.
const DefaultMaxWeeks = 10000

// maxBodyBytes bounds request bodies; parameter sets are tiny.
const maxBodyBytes = 1 << 20

// Server exposes the simulator over HTTP.
type Server struct {
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	check    bool
	maxWeeks int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request and run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithRegistry sets the registry the run metrics are registered on and
// served from /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithAnomalyCheck enables the invariant check on every run.
func WithAnomalyCheck(enabled bool) Option {
	return func(s *Server) { s.check = enabled }
}

// WithMaxWeeks overrides DefaultMaxWeeks.
func WithMaxWeeks(n int) Option {
	return func(s *Server) { s.maxWeeks = n }
}

// NewServer builds a Server and registers its metrics.
func NewServer(opts ...Option) *Server {
	s := &Server{maxWeeks: DefaultMaxWeeks}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = observability.NewMetrics(s.registry)
	return s
}

// NewHandler creates the HTTP handler for a new Server.
func NewHandler(opts ...Option) http.Handler {
	return NewServer(opts...).Handler()
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.GetHealth)
	r.Get("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/info", s.GetInfo)
		r.Get("/defaults", s.GetDefaults)
		r.Post("/validate", s.Validate)
		r.Post("/simulate", s.Simulate)
		r.Post("/simulate/stream", s.SimulateStream)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /v1/info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":       "travelsir",
		"version":   strings.TrimSpace(travelsir.Version),
		"max_weeks": s.maxWeeks,
		"keys":      config.Keys(),
	})
}

// GetDefaults handles GET /v1/defaults.
func (s *Server) GetDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.Default())
}

// Validate handles POST /v1/validate. The body holds parameters to merge
// onto the defaults.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeParams(w, r)
	if !ok {
		return
	}
	if err := runtime.Validate(p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "params": p})
}

// Simulate handles POST /v1/simulate. The response is the JSON report unless
// ?format=csv or ?format=markdown asks otherwise.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", "csv", "markdown":
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("unknown format %q", format)})
		return
	}

	p, ok := s.decodeParams(w, r)
	if !ok {
		return
	}

	res, err := s.engine(domain.LifecycleHooks{}).Run(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		err = report.WriteCSV(w, res)
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown")
		_, err = io.WriteString(w, report.Markdown(res))
	default:
		w.Header().Set("Content-Type", "application/json")
		err = report.WriteJSON(w, res)
	}
	if err != nil {
		s.logger.Error("Simulate encode error", "error", err)
	}
}

// SimulateStream handles POST /v1/simulate/stream as server-sent events:
// one "step" event per snapshot, followed from week 1 on by a "delta" event
// with the change since the previous week (omitted when nothing moved),
// "anomaly" events as they are found and a final "end" (or "error") event.
func (s *Server) SimulateStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	p, ok := s.decodeParams(w, r)
	if !ok {
		return
	}
	if err := runtime.Validate(p); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(event string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			s.logger.Error("SimulateStream encode error", "error", err)
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	var prev *domain.Snapshot
	hooks := domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			send("step", e.Snapshot)
			if prev != nil {
				if d := domain.Diff(prev, e.Snapshot); !d.IsEmpty() {
					send("delta", d)
				}
			}
			s := e.Snapshot
			prev = &s
		},
		OnAnomaly: func(_ context.Context, e *domain.AnomalyEvent) {
			send("anomaly", e.Anomaly)
		},
	}

	res, err := s.engine(hooks).Run(r.Context(), p)
	if err != nil {
		send("error", errorBody{Error: err.Error()})
		return
	}
	send("end", report.Summarize(res))
}

func (s *Server) engine(hooks domain.LifecycleHooks) *runtime.Engine {
	opts := []runtime.EngineOption{
		runtime.WithLogger(s.logger),
		runtime.WithLifecycleHooks(s.metrics.Hooks().Merge(hooks)),
	}
	if s.check {
		opts = append(opts, runtime.WithAnomalyCheck(0))
	}
	return runtime.NewEngine(opts...)
}

// decodeParams reads a JSON object of parameters and merges it onto the
// defaults. On failure it writes the response and reports false.
func (s *Server) decodeParams(w http.ResponseWriter, r *http.Request) (domain.Params, bool) {
	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return domain.Params{}, false
	}

	p, err := config.Decode(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return domain.Params{}, false
	}
	if p.Weeks > s.maxWeeks {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:  "invalid parameters",
			Fields: []fieldError{{Field: "weeks", Reason: fmt.Sprintf("must not exceed %d", s.maxWeeks), Value: p.Weeks}},
		})
		return domain.Params{}, false
	}
	return p, true
}

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Value  any    `json:"value,omitempty"`
}

type errorBody struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		body := errorBody{Error: "invalid parameters"}
		for _, pe := range domain.ParameterErrors(err) {
			body.Fields = append(body.Fields, fieldError{Field: pe.Field, Reason: pe.Reason, Value: jsonSafe(pe.Value)})
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, domain.ErrNumericAnomaly):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

// jsonSafe replaces values encoding/json cannot represent (NaN, ±Inf).
func jsonSafe(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return fmt.Sprint(f)
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode error", "error", err)
	}
}
