package simd

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/archsim-core/internal/scenario"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/logger"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// maxRequestBytes bounds request bodies; architecture documents are small.
const maxRequestBytes = 4 << 20

// HTTPOptions configures the REST surface.
type HTTPOptions struct {
	// RateLimitRPS of 0 disables request limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
}

type HTTPServer struct {
	router   chi.Router
	store    *RunStore
	Executor *RunExecutor
	limiter  *rate.Limiter
}

func NewHTTPServer(executor *RunExecutor, opts HTTPOptions) *HTTPServer {
	s := &HTTPServer{
		router:   chi.NewRouter(),
		store:    executor.Store(),
		Executor: executor,
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst)
	}

	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Route("/v1/simulations", func(r chi.Router) {
			r.Post("/", s.handleSimulate)
			r.Post("/inject", s.handleInject)
			r.Post("/compare", s.handleCompare)
			r.Post("/optimize", s.handleOptimize)
		})

		r.Route("/v1/runs", func(r chi.Router) {
			r.Post("/", s.handleCreateRun)
			r.Get("/", s.handleListRuns)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRun)
				r.Get("/result", s.handleGetResult)
				r.Post("/stop", s.handleStopRun)
			})
		})
	})

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *HTTPServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.Executor.Simulate(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleInject(w http.ResponseWriter, r *http.Request) {
	var req InjectRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.Executor.Inject(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.Executor.CompareScenarios(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.Executor.Optimize(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if !s.decode(w, r, &req) {
		return
	}
	rec, err := s.Executor.CreateRun(req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newRunResponse(rec, false))
}

func (s *HTTPServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	status := models.RunStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.RunStatusPending, models.RunStatusRunning, models.RunStatusCompleted,
		models.RunStatusFailed, models.RunStatusCancelled:
	default:
		s.writeError(w, http.StatusBadRequest, "unknown status filter: "+string(status))
		return
	}

	records := s.store.List(limit, status)
	runs := make([]RunResponse, 0, len(records))
	for _, rec := range records {
		runs = append(runs, newRunResponse(rec, false))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

func (s *HTTPServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newRunResponse(rec, false))
}

func (s *HTTPServer) handleGetResult(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if rec.Run.Status != models.RunStatusCompleted || rec.Outcome == nil {
		s.writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "result not available",
			"status": rec.Run.Status,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, newRunResponse(rec, true))
}

func (s *HTTPServer) handleStopRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Executor.Stop(chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newRunResponse(rec, false))
}

func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRunNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrRunTerminal), errors.Is(err, ErrRunExists):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrRunIDMissing), errors.Is(err, scenario.ErrNoProfiles):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}
