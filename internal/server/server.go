package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/raysh454/paydash/internal/app"
	"github.com/raysh454/paydash/internal/logging"
)

// Server is the HTML, JSON and WebSocket surface of the dashboard.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
	now          func() time.Time
}

// NewServer wires the routes over an existing orchestrator.
func NewServer(cfg Config, orch *app.Orchestrator) *Server {
	def := DefaultConfig()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = def.AllowedOrigins
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       chi.NewRouter(),
		logger:       logger,
		now:          time.Now,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	s.routes()
	return s
}

// Orchestrator returns the underlying orchestrator (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(requestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/swagger/*", swaggerHandler())

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		// HTML
		r.Get("/", s.handleDashboard)
		r.Route("/ui", func(r chi.Router) {
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/validation", s.handleValidationPage)
			r.Post("/validate", s.handleValidateForm)
			r.Get("/transformation", s.handleTransformationPage)
			r.Post("/transform", s.handleTransformForm)

			r.Get("/history/{category}", s.handleHistoryPage)
			r.Post("/history/{category}/filter", s.handleFilterForm)
			r.Post("/history/{category}/reset", s.handleResetForm)
			r.Post("/history/{category}/page", s.handlePageForm)
			r.Post("/history/{category}/size", s.handleSizeForm)

			r.Get("/operations/{id}", s.handleOperationPage)
			r.Get("/operations/{id}/report", s.handleOperationReport)
		})

		// JSON
		r.Route("/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.cfg.AllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
				ExposedHeaders:   []string{"X-Request-ID"},
				AllowCredentials: !slices.Contains(s.cfg.AllowedOrigins, "*"),
				MaxAge:           86400,
			}))

			r.Post("/validate", s.handleValidate)
			r.Post("/transform", s.handleTransform)

			r.Get("/history/{category}", s.handleGetHistory)
			r.Post("/history/{category}/filter", s.handleApplyFilter)
			r.Delete("/history/{category}/filter", s.handleResetFilter)
			r.Post("/history/{category}/page", s.handleSetPage)
			r.Post("/history/{category}/size", s.handleSetSize)
			r.Post("/history/{category}/reload", s.handleReload)

			r.Get("/operations/{id}", s.handleGetOperation)
			r.Get("/metrics", s.handleMetrics)
			r.Get("/stats/currencies", s.handleCurrencies)
		})

		// WebSocket for history changes
		r.Get("/ws/events", s.handleEventsWS)
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.cfg.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, origin)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
		r.Header.Set("X-Request-ID", id)
	}

	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
		{Key: "request_id", Value: id},
	}
	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}
	if r.ContentLength > 0 {
		fields = append(fields, logging.Field{Key: "body_bytes", Value: r.ContentLength})
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the orchestrator.
func (s *Server) Close() {
	if s.orchestrator != nil {
		s.orchestrator.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: 0, // allow streaming
	}
}

// ─── JSON helpers ─────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// ─── Health ───────────────────────────────────────────────────────────

// handleHealth reports liveness.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Sessions: s.orchestrator.SessionCount(),
		Time:     s.now().UTC(),
	})
}
