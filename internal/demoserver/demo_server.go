// Package demoserver is a stand-in for the remote payments service. It validates
// and transforms pain.001 documents, logs every attempt to SQLite and serves the
// history and statistics endpoints the dashboard consumes.
package demoserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
)

const maxPageSize = 200

// DemoServer serves the payments API over a Store.
type DemoServer struct {
	cfg    Config
	store  *Store
	router chi.Router
	logger logging.Logger
	now    func() time.Time
}

// NewDemoServer opens the store, seeds it when empty and wires the routes.
func NewDemoServer(cfg Config) (*DemoServer, error) {
	def := DefaultConfig()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("demoserver")
	}

	store, err := OpenStore(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}

	s := &DemoServer{
		cfg:    cfg,
		store:  store,
		router: chi.NewRouter(),
		logger: logger,
		now:    time.Now,
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 2024))
	if err := store.Seed(context.Background(), cfg.Seed, s.now(), rng); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	s.routes()
	return s, nil
}

func (s *DemoServer) routes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/payments", func(r chi.Router) {
		r.Post("/initiate", s.handleInitiate)
		r.Post("/to-mt101", s.handleToMT101)
		r.Get("/history/{category}", s.handleHistory)
		r.Get("/stats/currencies", s.handleCurrencies)
	})
}

func (s *DemoServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http_request",
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: "status", Value: ww.Status()},
			logging.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()})
	})
}

// Handler exposes the router (tests mount it on httptest).
func (s *DemoServer) Handler() http.Handler {
	return s.router
}

// Store returns the operation log.
func (s *DemoServer) Store() *Store {
	return s.store
}

// HTTPServer returns an http.Server bound to the configured address.
func (s *DemoServer) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Close releases the store.
func (s *DemoServer) Close() error {
	return s.store.Close()
}

func (s *DemoServer) record(ctx context.Context, e Entry, start time.Time) {
	e.ID = uuid.NewString()
	e.Timestamp = model.Timestamp{Time: start.UTC()}
	d := s.now().Sub(start).Milliseconds()
	e.Duration = &d
	if err := s.store.Insert(ctx, e); err != nil {
		s.logger.Error("recording operation", logging.Err(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// checkDocument parses and validates raw, returning the parsed payment when it is
// well formed.
func checkDocument(raw, sourceType string) (*Payment, []Issue) {
	p, issues := ParsePain(raw)
	if p == nil {
		return nil, issues
	}
	return p, p.Validate(sourceType)
}

// ─── Actions ──────────────────────────────────────────────────────────

func (s *DemoServer) handleInitiate(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulaire invalide", http.StatusBadRequest)
		return
	}
	sourceType := r.PostFormValue("sourceType")
	targetType := r.PostFormValue("targetType")
	raw := r.PostFormValue("xml")

	p, issues := checkDocument(raw, sourceType)
	e := Entry{OperationRecord: model.OperationRecord{
		OperationType: model.OperationValidation,
		SourceType:    sourceType,
		TargetType:    targetType,
		InputXML:      raw,
	}}
	if p != nil {
		e.Currency = p.Currency()
		e.BIC = p.BIC()
	}

	if HasErrors(issues) {
		body, _ := json.Marshal(issues)
		e.Status = model.StatusError
		e.Errors, _ = json.Marshal(string(body))
		s.record(r.Context(), e, start)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write(body)
		return
	}

	e.Status = model.StatusSuccess
	s.record(r.Context(), e, start)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Document valide"))
}

type toMT101Request struct {
	PainXML string `json:"painXml"`
}

func (s *DemoServer) handleToMT101(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	var body toMT101Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 10<<20)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, model.TransformResponse{Status: "error", Errors: "Requête JSON invalide"})
		return
	}

	p, issues := checkDocument(body.PainXML, "")
	e := Entry{OperationRecord: model.OperationRecord{
		OperationType: model.OperationTransformation,
		SourceType:    "pain.001",
		TargetType:    "MT101",
		InputXML:      body.PainXML,
	}}
	if p != nil {
		e.Currency = p.Currency()
		e.BIC = p.BIC()
	}

	if HasErrors(issues) {
		raw, _ := json.Marshal(issues)
		e.Status = model.StatusError
		e.Errors = raw
		s.record(r.Context(), e, start)
		writeJSON(w, http.StatusBadRequest, model.TransformResponse{
			Status:  "error",
			Message: "Transformation échouée",
			Errors:  string(raw),
		})
		return
	}

	out := p.MT101(start)
	e.Status = model.StatusSuccess
	e.OutputContent = out
	s.record(r.Context(), e, start)
	writeJSON(w, http.StatusOK, model.TransformResponse{
		Status:  "success",
		Message: "Transformation réussie",
		MT101:   out,
	})
}

// ─── History & stats ──────────────────────────────────────────────────

var errBadQuery = errors.New("bad query")

func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s=%q", errBadQuery, name, v)
	}
	return n, nil
}

func timeParam(r *http.Request, name string) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q", errBadQuery, name, v)
	}
	return t, nil
}

func (s *DemoServer) parseListQuery(r *http.Request) (ListQuery, error) {
	c, err := model.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		return ListQuery{}, err
	}
	q := ListQuery{Category: c}
	if q.Page, err = intParam(r, "page", 0, 0, 1<<20); err != nil {
		return q, err
	}
	if q.Size, err = intParam(r, "size", 10, 1, maxPageSize); err != nil {
		return q, err
	}
	if q.From, err = timeParam(r, "from"); err != nil {
		return q, err
	}
	if q.To, err = timeParam(r, "to"); err != nil {
		return q, err
	}
	return q, nil
}

func (s *DemoServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseListQuery(r)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, errBadQuery) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	page, err := s.store.List(r.Context(), q)
	if err != nil {
		s.logger.Error("listing operations", logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *DemoServer) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CurrencyCounts(r.Context())
	if err != nil {
		s.logger.Error("counting currencies", logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
