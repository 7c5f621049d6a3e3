package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/paydash/internal/app"
	"github.com/raysh454/paydash/internal/errnorm"
	"github.com/raysh454/paydash/internal/filter"
	"github.com/raysh454/paydash/internal/history"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
)

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 10<<20))
	return dec.Decode(v)
}

func (s *Server) apiCategory(w http.ResponseWriter, r *http.Request) (model.Category, bool) {
	c, err := model.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return c, true
}

func (s *Server) writeHistory(w http.ResponseWriter, r *http.Request, c model.Category, applied *bool) {
	sess := sessionFrom(r)
	snap, err := s.orchestrator.History(r.Context(), sess, c)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	in, _ := s.orchestrator.FilterInputs(sess, c)
	writeJSON(w, http.StatusOK, HistoryResponse{Snapshot: snap, Filter: in, Applied: applied})
}

// ─── Actions ──────────────────────────────────────────────────────────

// handleValidate submits a document for validation.
// @Summary Validate a payment document
// @Description Sends the XML to the payments service and reloads the validation and global histories.
// @Tags actions
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Document to validate"
// @Success 200 {object} model.ValidationResult
// @Failure 400 {object} ErrorResponse
// @Router /api/validate [post]
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.logger.Warn("decoding validate body", logging.Err(err))
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res := s.orchestrator.Validate(r.Context(), sessionFrom(r), app.ValidationInput{
		SourceType: body.SourceType,
		TargetType: body.TargetType,
		XML:        body.XML,
	})
	s.logger.Info("validated document",
		logging.Field{Key: "success", Value: res.Success},
		logging.Field{Key: "status", Value: res.Status})
	writeJSON(w, http.StatusOK, res)
}

// handleTransform submits a pain.001 document for MT101 transformation.
// @Summary Transform pain.001 to MT101
// @Tags actions
// @Accept json
// @Produce json
// @Param request body TransformRequest true "pain.001 document"
// @Success 200 {object} model.TransformationResult
// @Failure 400 {object} ErrorResponse
// @Router /api/transform [post]
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var body TransformRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.logger.Warn("decoding transform body", logging.Err(err))
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res := s.orchestrator.Transform(r.Context(), sessionFrom(r), body.PainXML)
	s.logger.Info("transformed document", logging.Field{Key: "success", Value: res.Succeeded()})
	writeJSON(w, http.StatusOK, res)
}

// ─── History ──────────────────────────────────────────────────────────

// handleGetHistory returns a history view, loading it on first access.
// @Summary Get a history view
// @Tags history
// @Produce json
// @Param category path string true "global, validation or transformation"
// @Success 200 {object} HistoryResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/history/{category} [get]
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	c, ok := s.apiCategory(w, r)
	if !ok {
		return
	}
	s.writeHistory(w, r, c, nil)
}

// handleApplyFilter commits a date filter and goes back to page 0.
// @Summary Apply a date filter
// @Description Incomplete inputs are stored but not applied.
// @Tags history
// @Accept json
// @Produce json
// @Param category path string true "global, validation or transformation"
// @Param request body FilterRequest true "Filter inputs"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/history/{category}/filter [post]
func (s *Server) handleApplyFilter(w http.ResponseWriter, r *http.Request) {
	c, ok := s.apiCategory(w, r)
	if !ok {
		return
	}
	var body FilterRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	loc := s.location(r)
	if body.TZ != "" {
		tz, err := time.LoadLocation(body.TZ)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown time zone "+body.TZ)
			return
		}
		loc = tz
	}

	in := filter.Inputs{Date: body.Date, FromTime: body.FromTime, ToTime: body.ToTime}
	applied, err := s.orchestrator.ApplyFilter(r.Context(), sessionFrom(r), c, in, loc)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, filter.ErrInvalidDate) {
			status = http.StatusBadRequest
		}
		s.logger.Warn("applying filter", logging.Field{Key: "category", Value: string(c)}, logging.Err(err))
		writeError(w, status, err.Error())
		return
	}
	s.writeHistory(w, r, c, &applied)
}

// handleResetFilter clears the filter of a view.
// @Summary Reset the date filter
// @Tags history
// @Produce json
// @Param category path string true "global, validation or transformation"
// @Success 200 {object} HistoryResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/history/{category}/filter [delete]
func (s *Server) handleResetFilter(w http.ResponseWriter, r *http.Request) {
	c, ok := s.apiCategory(w, r)
	if !ok {
		return
	}
	if err := s.orchestrator.ResetFilter(r.Context(), sessionFrom(r), c); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeHistory(w, r, c, nil)
}

// handleSetPage moves a view to another page.
// @Summary Go to a page
// @Tags history
// @Accept json
// @Produce json
// @Param category path string true "global, validation or transformation"
// @Param request body PageRequest true "Zero-based page"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/history/{category}/page [post]
func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	c, ok := s.apiCategory(w, r)
	if !ok {
		return
	}
	var body PageRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	// Bounds come from the loaded page count.
	if _, err := s.orchestrator.History(r.Context(), sessionFrom(r), c); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := s.orchestrator.GoToPage(r.Context(), sessionFrom(r), c, body.Page); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, app.ErrPageOutOfRange) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	s.writeHistory(w, r, c, nil)
}

// handleSetSize changes the page size of a view.
// @Summary Change the page size
// @Tags history
// @Accept json
// @Produce json
// @Param category path string true "global, validation or transformation"
// @Param request body SizeRequest true "One of 5, 10, 20, 50"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/history/{category}/size [post]
func (s *Server) handleSetSize(w http.ResponseWriter, r *http.Request) {
	c, ok := s.apiCategory(w, r)
	if !ok {
		return
	}
	var body SizeRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.orchestrator.SetPageSize(r.Context(), sessionFrom(r), c, body.Size); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, history.ErrInvalidSize) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	s.writeHistory(w, r, c, nil)
}

// handleReload re-fetches a view.
// @Summary Reload a history view
// @Tags history
// @Produce json
// @Param category path string true "global, validation or transformation"
// @Success 200 {object} HistoryResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/history/{category}/reload [post]
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	c, ok := s.apiCategory(w, r)
	if !ok {
		return
	}
	if err := s.orchestrator.Reload(r.Context(), sessionFrom(r), c); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeHistory(w, r, c, nil)
}

// ─── Operations & stats ───────────────────────────────────────────────

// handleGetOperation returns one operation from the caller's loaded pages.
// @Summary Get an operation
// @Tags operations
// @Produce json
// @Param id path string true "Operation id"
// @Success 200 {object} OperationResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/operations/{id} [get]
func (s *Server) handleGetOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.orchestrator.Operation(sessionFrom(r), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, OperationResponse{
		OperationRecord:  rec,
		NormalizedErrors: errnorm.NormalizeLoose(rec.Errors),
	})
}

// handleMetrics computes the dashboard metrics from the global view.
// @Summary Dashboard metrics
// @Tags stats
// @Produce json
// @Success 200 {object} model.DashboardMetrics
// @Router /api/metrics [get]
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.orchestrator.Metrics(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleCurrencies returns the currency breakdown.
// @Summary Currency breakdown
// @Tags stats
// @Produce json
// @Success 200 {object} model.Breakdown
// @Failure 502 {object} ErrorResponse
// @Router /api/stats/currencies [get]
func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	b, err := s.orchestrator.CurrencyBreakdown(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}
