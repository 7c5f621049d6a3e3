package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/paydash/internal/app"
	"github.com/raysh454/paydash/internal/filter"
	"github.com/raysh454/paydash/internal/history"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
	"github.com/raysh454/paydash/internal/ui"
)

const (
	msgInvalidDate = "Date ou heure invalide"
	msgInvalidSize = "Taille de page invalide"
	msgCurrencyErr = "Statistiques par devise indisponibles"
)

func (s *Server) uiCategory(w http.ResponseWriter, r *http.Request) (model.Category, bool) {
	c, err := model.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		ui.Render(w, http.StatusNotFound, ui.ErrorPage("Introuvable", "Historique inconnu"))
		return "", false
	}
	return c, true
}

// seeOther ends a form post with a redirect back to the page it came from.
func seeOther(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Server) renderHistory(w http.ResponseWriter, r *http.Request, c model.Category, status int, notice string) {
	sess := sessionFrom(r)
	snap, err := s.orchestrator.History(r.Context(), sess, c)
	if err != nil {
		ui.Render(w, http.StatusNotFound, ui.ErrorPage("Introuvable", err.Error()))
		return
	}
	in, _ := s.orchestrator.FilterInputs(sess, c)
	ui.Render(w, status, ui.HistoryPage(ui.HistoryData{
		Snapshot: snap,
		Inputs:   in,
		Location: s.location(r),
		Notice:   notice,
	}))
}

// ─── Dashboard ────────────────────────────────────────────────────────

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	ctx := r.Context()

	recent, err := s.orchestrator.History(ctx, sess, model.CategoryGlobal)
	if err != nil {
		ui.Render(w, http.StatusInternalServerError, ui.ErrorPage("Erreur", err.Error()))
		return
	}
	data := ui.DashboardData{
		Metrics:  model.ComputeMetrics(recent.Records),
		Recent:   recent,
		Location: s.location(r),
	}
	if b, err := s.orchestrator.CurrencyBreakdown(ctx); err != nil {
		data.CurrencyErr = msgCurrencyErr
	} else {
		data.Currencies = b
	}
	ui.Render(w, http.StatusOK, ui.DashboardPage(data))
}

// ─── Validation & transformation ──────────────────────────────────────

func (s *Server) handleValidationPage(w http.ResponseWriter, r *http.Request) {
	res, form := s.orchestrator.LastValidation(sessionFrom(r))
	ui.Render(w, http.StatusOK, ui.ValidationPage(ui.ValidationForm{
		SourceType: form.SourceType,
		TargetType: form.TargetType,
		XML:        form.XML,
	}, res))
}

func (s *Server) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ui.Render(w, http.StatusBadRequest, ui.ErrorPage("Requête invalide", err.Error()))
		return
	}
	res := s.orchestrator.Validate(r.Context(), sessionFrom(r), app.ValidationInput{
		SourceType: r.PostFormValue("sourceType"),
		TargetType: r.PostFormValue("targetType"),
		XML:        r.PostFormValue("xml"),
	})
	s.logger.Info("validated document", logging.Field{Key: "success", Value: res.Success})
	seeOther(w, r, "/ui/validation")
}

func (s *Server) handleTransformationPage(w http.ResponseWriter, r *http.Request) {
	res, input := s.orchestrator.LastTransformation(sessionFrom(r))
	ui.Render(w, http.StatusOK, ui.TransformationPage(input, res))
}

func (s *Server) handleTransformForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ui.Render(w, http.StatusBadRequest, ui.ErrorPage("Requête invalide", err.Error()))
		return
	}
	res := s.orchestrator.Transform(r.Context(), sessionFrom(r), r.PostFormValue("painXml"))
	s.logger.Info("transformed document", logging.Field{Key: "success", Value: res.Succeeded()})
	seeOther(w, r, "/ui/transformation")
}

// ─── History ──────────────────────────────────────────────────────────

func (s *Server) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	c, ok := s.uiCategory(w, r)
	if !ok {
		return
	}
	s.renderHistory(w, r, c, http.StatusOK, "")
}

func (s *Server) handleFilterForm(w http.ResponseWriter, r *http.Request) {
	c, ok := s.uiCategory(w, r)
	if !ok {
		return
	}
	in := filter.Inputs{
		Date:     r.PostFormValue("date"),
		FromTime: r.PostFormValue("fromTime"),
		ToTime:   r.PostFormValue("toTime"),
	}
	_, err := s.orchestrator.ApplyFilter(r.Context(), sessionFrom(r), c, in, s.location(r))
	if errors.Is(err, filter.ErrInvalidDate) {
		s.renderHistory(w, r, c, http.StatusBadRequest, msgInvalidDate)
		return
	}
	if err != nil {
		ui.Render(w, http.StatusNotFound, ui.ErrorPage("Introuvable", err.Error()))
		return
	}
	seeOther(w, r, ui.HistoryPath(c))
}

func (s *Server) handleResetForm(w http.ResponseWriter, r *http.Request) {
	c, ok := s.uiCategory(w, r)
	if !ok {
		return
	}
	if err := s.orchestrator.ResetFilter(r.Context(), sessionFrom(r), c); err != nil {
		ui.Render(w, http.StatusNotFound, ui.ErrorPage("Introuvable", err.Error()))
		return
	}
	seeOther(w, r, ui.HistoryPath(c))
}

func (s *Server) handlePageForm(w http.ResponseWriter, r *http.Request) {
	c, ok := s.uiCategory(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(r.PostFormValue("page"))
	if err == nil {
		err = s.orchestrator.GoToPage(r.Context(), sessionFrom(r), c, n)
	}
	if err != nil {
		// Disabled buttons make this a stale form; the page stays put.
		s.logger.Debug("page change ignored", logging.Field{Key: "category", Value: string(c)}, logging.Err(err))
	}
	seeOther(w, r, ui.HistoryPath(c))
}

func (s *Server) handleSizeForm(w http.ResponseWriter, r *http.Request) {
	c, ok := s.uiCategory(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(r.PostFormValue("size"))
	if err != nil {
		s.renderHistory(w, r, c, http.StatusBadRequest, msgInvalidSize)
		return
	}
	err = s.orchestrator.SetPageSize(r.Context(), sessionFrom(r), c, n)
	switch {
	case errors.Is(err, history.ErrInvalidSize):
		s.renderHistory(w, r, c, http.StatusBadRequest, msgInvalidSize)
	case err != nil:
		ui.Render(w, http.StatusNotFound, ui.ErrorPage("Introuvable", err.Error()))
	default:
		seeOther(w, r, ui.HistoryPath(c))
	}
}

// ─── Operations ───────────────────────────────────────────────────────

func (s *Server) handleOperationPage(w http.ResponseWriter, r *http.Request) {
	rec, err := s.orchestrator.Operation(sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		ui.Render(w, http.StatusNotFound, ui.ErrorPage("Opération introuvable", err.Error()))
		return
	}
	ui.Render(w, http.StatusOK, ui.OperationPage(rec, s.location(r)))
}

func (s *Server) handleOperationReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.orchestrator.Operation(sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		ui.Render(w, http.StatusNotFound, ui.ErrorPage("Opération introuvable", err.Error()))
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+ui.ReportFilename(rec.ID)+`"`)
	ui.Render(w, http.StatusOK, ui.ReportPage(rec, s.location(r), s.now()))
	s.logger.Info("exported operation report", logging.Field{Key: "operation_id", Value: rec.ID})
}
