package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raysh454/paydash/internal/filter"
	"github.com/raysh454/paydash/internal/history"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
)

var (
	ErrUnknownView     = errors.New("unknown history view")
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrOperationAbsent = errors.New("operation not found")
)

func (o *Orchestrator) view(sess *Session, c model.Category) (*View, error) {
	v, ok := sess.View(c)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, c)
	}
	return v, nil
}

// History returns the current state of a view, loading it first if it has never
// been fetched. Load failures here and in the other view operations are store
// state, logged by the store itself, and never fail the call.
func (o *Orchestrator) History(ctx context.Context, sess *Session, c model.Category) (history.Snapshot, error) {
	v, err := o.view(sess, c)
	if err != nil {
		return history.Snapshot{}, err
	}
	if v.Store.Snapshot().Seq == 0 {
		_ = v.Store.Reload(ctx)
	}
	return v.Store.Snapshot(), nil
}

// FilterInputs returns the raw filter form content of a view.
func (o *Orchestrator) FilterInputs(sess *Session, c model.Category) (filter.Inputs, error) {
	v, err := o.view(sess, c)
	if err != nil {
		return filter.Inputs{}, err
	}
	return v.Form.Inputs(), nil
}

// ApplyFilter stores the form inputs and commits them. Incomplete inputs are a
// no-op: the range and page stay as they are and nothing is fetched. A committed
// range resets the view to page 0. loc is the zone the inputs were typed in.
func (o *Orchestrator) ApplyFilter(ctx context.Context, sess *Session, c model.Category, in filter.Inputs, loc *time.Location) (bool, error) {
	v, err := o.view(sess, c)
	if err != nil {
		return false, err
	}
	if loc == nil {
		loc = o.cfg.Location()
	}

	v.Form.Set(in)
	committed, err := v.Form.Commit(loc)
	if err != nil {
		return false, err
	}
	if !committed {
		return false, nil
	}

	r := v.Form.Range()
	o.logger.Debug("filter committed",
		logging.Field{Key: "category", Value: string(c)},
		logging.Field{Key: "from", Value: r.From},
		logging.Field{Key: "to", Value: r.To})
	_ = v.Store.SetRange(ctx, r)
	return true, nil
}

// ResetFilter clears the form and the committed range and goes back to page 0.
func (o *Orchestrator) ResetFilter(ctx context.Context, sess *Session, c model.Category) error {
	v, err := o.view(sess, c)
	if err != nil {
		return err
	}
	v.Form.Reset()
	_ = v.Store.SetRange(ctx, filter.Range{})
	return nil
}

// GoToPage moves a view to page n. Pages outside [0, totalPages) are rejected.
func (o *Orchestrator) GoToPage(ctx context.Context, sess *Session, c model.Category, n int) error {
	v, err := o.view(sess, c)
	if err != nil {
		return err
	}
	if snap := v.Store.Snapshot(); !snap.CanGoTo(n) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrPageOutOfRange, n, snap.TotalPages)
	}
	_ = v.Store.SetPage(ctx, n)
	return nil
}

// SetPageSize changes a view's page size.
func (o *Orchestrator) SetPageSize(ctx context.Context, sess *Session, c model.Category, n int) error {
	v, err := o.view(sess, c)
	if err != nil {
		return err
	}
	if err := v.Store.SetSize(ctx, n); errors.Is(err, history.ErrInvalidSize) {
		return err
	}
	return nil
}

// Reload re-fetches a view with its current page, size and range.
func (o *Orchestrator) Reload(ctx context.Context, sess *Session, c model.Category) error {
	v, err := o.view(sess, c)
	if err != nil {
		return err
	}
	_ = v.Store.Reload(ctx)
	return nil
}

// Operation looks an operation up in the pages currently held by the session,
// global view first.
func (o *Orchestrator) Operation(sess *Session, id string) (model.OperationRecord, error) {
	for _, c := range model.Categories {
		v, ok := sess.View(c)
		if !ok {
			continue
		}
		if rec, found := v.Store.Find(id); found {
			return rec, nil
		}
	}
	return model.OperationRecord{}, fmt.Errorf("%w: %s", ErrOperationAbsent, id)
}

// Metrics computes the dashboard cards from the global view's current page.
func (o *Orchestrator) Metrics(ctx context.Context, sess *Session) (model.DashboardMetrics, error) {
	snap, err := o.History(ctx, sess, model.CategoryGlobal)
	if err != nil {
		return model.DashboardMetrics{}, err
	}
	return model.ComputeMetrics(snap.Records), nil
}

// CurrencyBreakdown fetches the currency statistics and orders them for display.
func (o *Orchestrator) CurrencyBreakdown(ctx context.Context) (model.Breakdown, error) {
	counts, err := o.api.CurrencyStats(ctx)
	if err != nil {
		o.logger.Warn("currency stats failed", logging.Err(err))
		return model.Breakdown{}, fmt.Errorf("currency breakdown: %w", err)
	}
	return model.NewBreakdown(counts), nil
}
