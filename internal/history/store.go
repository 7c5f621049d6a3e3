// Package history keeps one server-paginated page of operation records per category
// and re-fetches it whenever the page index, page size or date range changes.
package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/raysh454/paydash/internal/filter"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
)

// LoadErrorMessage is the operator-facing text shown when a page cannot be fetched.
const LoadErrorMessage = "Erreur lors du chargement de l'historique"

const DefaultPageSize = 10

// PageSizes are the page sizes offered to the operator.
var PageSizes = []int{5, 10, 20, 50}

var (
	// ErrSuperseded is returned by a load whose response arrived after a newer load
	// was issued on the same store. The response is discarded.
	ErrSuperseded = errors.New("history: load superseded by a newer request")

	ErrInvalidSize = errors.New("history: page size not allowed")
)

// Source fetches one page of history. *payments.Client satisfies it.
type Source interface {
	History(ctx context.Context, q model.HistoryQuery) (*model.Page, error)
}

// Listener is called after every visible state change, outside the store lock.
type Listener func(Snapshot)

// Option configures a Store.
type Option func(*Store)

// WithPageSize sets the initial page size.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.size = n
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now for the UpdatedAt stamp.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is the paged history of one category. It is safe for concurrent use.
// Each load takes a sequence number; only the completion of the latest issued load
// is applied.
type Store struct {
	category model.Category
	source   Source
	logger   logging.Logger
	now      func() time.Time

	mu         sync.Mutex
	seq        uint64
	page       int
	size       int
	totalPages int
	rng        filter.Range
	records    []model.OperationRecord
	loading    bool
	errMsg     string
	lastErr    error
	updatedAt  time.Time

	listenersMu sync.RWMutex
	listeners   []Listener
}

// New returns a Store for category c reading from src. Nothing is fetched until the
// first Load or Reload.
func New(c model.Category, src Source, opts ...Option) *Store {
	s := &Store{
		category:   c,
		source:     src,
		logger:     logging.NewStdoutLogger("history"),
		now:        time.Now,
		size:       DefaultPageSize,
		totalPages: 1,
		records:    []model.OperationRecord{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logging.Field{Key: "category", Value: string(c)})
	return s
}

// Category returns the store's fixed category.
func (s *Store) Category() model.Category {
	return s.category
}

// Subscribe registers fn for state change notifications.
func (s *Store) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load fetches (page, size) with the current range. The page index and size the
// store reports afterwards are the server's.
func (s *Store) Load(ctx context.Context, page, size int) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.loading = true
	q := model.HistoryQuery{Category: s.category, Page: page, Size: size}
	if !s.rng.IsZero() {
		q.From, q.To = s.rng.From, s.rng.To
	}
	s.mu.Unlock()
	s.notify()

	p, err := s.source.History(ctx, q)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale history response",
			logging.Field{Key: "seq", Value: seq},
			logging.Field{Key: "page", Value: page})
		return ErrSuperseded
	}
	s.loading = false
	if err == nil && p == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		s.errMsg = LoadErrorMessage
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn("history load failed",
			logging.Field{Key: "page", Value: page},
			logging.Field{Key: "size", Value: size},
			logging.Err(err))
		s.notify()
		return fmt.Errorf("load %s history page %d: %w", s.category, page, err)
	}

	s.records = p.Content
	if s.records == nil {
		s.records = []model.OperationRecord{}
	}
	s.totalPages = p.TotalPages
	s.page = p.Number
	s.errMsg = ""
	s.lastErr = nil
	s.updatedAt = s.now()
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetPage moves to page n. Callers check Snapshot.CanGoTo first; the store does
// not clamp. The page index is set before the load, so if the load fails the
// snapshot reports page n while still holding the previous page's records.
func (s *Store) SetPage(ctx context.Context, n int) error {
	s.mu.Lock()
	s.page = n
	size := s.size
	s.mu.Unlock()
	return s.Load(ctx, n, size)
}

// SetSize changes the page size and reloads the current page. The page index is
// not reset; the server may answer with a different page number, which is adopted.
func (s *Store) SetSize(ctx context.Context, n int) error {
	if !ValidSize(n) {
		return fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	s.mu.Lock()
	s.size = n
	page := s.page
	s.mu.Unlock()
	return s.Load(ctx, page, n)
}

// SetRange replaces the committed range, goes back to page 0 and reloads. A zero
// Range clears the filter.
func (s *Store) SetRange(ctx context.Context, r filter.Range) error {
	s.mu.Lock()
	s.rng = r
	s.page = 0
	size := s.size
	s.mu.Unlock()
	return s.Load(ctx, 0, size)
}

// Reload re-issues the current page with the current size and range.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	page, size := s.page, s.size
	s.mu.Unlock()
	return s.Load(ctx, page, size)
}

// Snapshot returns a copy of the visible state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]model.OperationRecord, len(s.records))
	copy(records, s.records)
	return Snapshot{
		Category:   s.category,
		Records:    records,
		Page:       s.page,
		Size:       s.size,
		TotalPages: s.totalPages,
		Range:      s.rng,
		Loading:    s.loading,
		Error:      s.errMsg,
		UpdatedAt:  s.updatedAt,
		Seq:        s.seq,
	}
}

// LastError returns the underlying cause of the current error message, if any.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Find returns the record with the given id from the current page.
func (s *Store) Find(id string) (model.OperationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.OperationRecord{}, false
}

func (s *Store) notify() {
	snap := s.Snapshot()
	s.listenersMu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// ValidSize reports whether n is one of PageSizes.
func ValidSize(n int) bool {
	for _, v := range PageSizes {
		if v == n {
			return true
		}
	}
	return false
}
