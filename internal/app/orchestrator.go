package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/paydash/internal/filter"
	"github.com/raysh454/paydash/internal/history"
	"github.com/raysh454/paydash/internal/interfaces"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
)

type EventType string

const (
	EventHistory        EventType = "history"
	EventValidation     EventType = "validation"
	EventTransformation EventType = "transformation"
)

// Event is pushed to a session's subscribers whenever one of its views or action
// results changes.
type Event struct {
	SessionID string    `json:"session_id"`
	Type      EventType `json:"type"`
	At        time.Time `json:"at"`

	// For history changes
	Category   model.Category `json:"category,omitempty"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Loading    bool           `json:"loading"`
	Error      string         `json:"error,omitempty"`
	Seq        uint64         `json:"seq,omitempty"`

	// For action results
	Success bool `json:"success,omitempty"`
}

// View is one history tab: its filter form and its paged store.
type View struct {
	Category model.Category
	Form     *filter.Form
	Store    *history.Store
}

// Session is the in-memory UI state of one browser.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	views map[model.Category]*View

	mu             sync.Mutex
	lastSeen       time.Time
	validation     *model.ValidationResult
	validationForm ValidationInput
	transformation *model.TransformationResult
	transformInput string

	subsMu  sync.Mutex
	subs    map[uint64]chan Event
	nextSub uint64
}

// View returns the view of category c. Every session has all three.
func (s *Session) View(c model.Category) (*View, bool) {
	v, ok := s.views[c]
	return v, ok
}

// LastSeen returns the time of the last request that used the session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Subscribe registers an event channel. The returned func unsubscribes and closes it.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	s.subsMu.Lock()
	if s.subs == nil {
		s.subs = make(map[uint64]chan Event)
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
			s.subsMu.Unlock()
		})
	}
}

func (s *Session) emit(ev Event) {
	ev.SessionID = s.ID
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		// Non-blocking send; drop if buffer is full.
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Session) closeSubscribers() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// Orchestrator owns the sessions and runs the dashboard actions against the
// payments service.
type Orchestrator struct {
	cfg    *Config
	api    interfaces.PaymentsAPI
	logger logging.Logger
	now    func() time.Time

	sessionsMu sync.Mutex
	sessions   map[string]*Session

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewOrchestrator ties together config, the payments API and logger, and starts
// the idle session reaper. Call Close to stop it.
func NewOrchestrator(cfg *Config, api interfaces.PaymentsAPI, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("app")
	}
	o := &Orchestrator{
		cfg:      cfg,
		api:      api,
		logger:   logger.With(logging.Field{Key: "component", Value: "orchestrator"}),
		now:      time.Now,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}

	if cfg.ReapInterval > 0 {
		o.wg.Add(1)
		go o.reapLoop(cfg.ReapInterval)
	}
	return o
}

// Config returns the orchestrator configuration.
func (o *Orchestrator) Config() *Config {
	return o.cfg
}

// Session returns a live session and marks it as used.
func (o *Orchestrator) Session(id string) (*Session, bool) {
	o.sessionsMu.Lock()
	sess, ok := o.sessions[id]
	o.sessionsMu.Unlock()
	if ok {
		sess.touch(o.now())
	}
	return sess, ok
}

// EnsureSession returns the session for id, creating a fresh one when id is empty
// or unknown. created reports whether a new session was made.
func (o *Orchestrator) EnsureSession(id string) (sess *Session, created bool) {
	if id != "" {
		if s, ok := o.Session(id); ok {
			return s, false
		}
	}
	return o.newSession(), true
}

func (o *Orchestrator) newSession() *Session {
	now := o.now()
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		lastSeen:  now,
		views:     make(map[model.Category]*View, len(model.Categories)),
		validationForm: ValidationInput{
			SourceType: o.cfg.DefaultSourceType,
			TargetType: o.cfg.DefaultTargetType,
		},
	}
	for _, c := range model.Categories {
		store := history.New(c, o.api,
			history.WithPageSize(o.cfg.PageSize),
			history.WithLogger(o.logger),
			history.WithClock(o.now))
		category := c
		store.Subscribe(func(snap history.Snapshot) {
			sess.emit(Event{
				Type:       EventHistory,
				At:         o.now(),
				Category:   category,
				Page:       snap.Page,
				TotalPages: snap.TotalPages,
				Loading:    snap.Loading,
				Error:      snap.Error,
				Seq:        snap.Seq,
			})
		})
		sess.views[c] = &View{Category: c, Form: &filter.Form{}, Store: store}
	}

	o.sessionsMu.Lock()
	o.sessions[sess.ID] = sess
	count := len(o.sessions)
	o.sessionsMu.Unlock()

	o.logger.Info("session created",
		logging.Field{Key: "session_id", Value: sess.ID},
		logging.Field{Key: "sessions", Value: count})
	return sess
}

// SessionCount returns the number of live sessions.
func (o *Orchestrator) SessionCount() int {
	o.sessionsMu.Lock()
	defer o.sessionsMu.Unlock()
	return len(o.sessions)
}

// EndSession drops a session and closes its subscribers.
func (o *Orchestrator) EndSession(id string) {
	o.sessionsMu.Lock()
	sess, ok := o.sessions[id]
	delete(o.sessions, id)
	o.sessionsMu.Unlock()
	if ok {
		sess.closeSubscribers()
	}
}

// ReapIdle removes sessions unused for longer than the configured TTL and returns
// how many were removed.
func (o *Orchestrator) ReapIdle() int {
	cutoff := o.now().Add(-o.cfg.SessionTTL)

	var expired []*Session
	o.sessionsMu.Lock()
	for id, sess := range o.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(o.sessions, id)
		}
	}
	o.sessionsMu.Unlock()

	for _, sess := range expired {
		sess.closeSubscribers()
	}
	if len(expired) > 0 {
		o.logger.Info("reaped idle sessions", logging.Field{Key: "count", Value: len(expired)})
	}
	return len(expired)
}

func (o *Orchestrator) reapLoop(every time.Duration) {
	defer o.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-o.done:
			return
		case <-ticker.C:
			o.ReapIdle()
		}
	}
}

// Close stops the reaper and closes every session's subscribers.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		close(o.done)
		o.wg.Wait()

		o.sessionsMu.Lock()
		sessions := make([]*Session, 0, len(o.sessions))
		for _, s := range o.sessions {
			sessions = append(sessions, s)
		}
		o.sessions = make(map[string]*Session)
		o.sessionsMu.Unlock()

		for _, s := range sessions {
			s.closeSubscribers()
		}
	})
}
