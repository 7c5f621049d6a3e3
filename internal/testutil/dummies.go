// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/raysh454/paydash/internal/interfaces"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
	"github.com/raysh454/paydash/internal/payments"
	"github.com/raysh454/paydash/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ErrorCount returns the number of recorded error lines.
func (l *DummyLogger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Errors)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient.
// Responses maps a URL to a canned response; unknown URLs answer 404.
// Set FailURLs[url] = true to force a transport error for a specific URL.
type DummyWebClient struct {
	ResponseDelay time.Duration
	Responses     map[string]*webclient.Response
	FailURLs      map[string]bool
	mu            sync.Mutex
	Requests      []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, &errString{"dummy fetch fail for " + req.URL}
	}
	if r, ok := d.Responses[req.URL]; ok {
		cp := *r
		cp.Request = req
		cp.FetchedAt = time.Now()
		return &cp, nil
	}
	return &webclient.Response{
		Request:    req,
		Body:       []byte("not found: " + req.URL),
		StatusCode: 404,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: "GET", URL: url})
}

func (d *DummyWebClient) Close() error { return nil }

// LastRequest returns the most recent request, or nil.
func (d *DummyWebClient) LastRequest() *webclient.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Requests) == 0 {
		return nil
	}
	return d.Requests[len(d.Requests)-1]
}

// ─── Payments ──────────────────────────────────────────────────────────

// DummyPayments implements interfaces.PaymentsAPI.
// Pages holds the records served per category; History slices them by page and
// size like the real service. The hook fields override the defaults.
type DummyPayments struct {
	mu sync.Mutex

	Pages map[model.Category][]model.OperationRecord

	InitiateFunc func(sourceType, targetType, xml string) (*payments.InitiateResponse, error)
	ToMT101Func  func(painXML string) (*payments.TransformOutcome, error)
	HistoryFunc  func(ctx context.Context, q model.HistoryQuery) (*model.Page, error)
	Currencies   map[string]int
	CurrencyErr  error

	Queries   []model.HistoryQuery
	Initiates []string
	Transform []string
}

var _ interfaces.PaymentsAPI = (*DummyPayments)(nil)

func (d *DummyPayments) Initiate(_ context.Context, sourceType, targetType, xml string) (*payments.InitiateResponse, error) {
	d.mu.Lock()
	d.Initiates = append(d.Initiates, xml)
	fn := d.InitiateFunc
	d.mu.Unlock()
	if fn != nil {
		return fn(sourceType, targetType, xml)
	}
	return &payments.InitiateResponse{StatusCode: 200, Body: "Document valide"}, nil
}

func (d *DummyPayments) ToMT101(_ context.Context, painXML string) (*payments.TransformOutcome, error) {
	d.mu.Lock()
	d.Transform = append(d.Transform, painXML)
	fn := d.ToMT101Func
	d.mu.Unlock()
	if fn != nil {
		return fn(painXML)
	}
	return &payments.TransformOutcome{
		StatusCode: 200,
		Response:   model.TransformResponse{Status: "success", MT101: ":20:DUMMY"},
	}, nil
}

func (d *DummyPayments) History(ctx context.Context, q model.HistoryQuery) (*model.Page, error) {
	d.mu.Lock()
	d.Queries = append(d.Queries, q)
	fn := d.HistoryFunc
	all := d.Pages[q.Category]
	d.mu.Unlock()
	if fn != nil {
		return fn(ctx, q)
	}

	size := q.Size
	if size <= 0 {
		size = 10
	}
	total := (len(all) + size - 1) / size
	if total < 1 {
		total = 1
	}
	start := q.Page * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	content := append([]model.OperationRecord{}, all[start:end]...)
	return &model.Page{Content: content, TotalPages: total, Number: q.Page}, nil
}

func (d *DummyPayments) CurrencyStats(context.Context) (map[string]int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.CurrencyErr != nil {
		return nil, d.CurrencyErr
	}
	out := make(map[string]int, len(d.Currencies))
	for k, v := range d.Currencies {
		out[k] = v
	}
	return out, nil
}

// QueryCount returns the number of History calls recorded.
func (d *DummyPayments) QueryCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Queries)
}

// SetPages replaces the records served for a category.
func (d *DummyPayments) SetPages(c model.Category, records []model.OperationRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Pages == nil {
		d.Pages = map[model.Category][]model.OperationRecord{}
	}
	d.Pages[c] = records
}

// ─── Helpers ───────────────────────────────────────────────────────────

type errString struct{ s string }

func (e *errString) Error() string { return e.s }
