package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/websocket"

	"github.com/raysh454/paydash/internal/app"
	"github.com/raysh454/paydash/internal/model"
	"github.com/raysh454/paydash/internal/payments"
	"github.com/raysh454/paydash/internal/server"
	"github.com/raysh454/paydash/internal/testutil"
)

func newTestServer(t *testing.T) (*server.Server, *testutil.DummyPayments) {
	t.Helper()

	appCfg := app.DefaultConfig()
	appCfg.ReapInterval = 0
	appCfg.Timezone = "UTC"
	api := &testutil.DummyPayments{}
	logger := &testutil.DummyLogger{}
	orch := app.NewOrchestrator(appCfg, api, logger)

	s := server.NewServer(server.Config{ListenAddr: ":0", Logger: logger}, orch)
	t.Cleanup(s.Close)
	return s, api
}

// client replays the session cookie like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) json(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(method, path, "application/json", body)
}

func (c *client) form(path string, values url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodPost, path, "application/x-www-form-urlencoded", values.Encode())
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON response: %v (body: %s)", err, rec.Body.String())
	}
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse HTML: %v", err)
	}
	return doc
}

func records(n int, typ model.OperationType) []model.OperationRecord {
	out := make([]model.OperationRecord, n)
	base := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	for i := range out {
		status := model.StatusSuccess
		if i%4 == 3 {
			status = model.StatusError
		}
		out[i] = model.OperationRecord{
			ID:            fmt.Sprintf("%s-%d", typ, i),
			OperationType: typ,
			Status:        status,
			Timestamp:     model.Timestamp{Time: base.Add(time.Duration(i) * time.Minute)},
			SourceType:    "pain.001.001.03",
			TargetType:    "MT101",
			InputXML:      "<Document/>",
		}
	}
	return out
}

// ─── Middleware ───────────────────────────────────────────────────────

func TestServer_Health(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := newClient(t, s).json("GET", "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
	var body server.HealthResponse
	decodeJSON(t, rec, &body)
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %q", body.Status)
	}
}

func TestServer_RequestIDIsEchoed(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected request id abc-123, got %q", got)
	}
}

func TestServer_SessionCookieReused(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	c := newClient(t, s)

	first := c.json("GET", "/api/metrics", "")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	if _, ok := c.cookies[server.SessionCookie]; !ok {
		t.Fatal("expected session cookie on first request")
	}

	second := c.json("GET", "/api/metrics", "")
	if len(second.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for a live session")
	}
	if n := s.Orchestrator().SessionCount(); n != 1 {
		t.Errorf("expected 1 session, got %d", n)
	}
}

func TestServer_UnknownSessionGetsFreshOne(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	c := newClient(t, s)
	c.cookies[server.SessionCookie] = &http.Cookie{Name: server.SessionCookie, Value: "stale"}

	c.json("GET", "/api/metrics", "")

	if got := c.cookies[server.SessionCookie].Value; got == "stale" {
		t.Error("expected a replacement session id")
	}
}

func TestServer_CORS_Preflight(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/validate", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected CORS origin *, got %q", origin)
	}
}

// ─── Actions ──────────────────────────────────────────────────────────

func TestServer_Validate(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)

	rec := newClient(t, s).json("POST", "/api/validate", `{"sourceType":"pain.001.001.03","xml":"<Document/>"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res model.ValidationResult
	decodeJSON(t, rec, &res)
	if !res.Success || res.Message != "Document valide" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(api.Initiates) != 1 {
		t.Errorf("expected 1 initiate call, got %d", len(api.Initiates))
	}
}

func TestServer_Validate_EmptyXML(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)

	rec := newClient(t, s).json("POST", "/api/validate", `{"xml":"   "}`)

	var res model.ValidationResult
	decodeJSON(t, rec, &res)
	if res.Error != app.MsgEmptyXML {
		t.Errorf("expected %q, got %q", app.MsgEmptyXML, res.Error)
	}
	if len(api.Initiates) != 0 {
		t.Error("expected no outbound call for blank XML")
	}
}

func TestServer_Validate_InvalidJSON(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := newClient(t, s).json("POST", "/api/validate", `{invalid}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_Transform(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := newClient(t, s).json("POST", "/api/transform", `{"painXml":"<Document/>"}`)

	var res model.TransformationResult
	decodeJSON(t, rec, &res)
	if res.Output != ":20:DUMMY" || res.Error != "" {
		t.Errorf("unexpected result %+v", res)
	}
}

// ─── History ──────────────────────────────────────────────────────────

func TestServer_History(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.SetPages(model.CategoryGlobal, records(25, model.OperationValidation))

	rec := newClient(t, s).json("GET", "/api/history/global", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var h server.HistoryResponse
	decodeJSON(t, rec, &h)
	if len(h.Records) != 10 || h.TotalPages != 3 || h.Page != 0 {
		t.Errorf("unexpected page: %d records, %d pages, page %d", len(h.Records), h.TotalPages, h.Page)
	}
}

func TestServer_History_UnknownCategory(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := newClient(t, s).json("GET", "/api/history/archive", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestServer_History_Paging(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.SetPages(model.CategoryGlobal, records(25, model.OperationValidation))
	c := newClient(t, s)

	if rec := c.json("POST", "/api/history/global/page", `{"page":3}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for page 3 of 3, got %d", rec.Code)
	}

	rec := c.json("POST", "/api/history/global/page", `{"page":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var h server.HistoryResponse
	decodeJSON(t, rec, &h)
	if h.Page != 2 || len(h.Records) != 5 {
		t.Errorf("expected last page with 5 records, got page %d with %d", h.Page, len(h.Records))
	}
}

func TestServer_History_Size(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.SetPages(model.CategoryValidation, records(25, model.OperationValidation))
	c := newClient(t, s)

	if rec := c.json("POST", "/api/history/validation/size", `{"size":7}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for size 7, got %d", rec.Code)
	}

	rec := c.json("POST", "/api/history/validation/size", `{"size":20}`)
	var h server.HistoryResponse
	decodeJSON(t, rec, &h)
	if h.Size != 20 || len(h.Records) != 20 || h.TotalPages != 2 {
		t.Errorf("unexpected page after resize: size %d, %d records, %d pages", h.Size, len(h.Records), h.TotalPages)
	}
}

func TestServer_History_Filter(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	c := newClient(t, s)

	rec := c.json("POST", "/api/history/global/filter", `{"date":"2024-03-15","fromTime":"09:00"}`)
	var h server.HistoryResponse
	decodeJSON(t, rec, &h)
	if h.Applied == nil || *h.Applied {
		t.Errorf("expected incomplete filter not to apply, got %v", h.Applied)
	}
	if h.Filter.FromTime != "09:00" {
		t.Errorf("expected raw inputs kept, got %+v", h.Filter)
	}

	rec = c.json("POST", "/api/history/global/filter", `{"date":"2024-03-15","fromTime":"09:00","toTime":"17:00","tz":"UTC"}`)
	h = server.HistoryResponse{}
	decodeJSON(t, rec, &h)
	if h.Applied == nil || !*h.Applied {
		t.Fatal("expected complete filter to apply")
	}
	if h.Range.From != "2024-03-15T09:00:00.000Z" {
		t.Errorf("unexpected from bound %q", h.Range.From)
	}
	last := api.Queries[len(api.Queries)-1]
	if last.From != h.Range.From || last.Page != 0 {
		t.Errorf("expected filtered query on page 0, got %+v", last)
	}

	rec = c.json("DELETE", "/api/history/global/filter", "")
	h = server.HistoryResponse{}
	decodeJSON(t, rec, &h)
	if h.Filtered() {
		t.Errorf("expected filter cleared, got %+v", h.Range)
	}
}

func TestServer_History_InvalidFilter(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := newClient(t, s).json("POST", "/api/history/global/filter", `{"date":"2024-13-45","fromTime":"09:00","toTime":"17:00"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_History_LoadErrorIsState(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.HistoryFunc = func(context.Context, model.HistoryQuery) (*model.Page, error) {
		return nil, errors.New("connection refused")
	}

	rec := newClient(t, s).json("POST", "/api/history/transformation/reload", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var h server.HistoryResponse
	decodeJSON(t, rec, &h)
	if h.Error == "" {
		t.Error("expected the load error in the view state")
	}
}

// ─── Operations & stats ───────────────────────────────────────────────

func TestServer_Operation(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	recs := records(3, model.OperationValidation)
	recs[1].Errors = json.RawMessage(`[{"code":"E1","message":"montant invalide"}]`)
	api.SetPages(model.CategoryGlobal, recs)
	c := newClient(t, s)

	if rec := c.json("GET", "/api/operations/validation-1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 before any page is loaded, got %d", rec.Code)
	}

	c.json("GET", "/api/history/global", "")
	rec := c.json("GET", "/api/operations/validation-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var op server.OperationResponse
	decodeJSON(t, rec, &op)
	if len(op.NormalizedErrors) != 1 || op.NormalizedErrors[0].Code != "E1" {
		t.Errorf("unexpected normalized errors %+v", op.NormalizedErrors)
	}
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.SetPages(model.CategoryGlobal, records(4, model.OperationValidation))

	rec := newClient(t, s).json("GET", "/api/metrics", "")

	var m model.DashboardMetrics
	decodeJSON(t, rec, &m)
	if m.TotalOperations != 4 || m.SuccessRate != 75 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestServer_Currencies(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.Currencies = map[string]int{"EUR": 3, "USD": 1}

	rec := newClient(t, s).json("GET", "/api/stats/currencies", "")

	var b model.Breakdown
	decodeJSON(t, rec, &b)
	if b.Total != 4 || len(b.Slices) != 2 || b.Slices[0].Label != "EUR" {
		t.Errorf("unexpected breakdown %+v", b)
	}
}

func TestServer_Currencies_Unavailable(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.CurrencyErr = errors.New("boom")

	rec := newClient(t, s).json("GET", "/api/stats/currencies", "")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

// ─── HTML ─────────────────────────────────────────────────────────────

func TestServer_UI_Dashboard(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.SetPages(model.CategoryGlobal, records(4, model.OperationValidation))

	rec := newClient(t, s).do("GET", "/", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doc := document(t, rec)
	if got := doc.Find(`[data-metric="total"] .metric-value`).Text(); got != "4" {
		t.Errorf("expected total 4, got %q", got)
	}
}

func TestServer_UI_ValidateRoundTrip(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.InitiateFunc = func(_, _, _ string) (*payments.InitiateResponse, error) {
		return &payments.InitiateResponse{StatusCode: 400, Body: `[{"code":"XSD","message":"montant invalide"}]`}, nil
	}
	c := newClient(t, s)

	rec := c.form("/ui/validate", url.Values{"sourceType": {"pain.001.001.03"}, "xml": {"<Document/>"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/ui/validation" {
		t.Fatalf("expected redirect to /ui/validation, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	doc := document(t, c.do("GET", "/ui/validation", "", ""))
	if got := doc.Find("#validation-result .error-code").Text(); got != "XSD" {
		t.Errorf("expected error code XSD, got %q", got)
	}
	if got := doc.Find("#xml").Text(); got != "<Document/>" {
		t.Errorf("expected the submitted XML kept in the form, got %q", got)
	}
}

func TestServer_UI_HistoryPaging(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.SetPages(model.CategoryValidation, records(25, model.OperationValidation))
	c := newClient(t, s)

	doc := document(t, c.do("GET", "/ui/history/validation", "", ""))
	if n := doc.Find("tr[data-id]").Length(); n != 10 {
		t.Fatalf("expected 10 rows, got %d", n)
	}

	rec := c.form("/ui/history/validation/page", url.Values{"page": {"1"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	doc = document(t, c.do("GET", "/ui/history/validation", "", ""))
	if got := doc.Find("#pager .page-info").Text(); got != "Page 2 sur 3" {
		t.Errorf("unexpected page info %q", got)
	}
}

func TestServer_UI_InvalidFilter(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := newClient(t, s).form("/ui/history/global/filter", url.Values{
		"date": {"2024-02-30"}, "fromTime": {"09:00"}, "toTime": {"17:00"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if document(t, rec).Find("#notice").Length() != 1 {
		t.Error("expected a notice for the rejected filter")
	}
}

func TestServer_UI_UnknownHistory(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := newClient(t, s).do("GET", "/ui/history/archive", "", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestServer_UI_Report(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.SetPages(model.CategoryGlobal, records(2, model.OperationTransformation))
	c := newClient(t, s)
	c.do("GET", "/ui/history/global", "", "")

	rec := c.do("GET", "/ui/operations/transformation-0/report", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := `attachment; filename="operation-transformation-0-rapport.html"`
	if got := rec.Header().Get("Content-Disposition"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// ─── Swagger ──────────────────────────────────────────────────────────

func TestServer_SwaggerDoc(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := newClient(t, s).do("GET", "/swagger/doc.json", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/history/{category}") {
		t.Error("expected history routes in the API doc")
	}
}

// ─── WebSocket ────────────────────────────────────────────────────────

func TestServer_EventsWS(t *testing.T) {
	t.Parallel()
	s, api := newTestServer(t)
	api.SetPages(model.CategoryGlobal, records(3, model.OperationValidation))
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/metrics")
	if err != nil {
		t.Fatalf("GET /api/metrics: %v", err)
	}
	resp.Body.Close()
	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == server.SessionCookie {
			session = ck
		}
	}
	if session == nil {
		t.Fatal("expected a session cookie")
	}

	header := http.Header{}
	header.Set("Cookie", session.String())
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/events", header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	req, _ := http.NewRequest("POST", ts.URL+"/api/history/global/reload", nil)
	req.AddCookie(session)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST reload: %v", err)
	}
	resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev app.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type != app.EventHistory || ev.Category != model.CategoryGlobal || ev.SessionID != session.Value {
		t.Errorf("unexpected event %+v", ev)
	}
}
