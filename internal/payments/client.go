// Package payments is the typed client for the remote payments service: document
// validation, pain.001 to MT101 transformation, operation history and statistics.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
	"github.com/raysh454/paydash/internal/webclient"
)

// ErrUnexpectedStatus is matched by every *StatusError.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError reports a non-2xx answer from the payments service.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// InitiateResponse is the raw answer to a validation request. Success is decided
// by the status code alone.
type InitiateResponse struct {
	StatusCode int
	Body       string
}

// OK reports a 2xx status.
func (r InitiateResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// TransformOutcome is the decoded /to-mt101 answer plus its status code.
type TransformOutcome struct {
	StatusCode int
	Response   model.TransformResponse
}

// OK reports whether the service accepted the transformation: 2xx and status "success".
func (o TransformOutcome) OK() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300 && o.Response.Status == "success"
}

// Client calls the payments service through a webclient.WebClient.
type Client struct {
	cfg    Config
	wc     webclient.WebClient
	logger logging.Logger
}

// NewClient returns a Client. cfg is normalized with Config.Normalize.
func NewClient(cfg Config, wc webclient.WebClient, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewStdoutLogger("payments")
	}
	return &Client{
		cfg:    cfg.Normalize(),
		wc:     wc,
		logger: logger.With(logging.Field{Key: "component", Value: "payments"}),
	}
}

// Config returns the effective endpoint configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Initiate submits a document for validation.
func (c *Client) Initiate(ctx context.Context, sourceType, targetType, xml string) (*InitiateResponse, error) {
	form := url.Values{}
	form.Set("sourceType", sourceType)
	form.Set("targetType", targetType)
	form.Set("xml", xml)

	resp, err := c.wc.Do(ctx, webclient.NewFormRequest(c.cfg.APIBase+"/initiate", form))
	if err != nil {
		return nil, fmt.Errorf("initiate: %w", err)
	}
	c.logger.Info("validation submitted",
		logging.Field{Key: "source_type", Value: sourceType},
		logging.Field{Key: "target_type", Value: targetType},
		logging.Field{Key: "status", Value: resp.StatusCode})
	return &InitiateResponse{StatusCode: resp.StatusCode, Body: string(resp.Body)}, nil
}

// ToMT101 submits a pain.001 document for transformation. A body that is not JSON
// is an error whatever the status code.
func (c *Client) ToMT101(ctx context.Context, painXML string) (*TransformOutcome, error) {
	body, err := json.Marshal(map[string]string{"painXml": painXML})
	if err != nil {
		return nil, fmt.Errorf("to-mt101: encode body: %w", err)
	}

	resp, err := c.wc.Do(ctx, webclient.NewJSONRequest(http.MethodPost, c.cfg.APIBase+"/to-mt101", body))
	if err != nil {
		return nil, fmt.Errorf("to-mt101: %w", err)
	}

	out := &TransformOutcome{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(resp.Body, &out.Response); err != nil {
		if !resp.OK() {
			return nil, &StatusError{Op: "to-mt101", StatusCode: resp.StatusCode, Body: string(resp.Body)}
		}
		return nil, fmt.Errorf("to-mt101: decode response: %w", err)
	}
	c.logger.Info("transformation submitted",
		logging.Field{Key: "status", Value: resp.StatusCode},
		logging.Field{Key: "result", Value: out.Response.Status})
	return out, nil
}

// HistoryURL builds the history URL for q. from/to are only added when both are set.
func (c *Client) HistoryURL(q model.HistoryQuery) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if q.HasRange() {
		v.Set("from", q.From)
		v.Set("to", q.To)
	}
	return c.cfg.HistoryBase + "/" + string(q.Category) + "?" + v.Encode()
}

// History fetches one page of a category's history.
func (c *Client) History(ctx context.Context, q model.HistoryQuery) (*model.Page, error) {
	if _, err := model.ParseCategory(string(q.Category)); err != nil {
		return nil, err
	}
	resp, err := c.wc.Get(ctx, c.HistoryURL(q))
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", q.Category, err)
	}
	if !resp.OK() {
		return nil, &StatusError{Op: "history " + string(q.Category), StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var page model.Page
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("history %s: decode response: %w", q.Category, err)
	}
	if page.Content == nil {
		page.Content = []model.OperationRecord{}
	}
	return &page, nil
}

// CurrencyStats fetches the label to count mapping used by the breakdown chart.
func (c *Client) CurrencyStats(ctx context.Context) (map[string]int, error) {
	resp, err := c.wc.Get(ctx, c.cfg.StatsBase+"/currencies")
	if err != nil {
		return nil, fmt.Errorf("currency stats: %w", err)
	}
	if !resp.OK() {
		return nil, &StatusError{Op: "currency stats", StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var raw map[string]json.Number
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, fmt.Errorf("currency stats: decode response: %w", err)
	}
	out := make(map[string]int, len(raw))
	for label, n := range raw {
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return nil, fmt.Errorf("currency stats: count for %q: %w", label, err)
			}
			i = int64(f)
		}
		out[strings.TrimSpace(label)] = int(i)
	}
	return out, nil
}
