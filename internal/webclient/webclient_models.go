package webclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// NewFormRequest builds a POST carrying an application/x-www-form-urlencoded body.
func NewFormRequest(rawURL string, form url.Values) *Request {
	h := http.Header{}
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	return &Request{
		Method:  http.MethodPost,
		URL:     rawURL,
		Headers: h,
		Body:    []byte(form.Encode()),
	}
}

// NewJSONRequest builds a request carrying an already encoded JSON body.
func NewJSONRequest(method, rawURL string, body []byte) *Request {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	return &Request{
		Method:  method,
		URL:     rawURL,
		Headers: h,
		Body:    body,
	}
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
	Duration   time.Duration
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// IsJSON reports whether the response declares a JSON body.
func (r *Response) IsJSON() bool {
	return r != nil && strings.Contains(r.Headers.Get("Content-Type"), "json")
}
