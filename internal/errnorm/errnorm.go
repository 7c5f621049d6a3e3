// Package errnorm converts the heterogeneous error payloads of the payments service
// into a uniform list of model.ErrorRecord.
//
// Payloads arrive as nothing at all, plain text, a JSON-encoded array or object,
// a string with JSON object fragments embedded in prose, or an already decoded list.
// Normalize resolves them in a fixed order and never fails:
//
//  1. nil or empty: empty list
//  2. a list: returned as records
//  3. a string starting with "[": strict JSON array
//  4. a JSON object wrapping a non-empty "errors" array: that array
//  5. every {...} fragment without a closing brace inside, parsed on its own
//  6. the fragments from 5, if any parsed
//  7. the raw string as a single VALIDATION_ERROR record
//
// A record whose message is itself such a wrapper is replaced by the wrapped list.
package errnorm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/raysh454/paydash/internal/model"
)

const (
	DefaultCode    = "VALIDATION_ERROR"
	DefaultMessage = "Message d'erreur non disponible"
)

var fragmentPattern = regexp.MustCompile(`\{[^}]+\}`)

// Normalize returns the uniform error list for payload.
func Normalize(payload any) (out []model.ErrorRecord) {
	defer func() {
		if r := recover(); r != nil {
			out = []model.ErrorRecord{rawRecord(fmt.Sprint(payload))}
		}
	}()

	switch v := payload.(type) {
	case nil:
		return []model.ErrorRecord{}
	case []model.ErrorRecord:
		return v
	case []map[string]any:
		return fromMaps(v)
	case []any:
		return fromAnys(v)
	case json.RawMessage:
		return normalizeJSON(v)
	case []byte:
		return normalizeString(string(v))
	case string:
		return normalizeString(v)
	case error:
		return normalizeString(v.Error())
	default:
		return normalizeString(fmt.Sprint(v))
	}
}

// normalizeJSON handles a raw JSON value: strings are unwrapped and go through the
// string tiers, structured values are decoded directly.
func normalizeJSON(raw json.RawMessage) []model.ErrorRecord {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return []model.ErrorRecord{}
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			return normalizeString(str)
		}
	}
	return normalizeString(s)
}

func normalizeString(s string) []model.ErrorRecord {
	if strings.TrimSpace(s) == "" {
		return []model.ErrorRecord{}
	}

	if strings.HasPrefix(s, "[") {
		var items []any
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return fromAnys(items)
		}
	}

	if items, ok := wrappedErrors(s); ok {
		return fromAnys(items)
	}

	var records []model.ErrorRecord
	for _, frag := range fragmentPattern.FindAllString(s, -1) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(frag), &obj); err != nil {
			continue
		}
		rec, ok := fromFragment(obj)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	if len(records) > 0 {
		return records
	}

	return []model.ErrorRecord{rawRecord(s)}
}

// fromFragment applies the defaults used for embedded objects. A non-string code
// makes the fragment unusable.
func fromFragment(obj map[string]any) (model.ErrorRecord, bool) {
	var code string
	if v, present := obj["code"]; present && v != nil {
		s, ok := v.(string)
		if !ok {
			return model.ErrorRecord{}, false
		}
		code = s
	}
	rec := model.ErrorRecord{
		Code:     code,
		Message:  stringField(obj, "message"),
		Line:     lineField(obj),
		Severity: SeverityFor(code),
	}
	if rec.Code == "" {
		rec.Code = DefaultCode
	}
	if rec.Message == "" {
		rec.Message = DefaultMessage
	}
	return rec, true
}

// wrappedErrors returns the "errors" array of a {"errors":[...]} body.
func wrappedErrors(s string) ([]any, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.Contains(s, `"errors"`) {
		return nil, false
	}
	var body struct {
		Errors []any `json:"errors"`
	}
	if err := json.Unmarshal([]byte(s), &body); err != nil || len(body.Errors) == 0 {
		return nil, false
	}
	return body.Errors, true
}

// fromAnys converts a decoded JSON array. Objects keep their own code and message;
// only the severity is derived when missing. Scalars become messages.
func fromAnys(items []any) []model.ErrorRecord {
	out := make([]model.ErrorRecord, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			if nested, ok := wrappedErrors(stringField(v, "message")); ok {
				out = append(out, fromAnys(nested)...)
				continue
			}
			out = append(out, fromMap(v))
		case nil:
			continue
		case string:
			out = append(out, model.ErrorRecord{Code: DefaultCode, Message: v, Severity: model.SeverityError})
		default:
			out = append(out, model.ErrorRecord{Code: DefaultCode, Message: fmt.Sprint(v), Severity: model.SeverityError})
		}
	}
	return out
}

func fromMaps(items []map[string]any) []model.ErrorRecord {
	out := make([]model.ErrorRecord, 0, len(items))
	for _, m := range items {
		out = append(out, fromMap(m))
	}
	return out
}

func fromMap(m map[string]any) model.ErrorRecord {
	rec := model.ErrorRecord{
		Code:    stringField(m, "code"),
		Message: stringField(m, "message"),
		Line:    lineField(m),
	}
	switch sev := strings.ToLower(stringField(m, "severity")); sev {
	case string(model.SeverityWarning):
		rec.Severity = model.SeverityWarning
	case string(model.SeverityError):
		rec.Severity = model.SeverityError
	default:
		rec.Severity = SeverityFor(rec.Code)
	}
	return rec
}

// SeverityFor derives a severity from an error code.
func SeverityFor(code string) model.Severity {
	if strings.Contains(code, "WARNING") {
		return model.SeverityWarning
	}
	return model.SeverityError
}

func rawRecord(s string) model.ErrorRecord {
	return model.ErrorRecord{Code: DefaultCode, Message: s, Severity: model.SeverityError}
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// lineField accepts numeric or numeric-string line values; zero means absent.
func lineField(m map[string]any) *int {
	var n int
	switch v := m["line"].(type) {
	case float64:
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	if n == 0 {
		return nil
	}
	return &n
}
