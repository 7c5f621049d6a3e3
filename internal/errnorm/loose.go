package errnorm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raysh454/paydash/internal/model"
)

// NormalizeLoose is the operation-detail variant: the payload is decoded as JSON
// once and anything that does not decode is shown as a single raw message.
// Records without a message display their JSON form instead.
func NormalizeLoose(payload any) (out []model.ErrorRecord) {
	defer func() {
		if r := recover(); r != nil {
			out = []model.ErrorRecord{{Message: fmt.Sprint(payload)}}
		}
	}()

	var s string
	switch v := payload.(type) {
	case nil:
		return []model.ErrorRecord{}
	case []model.ErrorRecord:
		return v
	case []any:
		return looseFromAnys(v)
	case json.RawMessage:
		s = strings.TrimSpace(string(v))
		if strings.HasPrefix(s, `"`) {
			var inner string
			if err := json.Unmarshal(v, &inner); err == nil {
				s = inner
			}
		}
	case string:
		s = v
	default:
		s = fmt.Sprint(v)
	}

	if s == "" || s == "null" {
		return []model.ErrorRecord{}
	}

	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return []model.ErrorRecord{{Message: s}}
	}
	switch v := decoded.(type) {
	case []any:
		return looseFromAnys(v)
	case map[string]any:
		if nested, ok := v["errors"].([]any); ok && len(nested) > 0 {
			return looseFromAnys(nested)
		}
		return []model.ErrorRecord{looseFromMap(v)}
	default:
		return []model.ErrorRecord{{Message: s}}
	}
}

func looseFromAnys(items []any) []model.ErrorRecord {
	out := make([]model.ErrorRecord, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, looseFromMap(m))
			continue
		}
		b, err := json.Marshal(item)
		if err != nil {
			out = append(out, model.ErrorRecord{Message: fmt.Sprint(item)})
			continue
		}
		if str, ok := item.(string); ok {
			out = append(out, model.ErrorRecord{Message: str})
			continue
		}
		out = append(out, model.ErrorRecord{Message: string(b)})
	}
	return out
}

func looseFromMap(m map[string]any) model.ErrorRecord {
	rec := fromMap(m)
	if rec.Message == "" {
		if b, err := json.Marshal(m); err == nil {
			rec.Message = string(b)
		}
	}
	return rec
}
