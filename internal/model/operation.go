package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OperationType distinguishes the two operations the payments service logs.
type OperationType string

const (
	OperationValidation     OperationType = "validation"
	OperationTransformation OperationType = "transformation"
)

// OperationStatus is the outcome of a logged operation.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "success"
	StatusError   OperationStatus = "error"
	StatusPending OperationStatus = "pending"
)

// Category selects one of the three history scopes.
type Category string

const (
	CategoryGlobal         Category = "global"
	CategoryValidation     Category = "validation"
	CategoryTransformation Category = "transformation"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryGlobal, CategoryValidation, CategoryTransformation}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryGlobal, CategoryValidation, CategoryTransformation:
		return c, nil
	default:
		return "", fmt.Errorf("unknown history category %q", s)
	}
}

// Label is the operator-facing name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryValidation:
		return "Historique validation"
	case CategoryTransformation:
		return "Historique transformation"
	default:
		return "Historique global"
	}
}

// OperationRecord is one logged validate or transform attempt. Records are owned by
// the payments service; the dashboard only displays them.
type OperationRecord struct {
	// ID is an opaque identifier, stable for the record's lifetime.
	ID string `json:"id"`

	// OperationType is "validation" or "transformation".
	OperationType OperationType `json:"operationType"`

	// Status is "success", "error" or "pending".
	Status OperationStatus `json:"status"`

	// Timestamp is the instant the operation occurred.
	Timestamp Timestamp `json:"timestamp"`

	// SourceType and TargetType identify the document formats involved.
	SourceType string `json:"sourceType"`
	TargetType string `json:"targetType"`

	// InputXML is the submitted document text.
	InputXML string `json:"inputXml"`

	// OutputContent is the produced output, present only for operations that produce one.
	OutputContent string `json:"outputContent,omitempty"`

	// Errors is the raw error payload in whatever encoding the service used
	// (plain text, JSON-encoded string, array or object). Normalized at display time.
	Errors json.RawMessage `json:"errors,omitempty"`

	// Optional fields some service versions include.
	Duration *int64 `json:"duration,omitempty"`
	Details  string `json:"details,omitempty"`
	UserID   string `json:"userId,omitempty"`
	BIC      string `json:"bic,omitempty"`
}

// HasErrors reports whether the record carries a non-empty error payload.
func (r OperationRecord) HasErrors() bool {
	s := strings.TrimSpace(string(r.Errors))
	return s != "" && s != "null" && s != `""` && s != "[]"
}

// Page is one server-paginated slice of records. Number is zero based.
type Page struct {
	Content    []OperationRecord `json:"content"`
	TotalPages int               `json:"totalPages"`
	Number     int               `json:"number"`
}

// HistoryQuery selects one page of a category's history. From and To are ISO-8601
// instants and are only sent when both are set.
type HistoryQuery struct {
	Category Category
	Page     int
	Size     int
	From     string
	To       string
}

// HasRange reports whether the query carries a complete date range.
func (q HistoryQuery) HasRange() bool {
	return q.From != "" && q.To != ""
}
