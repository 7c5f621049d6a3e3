package server

import (
	"time"

	"github.com/raysh454/paydash/internal/filter"
	"github.com/raysh454/paydash/internal/history"
	"github.com/raysh454/paydash/internal/model"
)

// ValidateRequest is the payload of a validation.
type ValidateRequest struct {
	SourceType string `json:"sourceType" example:"pain.001.001.03"`
	TargetType string `json:"targetType" example:"MT101"`
	XML        string `json:"xml" example:"<Document>...</Document>"`
}

// TransformRequest is the payload of a pain.001 to MT101 transformation.
type TransformRequest struct {
	PainXML string `json:"painXml" example:"<Document>...</Document>"`
}

// FilterRequest carries the raw date filter inputs. TZ is the IANA zone the
// times were typed in; empty means the server's configured zone.
type FilterRequest struct {
	Date     string `json:"date" example:"2024-03-15"`
	FromTime string `json:"fromTime" example:"09:00"`
	ToTime   string `json:"toTime" example:"17:00"`
	TZ       string `json:"tz,omitempty" example:"Europe/Paris"`
}

// PageRequest selects a zero-based page.
type PageRequest struct {
	Page int `json:"page" example:"1"`
}

// SizeRequest selects a page size.
type SizeRequest struct {
	Size int `json:"size" example:"20"`
}

// HistoryResponse is one history view: its current page and its raw filter inputs.
type HistoryResponse struct {
	history.Snapshot
	Filter filter.Inputs `json:"filter"`

	// Applied is set by filter requests: false when the inputs were incomplete
	// and nothing was fetched.
	Applied *bool `json:"applied,omitempty"`
}

// OperationResponse is one operation with its error payload normalized.
type OperationResponse struct {
	model.OperationRecord
	NormalizedErrors []model.ErrorRecord `json:"normalizedErrors"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status   string    `json:"status" example:"ok"`
	Sessions int       `json:"sessions" example:"3"`
	Time     time.Time `json:"time"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"page out of range"`
}
