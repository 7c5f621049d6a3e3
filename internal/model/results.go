package model

// Severity of a normalized error record.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ErrorRecord is the uniform shape every error payload is normalized into.
type ErrorRecord struct {
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message"`
	Line     *int     `json:"line,omitempty"`
	Severity Severity `json:"severity,omitempty"`
}

// ValidationResult is the outcome of a validate action.
type ValidationResult struct {
	// Success is true when the service answered with a 2xx status.
	Success bool `json:"success"`

	// Message is the service's response text, stored verbatim.
	Message string `json:"message,omitempty"`

	// Status is the HTTP status the service answered with (0 when none).
	Status int `json:"status,omitempty"`

	// Error is set for input and transport errors.
	Error string `json:"error,omitempty"`

	// Errors is the normalized error list shown under a failed validation.
	Errors []ErrorRecord `json:"errors,omitempty"`
}

// TransformResponse is the payments service's /to-mt101 answer.
type TransformResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	MT101   string `json:"mt101,omitempty"`
	Errors  string `json:"errors,omitempty"`
}

// TransformationResult is the outcome of a transform action.
type TransformationResult struct {
	// Output holds the produced MT101 text on success.
	Output string `json:"output,omitempty"`

	// Error holds the raw error payload or transport error text on failure.
	Error string `json:"error,omitempty"`

	// BackendMessage is the service's optional "message" field.
	BackendMessage string `json:"backendMessage,omitempty"`

	// Errors is Error normalized for display.
	Errors []ErrorRecord `json:"errors,omitempty"`
}

// Succeeded reports whether the transformation produced output without error.
func (r TransformationResult) Succeeded() bool {
	return r.Error == ""
}
