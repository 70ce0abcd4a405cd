package response

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// ProblemDetail represents RFC 9457 Problem Details for HTTP APIs
// See: https://www.rfc-editor.org/rfc/rfc9457.html
type ProblemDetail struct {
	Type     string                 `json:"type"`               // URI reference identifying the problem type
	Title    string                 `json:"title"`              // Short, human-readable summary
	Status   int                    `json:"status"`             // HTTP status code
	Detail   string                 `json:"detail"`             // Human-readable explanation
	Instance string                 `json:"instance"`           // URI reference identifying the specific occurrence
	TraceID  string                 `json:"trace_id,omitempty"` // Datadog trace ID for correlation
	SpanID   string                 `json:"span_id,omitempty"`  // Datadog span ID for correlation
	Notify   *bool                  `json:"notify,omitempty"`   // Whether this error should trigger alerts
	Extra    map[string]interface{} `json:"-"`                  // Additional extension members
}

// ErrorType defines standard error type URIs
const (
	ErrorTypeValidation = "https://hero-tour.example.com/errors/validation"
	ErrorTypeNotFound   = "https://hero-tour.example.com/errors/not-found"
	ErrorTypeInternal   = "https://hero-tour.example.com/errors/internal"
)

// setTraceHeaders copies the active span's ids onto the response and returns them
func setTraceHeaders(ctx context.Context, w http.ResponseWriter) (traceID, spanID string) {
	span, ok := tracer.SpanFromContext(ctx)
	if !ok {
		return "", ""
	}

	spanContext := span.Context()
	traceID = strconv.FormatUint(spanContext.TraceID(), 10)
	spanID = strconv.FormatUint(spanContext.SpanID(), 10)

	w.Header().Set("X-Datadog-Trace-Id", traceID)
	w.Header().Set("X-Datadog-Span-Id", spanID)
	w.Header().Set("X-Datadog-Parent-Id", spanID)
	return traceID, spanID
}

// RespondJSONWithTrace sends a JSON response with trace headers
func RespondJSONWithTrace(ctx context.Context, w http.ResponseWriter, status int, data interface{}) error {
	setTraceHeaders(ctx, w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// RespondProblemWithTrace sends an RFC 9457 Problem Details response with trace information
func RespondProblemWithTrace(ctx context.Context, w http.ResponseWriter, problem ProblemDetail) error {
	problem.TraceID, problem.SpanID = setTraceHeaders(ctx, w)

	// Set Content-Type as per RFC 9457
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)

	mainData, err := json.Marshal(problem)
	if err != nil {
		return err
	}
	var result map[string]interface{}
	if err := json.Unmarshal(mainData, &result); err != nil {
		return err
	}

	// extension members live at the root level
	for k, v := range problem.Extra {
		result[k] = v
	}

	return json.NewEncoder(w).Encode(result)
}

// NewProblemDetail creates a new ProblemDetail with common fields set
func NewProblemDetail(errorType, title string, status int, detail, instance string) ProblemDetail {
	return ProblemDetail{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
		Extra:    make(map[string]interface{}),
	}
}

// NewInternalErrorProblem creates a problem detail for internal server errors
func NewInternalErrorProblem(detail, instance string, notify bool) ProblemDetail {
	problem := NewProblemDetail(
		ErrorTypeInternal,
		"Internal Server Error",
		http.StatusInternalServerError,
		detail,
		instance,
	)
	problem.Notify = &notify
	return problem
}

// NewValidationErrorProblem creates a problem detail for validation errors
func NewValidationErrorProblem(detail, instance string) ProblemDetail {
	notifyFalse := false
	problem := NewProblemDetail(
		ErrorTypeValidation,
		"Validation Error",
		http.StatusBadRequest,
		detail,
		instance,
	)
	problem.Notify = &notifyFalse
	return problem
}

// NewNotFoundProblem creates a problem detail for not found errors
func NewNotFoundProblem(detail, instance string) ProblemDetail {
	notifyFalse := false
	problem := NewProblemDetail(
		ErrorTypeNotFound,
		"Not Found",
		http.StatusNotFound,
		detail,
		instance,
	)
	problem.Notify = &notifyFalse
	return problem
}
