// Package response defines the JSON envelope every campusgate endpoint
// speaks: {"success":true,"data":...} on the happy path and
// {"success":false,"error":{...}} for failures. Errors raised inside huma
// operations, router fallbacks, and middleware all funnel through this
// package so clients see one shape regardless of where a request died.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Error codes carried in the error envelope. Stable API surface; clients
// branch on these rather than on messages.
const (
	CodeBadRequest          = "bad_request"
	CodeCorsDenied          = "cors_denied"
	CodeForbidden           = "forbidden"
	CodeNotFound            = "not_found"
	CodeMethodNotAllowed    = "method_not_allowed"
	CodeRangeNotSatisfiable = "range_not_satisfiable"
	CodeValidationFailed    = "validation_failed"
	CodeInternalError       = "internal_error"
)

// internalMessage replaces upstream failure details on 5xx responses.
// Specifics stay in the logs.
const internalMessage = "internal server error"

// ErrorDetail is the error object inside the envelope.
type ErrorDetail struct {
	Code    string   `json:"code" example:"not_found" doc:"Machine-readable error code"`
	Message string   `json:"message" example:"course not found" doc:"Human-readable summary"`
	Details []string `json:"details,omitempty" doc:"Individual validation failures, when applicable"`
}

// ErrorEnvelope is the uniform failure body. It implements huma.StatusError
// so huma-registered operations marshal it directly, and
// huma.ContentTypeFilter so it is served as plain application/json rather
// than a problem+json document.
type ErrorEnvelope struct {
	Success bool        `json:"success" example:"false" doc:"Always false for errors"`
	Err     ErrorDetail `json:"error"`

	status int
}

// Error implements the error interface.
func (e *ErrorEnvelope) Error() string {
	return e.Err.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorEnvelope) GetStatus() int {
	return e.status
}

// ContentType implements huma.ContentTypeFilter.
func (e *ErrorEnvelope) ContentType(string) string {
	return "application/json"
}

// NewError builds an error envelope from a status code and message. Wired
// into huma.NewError at server construction so every operation error, 404
// fallback, and validation failure shares the envelope. Internal details on
// 5xx are suppressed; wrapped errors become validation detail strings.
func NewError(status int, message string, errs ...error) huma.StatusError {
	details := make([]string, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		details = append(details, err.Error())
	}

	if status >= http.StatusInternalServerError {
		message = internalMessage
		details = nil
	}

	return &ErrorEnvelope{
		Err: ErrorDetail{
			Code:    codeForStatus(status),
			Message: message,
			Details: details,
		},
		status: status,
	}
}

// NewErrorWithCode builds an error envelope with an explicit code, for
// failures whose code is not implied by the status alone (CORS denials).
func NewErrorWithCode(status int, code, message string) *ErrorEnvelope {
	return &ErrorEnvelope{
		Err: ErrorDetail{
			Code:    code,
			Message: message,
		},
		status: status,
	}
}

// codeForStatus maps an HTTP status to its envelope error code.
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusMethodNotAllowed:
		return CodeMethodNotAllowed
	case http.StatusRequestedRangeNotSatisfiable:
		return CodeRangeNotSatisfiable
	case http.StatusUnprocessableEntity:
		return CodeValidationFailed
	default:
		if status >= http.StatusInternalServerError {
			return CodeInternalError
		}
		return CodeBadRequest
	}
}

// WriteError emits an error envelope directly on a ResponseWriter, for
// failures raised outside huma operations (middleware, asset serving,
// router fallbacks). Extra headers must be set by the caller beforehand.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	env := ErrorEnvelope{
		Err: ErrorDetail{Code: code, Message: message},
	}
	// Encoding a flat struct cannot fail; the writer may, but there is
	// nothing left to tell the client at this point.
	_ = json.NewEncoder(w).Encode(env)
}

// WriteJSON emits a success payload wrapped in the envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(struct {
		Success bool `json:"success"`
		Data    any  `json:"data"`
	}{Success: true, Data: data})
}
