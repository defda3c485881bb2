// Package errors defines the error taxonomy of a generation session.
// Every failure that reaches the user is an AppError carrying a code, a kind
// (configuration, transport, decode) and the message shown in the notification.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/inkflow/util"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Kind is derived from Code.
	Kind Kind `json:"kind"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the provider's status code, 0 when no response was received.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// IsRetryable reports whether the failed operation may be attempted again.
func (e *AppError) IsRetryable() bool { return e.Retryable }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with kind and retryable derived from the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Kind:       KindOfCode(code),
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Configuration ---

// UnknownProvider reports a provider id missing from the registry.
func UnknownProvider(id string) *AppError {
	return New(ErrCodeUnknownProvider, "AI provider not found", 0).WithDetail("provider", id)
}

// MissingEndpoint reports a provider with neither a custom nor a default endpoint.
func MissingEndpoint(provider string) *AppError {
	return New(ErrCodeMissingEndpoint, "API endpoint not set", 0).WithDetail("provider", provider)
}

// MissingCredential reports a provider that requires an API key with none configured.
func MissingCredential(provider string) *AppError {
	return New(ErrCodeMissingCredential, "API key not set", 0).WithDetail("provider", provider)
}

// --- Transport ---

// Unauthorized creates an error for a rejected credential.
func Unauthorized(status int) *AppError {
	return New(ErrCodeUnauthorized, "Invalid API Key", status)
}

// RateLimited creates an error for too many requests.
func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests, please try again later", http.StatusTooManyRequests)
}

// ServerError creates an error for a provider-side failure.
func ServerError(status int) *AppError {
	return New(ErrCodeServerError, "Server error, please try again later", status)
}

// ServiceUnavailable creates an error for a temporarily unavailable provider.
func ServiceUnavailable() *AppError {
	return New(ErrCodeServiceUnavailable, "Service temporarily unavailable", http.StatusServiceUnavailable)
}

// RequestFailed creates the fallback error for any other status, carrying the raw status and text.
func RequestFailed(status int, text string) *AppError {
	msg := fmt.Sprintf("Request failed: HTTP %d", status)
	if t := strings.TrimSpace(text); t != "" {
		msg += " " + t
	}
	return New(ErrCodeRequestFailed, msg, status)
}

// ConnectionFailed creates an error for a request that never got a response.
func ConnectionFailed(cause error) *AppError {
	return New(ErrCodeConnectionFailed, "Network error", 0).WithCause(cause)
}

// Timeout creates an error for a request that timed out.
func Timeout(cause error) *AppError {
	return New(ErrCodeTimeout, "The request took too long. Please try again.", http.StatusGatewayTimeout).WithCause(cause)
}

// maxBodyText caps, in runes, the provider body quoted in a notice.
const maxBodyText = 200

// FromHTTPStatus maps a non-success status to the fixed transport messages.
// body is the provider's response body, used only by the fallback.
func FromHTTPStatus(status int, body []byte) *AppError {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return Unauthorized(status)
	case http.StatusTooManyRequests:
		return RateLimited()
	case http.StatusInternalServerError:
		return ServerError(status)
	case http.StatusServiceUnavailable:
		return ServiceUnavailable()
	default:
		text := http.StatusText(status)
		if len(body) > 0 {
			text = util.Truncate(strings.TrimSpace(string(body)), maxBodyText)
		}
		return RequestFailed(status, text)
	}
}

// --- Decode ---

// UnreadableResponse creates an error for a response body that could not be read.
func UnreadableResponse(cause error) *AppError {
	return New(ErrCodeUnreadableResponse, "Failed to read the AI response", 0).WithCause(cause)
}

// --- Validation / internal ---

// EmptyPrompt creates an error for a blank prompt.
func EmptyPrompt() *AppError {
	return New(ErrCodeEmptyPrompt, "Prompt must not be empty", http.StatusBadRequest)
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "Unknown error", http.StatusInternalServerError).WithCause(cause)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
