package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Kind groups error codes by how a generation session treats them.
type Kind string

const (
	// KindConfiguration covers settings problems detected before any request is sent.
	KindConfiguration Kind = "configuration"
	// KindTransport covers failed HTTP calls: non-success status or network failure.
	KindTransport Kind = "transport"
	// KindDecode covers response bodies that could not be read.
	KindDecode Kind = "decode"
	// KindValidation covers invalid input to the controller itself.
	KindValidation Kind = "validation"
	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// Configuration errors
const (
	// ErrCodeUnknownProvider indicates the selected provider id is not in the registry.
	ErrCodeUnknownProvider ErrorCode = "UNKNOWN_PROVIDER"
	// ErrCodeMissingEndpoint indicates neither an override nor a default endpoint exists.
	ErrCodeMissingEndpoint ErrorCode = "MISSING_ENDPOINT"
	// ErrCodeMissingCredential indicates the provider requires an API key and none is set.
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
)

// Transport errors
const (
	// ErrCodeUnauthorized indicates the provider rejected the credential (401/403).
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimited indicates the client is rate limited (429).
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeServerError indicates the provider failed internally (500).
	ErrCodeServerError ErrorCode = "SERVER_ERROR"
	// ErrCodeServiceUnavailable indicates the provider is temporarily unavailable (503).
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeRequestFailed indicates any other non-success status.
	ErrCodeRequestFailed ErrorCode = "REQUEST_FAILED"
	// ErrCodeConnectionFailed indicates the request never produced a response.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Decode errors
const (
	// ErrCodeUnreadableResponse indicates the response body could not be read at all.
	ErrCodeUnreadableResponse ErrorCode = "UNREADABLE_RESPONSE"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeEmptyPrompt indicates the prompt is blank after trimming.
	ErrCodeEmptyPrompt ErrorCode = "EMPTY_PROMPT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var codeKinds = map[ErrorCode]Kind{
	ErrCodeUnknownProvider:    KindConfiguration,
	ErrCodeMissingEndpoint:    KindConfiguration,
	ErrCodeMissingCredential:  KindConfiguration,
	ErrCodeUnauthorized:       KindTransport,
	ErrCodeRateLimited:        KindTransport,
	ErrCodeServerError:        KindTransport,
	ErrCodeServiceUnavailable: KindTransport,
	ErrCodeRequestFailed:      KindTransport,
	ErrCodeConnectionFailed:   KindTransport,
	ErrCodeTimeout:            KindTransport,
	ErrCodeUnreadableResponse: KindDecode,
	ErrCodeInvalidInput:       KindValidation,
	ErrCodeEmptyPrompt:        KindValidation,
	ErrCodeInternal:           KindInternal,
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeRateLimited:        true,
	ErrCodeServerError:        true,
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeTimeout:            true,
}

// KindOfCode returns the kind an error code belongs to.
func KindOfCode(code ErrorCode) Kind {
	if k, ok := codeKinds[code]; ok {
		return k
	}
	return KindInternal
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
