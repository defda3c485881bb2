package httpclient

import (
	"io"
	"net/http"
	"strings"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is the absolute request URL.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Body accepts io.Reader, []byte, string, or any value to JSON-encode.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of a non-streaming request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StreamResponse is an open 2xx response whose body has not been read.
// The caller must Close it.
type StreamResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       io.ReadCloser
}

// IsEventStream reports whether the server declared text/event-stream.
func (r *StreamResponse) IsEventStream() bool {
	return strings.Contains(r.Headers["Content-Type"], "text/event-stream")
}

// Close releases the connection.
func (r *StreamResponse) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
