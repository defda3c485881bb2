// Package resilience retries failed operations with exponential backoff.
//
// The HTTP client uses it for non-streaming provider calls only: a stream
// that already delivered text to the document is never replayed.
//
//	resp, err := resilience.Retry(ctx, cfg, func() (*Response, error) {
//	    return send(ctx, req)
//	})
package resilience
