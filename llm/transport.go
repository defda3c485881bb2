package llm

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"

	"github.com/kbukum/inkflow/errors"
	"github.com/kbukum/inkflow/httpclient"
	"github.com/kbukum/inkflow/logger"
)

// Transport issues a built Request and returns the raw response body.
type Transport interface {
	Send(ctx context.Context, req Request) (io.ReadCloser, error)
}

// HTTPTransport sends requests through an httpclient.Client. Streaming
// requests return the live body; others are read fully (with retries on
// connection failures) and replayed from memory.
type HTTPTransport struct {
	client *httpclient.Client
	log    *logger.Logger
}

// NewHTTPTransport creates a transport over client.
func NewHTTPTransport(client *httpclient.Client) *HTTPTransport {
	return &HTTPTransport{client: client, log: logger.Get(logger.ComponentLLM)}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, req Request) (io.ReadCloser, error) {
	hreq := httpclient.Request{
		Method:  req.Method,
		Path:    req.URL,
		Headers: req.Headers,
		Body:    req.Body,
	}

	if req.Stream {
		resp, err := t.client.DoStream(ctx, hreq)
		if err != nil {
			return nil, mapTransportError(err)
		}
		t.checkContentType(req, resp)
		return resp.Body, nil
	}

	resp, err := t.client.Do(ctx, hreq)
	if err != nil {
		return nil, mapTransportError(err)
	}
	return io.NopCloser(bytes.NewReader(resp.Body)), nil
}

// checkContentType notes an SSE family answering without text/event-stream.
// Decoding goes ahead: some gateways mislabel streams.
func (t *HTTPTransport) checkContentType(req Request, resp *httpclient.StreamResponse) {
	d, err := DialectFor(req.Family)
	if err != nil || d.Format != StreamSSE || resp.IsEventStream() {
		return
	}
	t.log.Debug("stream response is not text/event-stream", logger.Fields(
		logger.FieldProvider, req.Provider,
		"content_type", resp.Headers["Content-Type"],
	))
}

// mapTransportError converts httpclient classification into AppErrors.
// Context errors pass through untouched.
func mapTransportError(err error) error {
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	var he *httpclient.Error
	if !stderrors.As(err, &he) {
		return errors.ConnectionFailed(err)
	}
	switch status := httpclient.StatusOf(he); {
	case he.Code == httpclient.ErrCodeRead:
		return errors.UnreadableResponse(he)
	case httpclient.IsAuth(he):
		return errors.Unauthorized(status).WithCause(he)
	case status > 0:
		return errors.FromHTTPStatus(status, he.Body).WithCause(he)
	case httpclient.IsTimeout(he):
		return errors.Timeout(he)
	case httpclient.IsConnection(he):
		return errors.ConnectionFailed(he)
	default:
		// a request that could not be built
		return errors.Internal(he)
	}
}
