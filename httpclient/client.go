package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kbukum/inkflow/logger"
	"github.com/kbukum/inkflow/resilience"
)

// Client is a configurable HTTP client with auth, retry and streaming support.
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	config       Config
	log          *logger.Logger
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		// no overall timeout: the context ends a stream
		streamClient: &http.Client{Transport: transport},
		config:       cfg,
		log:          logger.Get(logger.ComponentHTTPClient),
	}, nil
}

// Do executes a request and reads the complete response. Connection
// failures are retried per Config.Retry. A non-2xx status is returned as
// *Error carrying the (capped) body.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	retry := c.config.Retry
	retry.RetryIf = IsTransient
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		c.log.Warn("retrying request", logger.Fields("attempt", attempt, logger.FieldError, err.Error(), "backoff_ms", backoff.Milliseconds()))
	}
	return resilience.Retry(ctx, retry, func() (*Response, error) {
		return c.doOnce(ctx, req)
	})
}

// DoStream sends a request and returns the open body once a 2xx status
// arrives. Streams are never retried.
func (c *Client) DoStream(ctx context.Context, req Request) (*StreamResponse, error) {
	resp, err := c.send(ctx, c.streamClient, req)
	if err != nil {
		return nil, err
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, nil); classErr != nil {
		classErr.Body = c.readErrorBody(resp.Body)
		_ = resp.Body.Close()
		return nil, classErr
	}

	return &StreamResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       resp.Body,
	}, nil
}

func (c *Client) doOnce(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.send(ctx, c.httpClient, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Code:       ErrCodeRead,
			Message:    fmt.Sprintf("read response body: %v", err),
			Err:        err,
		}
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, truncateBody(body, c.config.MaxErrorBody)); classErr != nil {
		return result, classErr
	}
	return result, nil
}

func (c *Client) send(ctx context.Context, hc *http.Client, req Request) (*http.Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	c.log.Debug("response received", logger.MergeWithDuration(logger.Fields(
		"method", httpReq.Method,
		"host", httpReq.URL.Host,
		"path", httpReq.URL.Path,
		logger.FieldStatus, resp.StatusCode,
	), time.Since(start)))
	return resp, nil
}

// transportError classifies a failure that produced no response.
// Cancellation by the caller is returned as the context error itself.
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return NewTimeoutError(err)
		}
		return ctxErr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

// buildRequest constructs an *http.Request from the client config and request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.Path, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// request-level auth overrides client-level
	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

func (c *Client) readErrorBody(r io.Reader) []byte {
	body, _ := io.ReadAll(io.LimitReader(r, c.config.MaxErrorBody))
	return body
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func truncateBody(body []byte, limit int64) []byte {
	if int64(len(body)) <= limit {
		return body
	}
	return body[:limit]
}
