package llm

import (
	"context"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/inkflow/logger"
	"github.com/kbukum/inkflow/observability"
)

// Client resolves settings against the registry, builds the provider call
// and opens a fragment stream over the response.
type Client struct {
	transport Transport
	log       *logger.Logger
}

// NewClient creates a client that sends through transport.
func NewClient(transport Transport) *Client {
	return &Client{transport: transport, log: logger.Get(logger.ComponentLLM)}
}

// Prepare builds the request for the selected provider. It performs no I/O.
func (c *Client) Prepare(s Settings, prompt string) (Request, error) {
	p, err := Lookup(s.Provider)
	if err != nil {
		return Request{}, err
	}
	req, err := BuildRequest(s, p, prompt)
	if err != nil {
		return Request{}, err
	}

	c.log.Debug("request built", logger.Fields(
		logger.FieldProvider, req.Provider,
		logger.FieldModel, req.Model,
		logger.FieldFamily, string(req.Family),
		logger.FieldStream, req.Stream,
		"host", hostOf(req.URL),
	))
	return req, nil
}

// Open sends req and returns a decoder over the response. The caller must
// Close the stream. The request span ends once the response headers arrive.
func (c *Client) Open(ctx context.Context, req Request) (FragmentStream, error) {
	d, err := DialectFor(req.Family)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanRequest, trace.WithAttributes(
		attribute.String(observability.AttrProvider, req.Provider),
		attribute.String(observability.AttrModel, req.Model),
		attribute.Bool(observability.AttrStream, req.Stream),
		attribute.String(observability.AttrHost, hostOf(req.URL)),
	))
	defer span.End()

	body, err := c.transport.Send(ctx, req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	return NewFragments(body, d, req.Stream), nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
