package llm

import (
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/kbukum/inkflow/errors"
)

// BuildRequest turns settings and a prompt into a provider call for p.
// The prompt must already be non-blank; callers reject empty prompts.
func BuildRequest(s Settings, p ProviderConfig, prompt string) (Request, error) {
	d, err := DialectFor(p.Family)
	if err != nil {
		return Request{}, errors.Internal(err)
	}

	endpoint := s.EndpointFor(p)
	if endpoint == "" {
		return Request{}, errors.MissingEndpoint(p.ID)
	}

	key := strings.TrimSpace(s.For(p.ID).APIKey)
	if key == "" && p.RequiresKey {
		return Request{}, errors.MissingCredential(p.ID)
	}

	body := chatBody{
		Model:       s.ModelFor(p),
		Messages:    []Message{{Role: "user", Content: prompt}},
		Stream:      s.Streaming(p),
		Temperature: s.For(p.ID).Temperature,
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return Request{}, errors.Internal(err)
	}
	if encoded, err = d.Shape(encoded); err != nil {
		return Request{}, errors.Internal(err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range d.Headers {
		headers[k] = v
	}
	if key != "" {
		for k, v := range d.Auth(key).Headers() {
			headers[k] = v
		}
	}

	return Request{
		Method:   http.MethodPost,
		URL:      endpoint,
		Headers:  headers,
		Body:     encoded,
		Stream:   body.Stream,
		Provider: p.ID,
		Family:   p.Family,
		Model:    body.Model,
	}, nil
}
