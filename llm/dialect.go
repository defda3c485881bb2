package llm

import (
	"fmt"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/kbukum/inkflow/httpclient"
)

// Dialect is one row of the family table. It holds everything that differs
// between wire shapes so the builder and decoder stay free of per-provider
// branches.
type Dialect struct {
	Family Family
	Format StreamFormat

	// Auth returns the credential scheme for a non-empty key.
	Auth func(key string) *httpclient.AuthConfig

	// Headers are static headers every request of this family carries.
	Headers map[string]string

	// Shape edits the encoded common body for family-specific fields.
	Shape func(body []byte) ([]byte, error)

	// StreamFragment extracts text from one streamed envelope. done ends
	// the sequence after text (if any) is emitted. ok is false when the
	// envelope lacks the field this family carries its text in.
	StreamFragment func(env gjson.Result) (text string, done, ok bool)

	// MessageFragment extracts text from a complete non-streamed body.
	// ok is false when the expected field is absent.
	MessageFragment func(body gjson.Result) (text string, ok bool)
}

// anthropicVersion is the API version header value the messages endpoint expects.
const anthropicVersion = "2023-06-01"

// anthropicMaxTokens is sent on every Anthropic request; the API rejects bodies without it.
const anthropicMaxTokens = 1000

func bearer(key string) *httpclient.AuthConfig { return httpclient.BearerAuth(key) }

func anthropicAuth(key string) *httpclient.AuthConfig {
	return httpclient.APIKeyAuthHeader(key, "x-api-key")
}

func keepShape(body []byte) ([]byte, error) { return body, nil }

func anthropicShape(body []byte) ([]byte, error) {
	return sjson.SetBytes(body, "max_tokens", anthropicMaxTokens)
}

// ollamaShape moves temperature under options, where /api/chat reads it.
func ollamaShape(body []byte) ([]byte, error) {
	t := gjson.GetBytes(body, "temperature")
	if !t.Exists() {
		return body, nil
	}
	body, err := sjson.SetRawBytes(body, "options.temperature", []byte(t.Raw))
	if err != nil {
		return nil, err
	}
	return sjson.DeleteBytes(body, "temperature")
}

func pathFragment(path string) func(gjson.Result) (string, bool) {
	return func(body gjson.Result) (string, bool) {
		r := body.Get(path)
		if !r.Exists() {
			return "", false
		}
		return r.String(), true
	}
}

// openAIDelta reads choices.0.delta. Role-only and finish chunks carry a
// delta without content and yield nothing.
func openAIDelta(env gjson.Result) (string, bool, bool) {
	delta := env.Get("choices.0.delta")
	if !delta.Exists() {
		return "", false, false
	}
	return delta.Get("content").String(), false, true
}

func anthropicDelta(env gjson.Result) (string, bool, bool) {
	switch env.Get("type").String() {
	case "content_block_delta":
		text := env.Get("delta.text")
		return text.String(), false, text.Exists()
	case "message_stop":
		return "", true, true
	default:
		// message_start, ping, content_block_start/stop, message_delta
		return "", false, true
	}
}

func ollamaDelta(env gjson.Result) (string, bool, bool) {
	done := env.Get("done").Bool()
	content := env.Get("message.content")
	if !content.Exists() {
		return "", done, done
	}
	return content.String(), done, true
}

// --- Dialect registry ---

var (
	dialectsMu sync.RWMutex
	dialects   = map[Family]Dialect{}
)

func init() {
	openAILike := Dialect{
		Format:          StreamSSE,
		Auth:            bearer,
		Shape:           keepShape,
		StreamFragment:  openAIDelta,
		MessageFragment: pathFragment("choices.0.message.content"),
	}

	openAI := openAILike
	openAI.Family = FamilyOpenAI
	RegisterDialect(openAI)

	azure := openAILike
	azure.Family = FamilyAzure
	azure.Auth = func(key string) *httpclient.AuthConfig { return httpclient.APIKeyAuthHeader(key, "api-key") }
	RegisterDialect(azure)

	zhipu := openAILike
	zhipu.Family = FamilyZhipu
	zhipu.Auth = httpclient.RawAuth
	RegisterDialect(zhipu)

	RegisterDialect(Dialect{
		Family:          FamilyAnthropic,
		Format:          StreamSSE,
		Auth:            anthropicAuth,
		Headers:         map[string]string{"anthropic-version": anthropicVersion},
		Shape:           anthropicShape,
		StreamFragment:  anthropicDelta,
		MessageFragment: pathFragment("content.0.text"),
	})

	RegisterDialect(Dialect{
		Family:          FamilyOllama,
		Format:          StreamNDJSON,
		Auth:            bearer,
		Shape:           ollamaShape,
		StreamFragment:  ollamaDelta,
		MessageFragment: pathFragment("message.content"),
	})
}

// RegisterDialect adds or replaces the row for d.Family.
func RegisterDialect(d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[d.Family] = d
}

// DialectFor returns the row for family.
func DialectFor(family Family) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[family]
	if !ok {
		return Dialect{}, fmt.Errorf("llm: no dialect for family %q", family)
	}
	return d, nil
}
