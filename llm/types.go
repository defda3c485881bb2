package llm

// Family groups providers that share one wire shape: auth headers, body
// layout and response envelopes.
type Family string

const (
	FamilyOpenAI    Family = "openai"
	FamilyAnthropic Family = "anthropic"
	FamilyAzure     Family = "azure"
	FamilyZhipu     Family = "zhipu"
	FamilyOllama    Family = "ollama"
)

// StreamFormat indicates how a family frames a streamed body.
type StreamFormat int

const (
	// StreamSSE uses "data: <json>" lines.
	StreamSSE StreamFormat = iota
	// StreamNDJSON uses one bare JSON object per line.
	StreamNDJSON
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Fragment is one non-empty piece of generated text, ready for insertion.
type Fragment struct {
	Text string
}

// Request is a transport-ready provider call. Headers carry credentials, so
// a Request must never be logged whole.
type Request struct {
	Method   string
	URL      string
	Headers  map[string]string
	Body     []byte
	Stream   bool
	Provider string
	Family   Family
	Model    string
}

// chatBody is the JSON request body shared by all families. Dialects edit
// the encoded form.
type chatBody struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature *float64  `json:"temperature,omitempty"`
}
