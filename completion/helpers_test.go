package completion

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/inkflow/editor"
	"github.com/kbukum/inkflow/httpclient"
	"github.com/kbukum/inkflow/llm"
	"github.com/kbukum/inkflow/logger"
	"github.com/kbukum/inkflow/resilience"
)

type notice struct {
	kind    string
	session string
	message string
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (n *recordingNotifier) add(kind, id, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{kind, id, msg})
}

func (n *recordingNotifier) Progress(id, msg string) { n.add("progress", id, msg) }
func (n *recordingNotifier) Success(id string)       { n.add("success", id, "") }
func (n *recordingNotifier) Failure(id, msg string)  { n.add("failure", id, msg) }
func (n *recordingNotifier) Dismiss(id string)       { n.add("dismiss", id, "") }

func (n *recordingNotifier) forSession(id string) []notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notice
	for _, x := range n.notices {
		if x.session == id {
			out = append(out, x)
		}
	}
	return out
}

type transition struct{ from, to State }

type recordingListener struct {
	mu   sync.Mutex
	seen map[string][]transition
}

func newRecordingListener() *recordingListener {
	return &recordingListener{seen: make(map[string][]transition)}
}

func (l *recordingListener) OnTransition(id string, from, to State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[id] = append(l.seen[id], transition{from, to})
}

func (l *recordingListener) path(id string) []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []State
	for _, tr := range l.seen[id] {
		out = append(out, tr.to)
	}
	return out
}

func (l *recordingListener) count(id string, to State) int {
	n := 0
	for _, s := range l.path(id) {
		if s == to {
			n++
		}
	}
	return n
}

// scriptedBackend hands out one opener per Open call, in order.
type scriptedBackend struct {
	mu      sync.Mutex
	openers []func(ctx context.Context) (llm.FragmentStream, error)
	stream  bool
	prompts []string
}

func (b *scriptedBackend) Prepare(s llm.Settings, prompt string) (llm.Request, error) {
	b.mu.Lock()
	b.prompts = append(b.prompts, prompt)
	b.mu.Unlock()
	return llm.Request{Provider: "fake", Family: llm.FamilyOpenAI, Stream: b.stream}, nil
}

func (b *scriptedBackend) Open(ctx context.Context, _ llm.Request) (llm.FragmentStream, error) {
	b.mu.Lock()
	open := b.openers[0]
	b.openers = b.openers[1:]
	b.mu.Unlock()
	return open(ctx)
}

// blockUntilCancelled models a transport call that never answers.
func blockUntilCancelled(ctx context.Context) (llm.FragmentStream, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// sliceStream yields fixed fragments and honours cancellation.
type sliceStream struct {
	texts  []string
	closed bool
}

func (s *sliceStream) Next(ctx context.Context) (llm.Fragment, bool, error) {
	if err := ctx.Err(); err != nil {
		return llm.Fragment{}, false, err
	}
	if len(s.texts) == 0 {
		return llm.Fragment{}, false, nil
	}
	t := s.texts[0]
	s.texts = s.texts[1:]
	return llm.Fragment{Text: t}, true, nil
}

func (s *sliceStream) Close() error { s.closed = true; return nil }

func httpBackend(t *testing.T) *llm.Client {
	t.Helper()
	c, err := httpclient.New(httpclient.Config{Retry: resilience.RetryConfig{MaxAttempts: 1}})
	if err != nil {
		t.Fatal(err)
	}
	return llm.NewClient(llm.NewHTTPTransport(c))
}

func openAISettings(endpoint string, stream bool) SettingsFunc {
	return func() llm.Settings {
		return llm.Settings{
			Provider: "openai",
			Providers: map[string]llm.ProviderSettings{
				"openai": {APIKey: "sk-test", Endpoint: endpoint, Stream: &stream},
			},
		}
	}
}

type fixture struct {
	doc      *editor.Document
	notifier *recordingNotifier
	listener *recordingListener
	ctrl     *Controller

	mu      sync.Mutex
	inserts []editor.InsertEvent
}

func newFixture(t *testing.T, backend Backend, settings SettingsFunc) *fixture {
	t.Helper()
	f := &fixture{
		doc:      editor.NewDocument(),
		notifier: &recordingNotifier{},
		listener: newRecordingListener(),
	}
	f.doc.Open("notes.md", "# Colors\n\n")
	f.doc.Open("other.md", "")
	f.doc.OnInsert(func(ev editor.InsertEvent) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.inserts = append(f.inserts, ev)
	})
	f.ctrl = NewController(f.doc, backend, settings,
		WithNotifier(f.notifier),
		WithListener(f.listener),
		WithLogger(logger.NewNop()),
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = f.ctrl.Shutdown(ctx)
	})
	return f
}

func (f *fixture) insertEvents() []editor.InsertEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]editor.InsertEvent(nil), f.inserts...)
}

func wait(t *testing.T, s *Session) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.Wait(ctx)
	if ctx.Err() != nil {
		t.Fatalf("session %s did not finish: %v", s.ID(), err)
	}
	return res
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}

