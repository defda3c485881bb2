package completion

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/kbukum/inkflow/editor"
	"github.com/kbukum/inkflow/errors"
	"github.com/kbukum/inkflow/llm"
	"github.com/kbukum/inkflow/logger"
	"github.com/kbukum/inkflow/observability"
)

// Backend builds and opens provider calls. *llm.Client implements it.
type Backend interface {
	Prepare(s llm.Settings, prompt string) (llm.Request, error)
	Open(ctx context.Context, req llm.Request) (llm.FragmentStream, error)
}

var _ Backend = (*llm.Client)(nil)

// SettingsFunc returns the current settings snapshot. It is called once
// per session, when the request is built.
type SettingsFunc func() llm.Settings

// Controller runs generation sessions against a host, keeping at most one
// active. Starting a session cancels the previous one first.
type Controller struct {
	host     editor.Host
	backend  Backend
	settings SettingsFunc
	applier  *Applier
	notifier Notifier
	listener Listener
	metrics  *observability.Metrics
	log      *logger.Logger

	// applyMu serializes insertions with the cancels issued by Start and
	// Cancel, so a cancelled session never inserts once those return.
	applyMu sync.Mutex

	mu     sync.Mutex
	active *Session
	wg     sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the user notice sink.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithListener sets the transition observer.
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

// WithMetrics enables session metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithLogger overrides the component logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController creates a controller inserting into host.
func NewController(host editor.Host, backend Backend, settings SettingsFunc, opts ...Option) *Controller {
	c := &Controller{
		host:     host,
		backend:  backend,
		settings: settings,
		applier:  NewApplier(host),
		notifier: nopNotifier{},
		log:      logger.Get(logger.ComponentCompletion),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a session writing into surface at its current cursor. A
// blank prompt is rejected with EMPTY_PROMPT and no session is created.
// The session runs until ctx is done, it is cancelled or superseded, or it
// reaches a terminal state on its own.
func (c *Controller) Start(ctx context.Context, surface editor.SurfaceID, prompt string) (*Session, error) {
	return c.StartTemplate(ctx, surface, TemplateNone, prompt)
}

// StartTemplate is Start with tmpl applied to the prompt. The blank check
// looks at the user's prompt, not the templated one.
func (c *Controller) StartTemplate(ctx context.Context, surface editor.SurfaceID, tmpl Template, prompt string) (*Session, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.EmptyPrompt()
	}
	prompt = tmpl.Apply(prompt)

	// The cursor is read under applyMu: the session being superseded cannot
	// insert between the read and its cancellation, so the anchor is exact.
	c.applyMu.Lock()
	anchor, err := c.host.Cursor(surface)
	if err != nil {
		c.applyMu.Unlock()
		return nil, errors.Validation("cannot read cursor position").WithCause(err)
	}

	s := newSession(surface, prompt, anchor)
	sctx, cancel := context.WithCancelCause(ctx)
	s.cancel = cancel

	c.mu.Lock()
	prev := c.active
	c.active = s
	c.mu.Unlock()
	if prev != nil && prev.cancelWith(errSuperseded) {
		c.log.Info("session superseded", logger.Fields(logger.FieldSessionID, prev.id, "by", s.id))
	}
	c.applyMu.Unlock()

	c.log.Info("session started", logger.Fields(
		logger.FieldSessionID, s.id,
		"surface", string(surface),
		"anchor", anchor,
		"template", string(tmpl),
	))
	c.transition(s, Building)
	c.notifier.Progress(s.id, ProgressMessage)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(sctx, s)
	}()
	return s, nil
}

// Cancel stops the active session. It reports whether a session was cancelled.
func (c *Controller) Cancel() bool {
	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	c.mu.Lock()
	s := c.active
	c.mu.Unlock()
	if s == nil {
		return false
	}
	return s.cancelWith(errUserCancelled)
}

// Active returns the running session, or nil.
func (c *Controller) Active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Shutdown cancels the active session and waits for every session
// goroutine to return.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.Cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) run(ctx context.Context, s *Session) {
	sc := observability.NewSessionContext(s.id, c.metrics)
	ctx = sc.Start(logger.ContextWithSession(ctx, s.id))

	req, err := c.backend.Prepare(c.settings(), s.prompt)
	if err != nil {
		c.end(ctx, s, sc, Failed, "", err)
		return
	}
	s.streaming = req.Stream
	sc.SetRequest(req.Provider, req.Model, req.Stream)

	if ctx.Err() != nil {
		c.end(ctx, s, sc, Cancelled, cancelReason(ctx), nil)
		return
	}

	c.transition(s, Streaming)
	stream, err := c.backend.Open(ctx, req)
	if err != nil {
		state, reason, err := classify(ctx, err)
		c.end(ctx, s, sc, state, reason, err)
		return
	}

	state, reason, err := c.consume(ctx, s, sc, stream)
	if closeErr := stream.Close(); closeErr != nil {
		c.log.WithContext(ctx).Debug("closing response body", logger.ErrorFields("close", closeErr))
	}
	c.end(ctx, s, sc, state, reason, err)
}

// consume applies fragments in decode order until the stream ends.
func (c *Controller) consume(ctx context.Context, s *Session, sc *observability.SessionContext, stream llm.FragmentStream) (State, string, error) {
	for {
		f, ok, err := stream.Next(ctx)
		if err != nil {
			return classify(ctx, err)
		}
		if !ok {
			return Completed, "", nil
		}

		c.applyMu.Lock()
		if ctx.Err() != nil {
			c.applyMu.Unlock()
			return Cancelled, cancelReason(ctx), nil
		}
		err = c.applier.Apply(s, f)
		c.applyMu.Unlock()

		switch {
		case stderrors.Is(err, ErrSurfaceDiverged):
			return Cancelled, ReasonSurfaceChanged, nil
		case err != nil:
			return Failed, "", errors.Internal(err)
		}
		sc.RecordFragment(ctx, utf8.RuneCountInString(f.Text))
	}
}

// classify turns an error into a terminal state. Any error seen after the
// token fired is a cancellation.
func classify(ctx context.Context, err error) (State, string, error) {
	if ctx.Err() != nil {
		return Cancelled, cancelReason(ctx), nil
	}
	return Failed, "", err
}

func (c *Controller) transition(s *Session, to State) bool {
	from, ok := s.setState(to)
	if !ok {
		return false
	}
	c.log.Debug("session transition", logger.Fields(
		logger.FieldSessionID, s.id,
		"from", from.String(),
		logger.FieldState, to.String(),
	))
	if c.listener != nil {
		c.listener.OnTransition(s.id, from, to)
	}
	return true
}

func (c *Controller) end(ctx context.Context, s *Session, sc *observability.SessionContext, state State, reason string, err error) {
	if !c.transition(s, state) {
		return
	}

	res := Result{
		SessionID: s.id,
		State:     state,
		Reason:    reason,
		Err:       err,
		Text:      s.text.String(),
		Inserted:  s.inserted,
		Fragments: s.fragments,
		Duration:  time.Since(s.started),
	}

	var kind, code string
	switch state {
	case Completed:
		c.notifier.Success(s.id)
	case Failed:
		res.Message = FailureMessage(err, s.streaming)
		c.notifier.Failure(s.id, res.Message)
		kind = string(errors.KindOf(err))
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
	default:
		c.notifier.Dismiss(s.id)
	}

	sc.End(context.WithoutCancel(ctx), state.String(), reason, kind, code, err)
	c.logEnd(ctx, res)

	// release the token
	s.cancel(nil)

	c.mu.Lock()
	if c.active == s {
		c.active = nil
	}
	c.mu.Unlock()
	s.finish(res)
}

func (c *Controller) logEnd(ctx context.Context, res Result) {
	fields := logger.MergeWithDuration(logger.Fields(
		logger.FieldState, res.State.String(),
		logger.FieldInserted, res.Inserted,
		logger.FieldFragments, res.Fragments,
	), res.Duration)

	log := c.log.WithContext(ctx)
	switch res.State {
	case Failed:
		log.WithError(res.Err).Warn("session failed", fields)
	case Cancelled:
		fields[logger.FieldReason] = res.Reason
		log.Info("session cancelled", fields)
	default:
		log.Info("session completed", fields)
	}
}
