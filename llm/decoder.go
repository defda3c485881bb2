package llm

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"strings"
	"sync"
	"syscall"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/kbukum/inkflow/errors"
	"github.com/kbukum/inkflow/httpclient/sse"
	"github.com/kbukum/inkflow/logger"
	"github.com/kbukum/inkflow/util"
)

const (
	doneSentinel = "[DONE]"
	readSize     = 4096
)

// FragmentStream is a lazy, finite, single-use sequence of fragments.
type FragmentStream interface {
	// Next returns the next fragment. ok is false once the sequence ends.
	Next(ctx context.Context) (f Fragment, ok bool, err error)
	Close() error
}

// Fragments decodes a provider response body into text fragments.
//
// In streaming mode the body is read in chunks as they arrive; complete
// lines are parsed and malformed ones skipped. Otherwise the body is read
// once and yields at most one fragment.
type Fragments struct {
	body      io.ReadCloser
	dialect   Dialect
	streaming bool
	log       *logger.Logger

	lines   sse.LineBuffer
	chunk   []byte
	queue   []Fragment
	done    bool
	skipped int

	closeOnce sync.Once
	closeErr  error
}

var _ FragmentStream = (*Fragments)(nil)

// NewFragments wraps body. The decoder owns body and closes it on Close.
func NewFragments(body io.ReadCloser, d Dialect, streaming bool) *Fragments {
	return &Fragments{
		body:      body,
		dialect:   d,
		streaming: streaming,
		log:       logger.Get(logger.ComponentLLM),
		chunk:     make([]byte, readSize),
	}
}

// Next implements FragmentStream. Cancellation is observed between reads.
// A dropped connection ends the sequence with CONNECTION_FAILED, any other
// read failure with UNREADABLE_RESPONSE.
func (f *Fragments) Next(ctx context.Context) (Fragment, bool, error) {
	for {
		if len(f.queue) > 0 {
			next := f.queue[0]
			f.queue = f.queue[1:]
			return next, true, nil
		}
		if f.done {
			return Fragment{}, false, nil
		}
		if err := ctx.Err(); err != nil {
			return Fragment{}, false, err
		}

		if !f.streaming {
			if err := f.readWhole(ctx); err != nil {
				return Fragment{}, false, err
			}
			continue
		}
		if err := f.readChunk(ctx); err != nil {
			return Fragment{}, false, err
		}
	}
}

// Skipped returns how many malformed lines were dropped so far.
func (f *Fragments) Skipped() int { return f.skipped }

// Close releases the body. It is safe to call more than once.
func (f *Fragments) Close() error {
	f.closeOnce.Do(func() {
		f.done = true
		f.queue = nil
		if f.body != nil {
			f.closeErr = f.body.Close()
		}
	})
	return f.closeErr
}

func (f *Fragments) readWhole(ctx context.Context) error {
	f.done = true
	data, err := io.ReadAll(f.body)
	if err != nil {
		return readError(ctx, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil
	}
	if gjson.Valid(text) {
		if content, ok := f.dialect.MessageFragment(gjson.Parse(text)); ok {
			f.push(content)
			return nil
		}
	}
	// not the expected envelope: the body itself is the answer
	f.push(text)
	return nil
}

func (f *Fragments) readChunk(ctx context.Context) error {
	n, err := f.body.Read(f.chunk)
	if n > 0 {
		for _, line := range f.lines.Feed(f.chunk[:n]) {
			if f.handleLine(line) {
				return nil
			}
		}
	}

	switch {
	case err == nil:
		return nil
	case err == io.EOF:
		if tail, ok := f.lines.Flush(); ok {
			f.handleLine(tail)
		}
		f.done = true
		return nil
	default:
		return readError(ctx, err)
	}
}

// handleLine parses one complete line and reports whether the sequence ended.
func (f *Fragments) handleLine(line string) bool {
	field, value, ok := sse.ParseLine(line)
	if !ok || field != sse.FieldData {
		return false
	}
	payload := strings.TrimSpace(value)
	switch {
	case payload == "":
		return false
	case payload == doneSentinel:
		f.done = true
		return true
	case !utf8.ValidString(payload):
		f.skip("invalid encoding", strings.ToValidUTF8(payload, "?"))
		return false
	case !gjson.Valid(payload):
		f.skip("invalid json", payload)
		return false
	}

	text, end, ok := f.dialect.StreamFragment(gjson.Parse(payload))
	if !ok {
		f.skip("missing field", payload)
		return false
	}
	f.push(text)
	if end {
		f.done = true
	}
	return end
}

func (f *Fragments) push(text string) {
	if text != "" {
		f.queue = append(f.queue, Fragment{Text: text})
	}
}

func (f *Fragments) skip(reason, payload string) {
	f.skipped++
	f.log.Debug("skipping stream line", logger.Fields(
		logger.FieldReason, reason,
		logger.FieldFamily, string(f.dialect.Family),
		"line", util.Truncate(payload, 120),
	))
}

// readError maps a body read failure. A connection lost mid-body is a
// network failure like one before the headers; anything else means the body
// itself could not be read.
func readError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Timeout(err)
	}
	if connectionLost(err) {
		return errors.ConnectionFailed(err)
	}
	return errors.UnreadableResponse(err)
}

func connectionLost(err error) bool {
	var netErr net.Error
	return stderrors.Is(err, io.ErrUnexpectedEOF) ||
		stderrors.Is(err, syscall.ECONNRESET) ||
		stderrors.Is(err, syscall.EPIPE) ||
		stderrors.Is(err, net.ErrClosed) ||
		stderrors.As(err, &netErr)
}
