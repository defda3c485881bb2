// Package sse frames Server-Sent Event and NDJSON bodies into lines.
//
// Bodies arrive in arbitrary chunks: a line may be split across reads and a
// read may carry many lines. LineBuffer keeps the partial tail between
// chunks so the sequence of complete lines never depends on how the
// transport chunked the body.
package sse

import (
	"bytes"
	"strings"
)

// LineBuffer is the framing state machine: bytes in, complete lines out.
// It is not safe for concurrent use.
type LineBuffer struct {
	pending []byte
}

// Feed appends chunk and returns every line it completed, with the trailing
// "\n" and an optional "\r" removed. Bytes after the last newline are kept
// for the next call.
func (b *LineBuffer) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}
	b.pending = append(b.pending, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(b.pending, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(bytes.TrimSuffix(b.pending[:i], []byte{'\r'})))
		b.pending = b.pending[i+1:]
	}

	// drop the consumed prefix so the backing array does not grow forever
	if len(b.pending) == 0 {
		b.pending = nil
	} else if len(lines) > 0 {
		b.pending = append([]byte(nil), b.pending...)
	}
	return lines
}

// Flush returns the unterminated remainder at end of stream. ok is false
// when nothing is buffered. The buffer is empty afterwards.
func (b *LineBuffer) Flush() (string, bool) {
	if len(b.pending) == 0 {
		return "", false
	}
	line := string(bytes.TrimSuffix(b.pending, []byte{'\r'}))
	b.pending = nil
	return line, true
}

// Pending reports how many bytes are waiting for a newline.
func (b *LineBuffer) Pending() int { return len(b.pending) }

// Field names recognised by ParseLine.
const (
	FieldData  = "data"
	FieldEvent = "event"
	FieldID    = "id"
	FieldRetry = "retry"
)

// ParseLine splits an SSE line into field and value. Comment lines (leading
// ':') return ok=false. A line without a known field name is returned whole
// as data so NDJSON bodies pass through unchanged.
func ParseLine(line string) (field, value string, ok bool) {
	if strings.HasPrefix(line, ":") {
		return "", "", false
	}
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return FieldData, line, true
	}
	switch name := line[:idx]; name {
	case FieldData, FieldEvent, FieldID, FieldRetry:
		value = line[idx+1:]
		// single leading space after the colon is not part of the value
		if value != "" && value[0] == ' ' {
			value = value[1:]
		}
		return name, value, true
	default:
		return FieldData, line, true
	}
}
