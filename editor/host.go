package editor

import (
	"errors"
	"strings"
)

// SurfaceID identifies one editable surface (a tab or buffer) in the host.
type SurfaceID string

// Host is the editor the completion controller writes into.
type Host interface {
	// ActiveSurface returns the surface that currently has focus.
	ActiveSurface() SurfaceID
	// Cursor returns the caret offset in surface.
	Cursor(surface SurfaceID) (int, error)
	// Insert places text at offset in surface. A zero-length insert is valid
	// and only checks that offset is in range.
	Insert(surface SurfaceID, offset int, text string) error
}

var (
	// ErrUnknownSurface is returned for a surface the host does not know.
	ErrUnknownSurface = errors.New("editor: unknown surface")
	// ErrOffsetOutOfRange is returned for an offset outside the surface text.
	ErrOffsetOutOfRange = errors.New("editor: offset out of range")
)

// IsBlankLine reports whether the line of text containing offset is empty
// after trimming whitespace. offset is a rune offset; out of range offsets
// are clamped.
func IsBlankLine(text string, offset int) bool {
	return strings.TrimSpace(lineAt([]rune(text), offset)) == ""
}

func lineAt(runes []rune, offset int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}
	start := offset
	for start > 0 && runes[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	return string(runes[start:end])
}
