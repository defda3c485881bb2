package editor

import (
	"fmt"
	"sync"
)

// InsertEvent describes one applied insertion.
type InsertEvent struct {
	Surface SurfaceID
	Offset  int
	Text    string
}

type surface struct {
	text   []rune
	cursor int
}

// Document is an in-memory Host holding any number of surfaces. It is safe
// for concurrent use.
type Document struct {
	mu       sync.RWMutex
	surfaces map[SurfaceID]*surface
	order    []SurfaceID
	active   SurfaceID
	onInsert func(InsertEvent)
}

var _ Host = (*Document)(nil)

// NewDocument creates an empty document with no surfaces.
func NewDocument() *Document {
	return &Document{surfaces: make(map[SurfaceID]*surface)}
}

// Open adds (or replaces) a surface with the given text and the cursor at
// the end. The first opened surface becomes active.
func (d *Document) Open(id SurfaceID, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runes := []rune(text)
	if _, exists := d.surfaces[id]; !exists {
		d.order = append(d.order, id)
	}
	d.surfaces[id] = &surface{text: runes, cursor: len(runes)}
	if d.active == "" {
		d.active = id
	}
}

// Activate gives focus to id.
func (d *Document) Activate(id SurfaceID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.surfaces[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSurface, id)
	}
	d.active = id
	return nil
}

// Surfaces lists surface ids in the order they were opened.
func (d *Document) Surfaces() []SurfaceID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]SurfaceID(nil), d.order...)
}

// OnInsert registers fn to be called after each successful non-empty
// insertion. fn runs without the document lock held.
func (d *Document) OnInsert(fn func(InsertEvent)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onInsert = fn
}

// ActiveSurface implements Host.
func (d *Document) ActiveSurface() SurfaceID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// Cursor implements Host.
func (d *Document) Cursor(id SurfaceID) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, err := d.lookup(id)
	if err != nil {
		return 0, err
	}
	return s.cursor, nil
}

// SetCursor moves the caret of id to offset.
func (d *Document) SetCursor(id SurfaceID, offset int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	if offset < 0 || offset > len(s.text) {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrOffsetOutOfRange, offset, len(s.text))
	}
	s.cursor = offset
	return nil
}

// Insert implements Host. A caret at or after offset moves with the text.
func (d *Document) Insert(id SurfaceID, offset int, text string) error {
	d.mu.Lock()
	s, err := d.lookup(id)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	if offset < 0 || offset > len(s.text) {
		d.mu.Unlock()
		return fmt.Errorf("%w: %d not in [0,%d]", ErrOffsetOutOfRange, offset, len(s.text))
	}

	ins := []rune(text)
	if len(ins) == 0 {
		d.mu.Unlock()
		return nil
	}
	grown := make([]rune, 0, len(s.text)+len(ins))
	grown = append(grown, s.text[:offset]...)
	grown = append(grown, ins...)
	grown = append(grown, s.text[offset:]...)
	s.text = grown
	if s.cursor >= offset {
		s.cursor += len(ins)
	}
	hook := d.onInsert
	d.mu.Unlock()

	if hook != nil {
		hook(InsertEvent{Surface: id, Offset: offset, Text: text})
	}
	return nil
}

// Text returns the full text of id.
func (d *Document) Text(id SurfaceID) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, err := d.lookup(id)
	if err != nil {
		return "", err
	}
	return string(s.text), nil
}

// CursorOnBlankLine reports whether the caret of id sits on a blank line,
// the precondition for starting a completion.
func (d *Document) CursorOnBlankLine(id SurfaceID) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, err := d.lookup(id)
	if err != nil {
		return false, err
	}
	return IsBlankLine(string(s.text), s.cursor), nil
}

func (d *Document) lookup(id SurfaceID) (*surface, error) {
	s, ok := d.surfaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSurface, id)
	}
	return s, nil
}
