package completion

import (
	stderrors "errors"
	"unicode/utf8"

	"github.com/kbukum/inkflow/editor"
	"github.com/kbukum/inkflow/llm"
)

// ErrSurfaceDiverged is returned when the active surface is no longer the
// session's target. It ends the session silently.
var ErrSurfaceDiverged = stderrors.New("completion: active surface changed")

// Applier inserts decoded fragments at a session's advancing anchor.
type Applier struct {
	host editor.Host
}

// NewApplier creates an applier writing into host.
func NewApplier(host editor.Host) *Applier {
	return &Applier{host: host}
}

// Apply inserts f for s. The first call of a session performs a zero-length
// insertion at the original anchor. The anchor advances by the rune length
// of f only after the host accepted the insertion.
//
// Apply must not run concurrently for the same session.
func (a *Applier) Apply(s *Session, f llm.Fragment) error {
	if a.host.ActiveSurface() != s.target {
		return ErrSurfaceDiverged
	}

	if !s.primed {
		if err := a.host.Insert(s.target, s.anchor, ""); err != nil {
			return err
		}
		s.primed = true
	}

	if err := a.host.Insert(s.target, s.anchor, f.Text); err != nil {
		return err
	}

	n := utf8.RuneCountInString(f.Text)
	s.anchor += n
	s.inserted += n
	s.fragments++
	s.text.WriteString(f.Text)
	return nil
}
