package main

import (
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/kbukum/inkflow/completion"
)

// terminalNotifier prints session notices to the terminal. Dismiss is
// silent: a cancelled generation needs no message.
type terminalNotifier struct {
	mu       sync.Mutex
	out      io.Writer
	progress *color.Color
	success  *color.Color
	failure  *color.Color
}

var _ completion.Notifier = (*terminalNotifier)(nil)

func newTerminalNotifier(out io.Writer, noColor bool) *terminalNotifier {
	n := &terminalNotifier{
		out:      out,
		progress: color.New(color.FgYellow),
		success:  color.New(color.FgGreen),
		failure:  color.New(color.FgRed, color.Bold),
	}
	if noColor {
		n.progress.DisableColor()
		n.success.DisableColor()
		n.failure.DisableColor()
	}
	return n
}

func (n *terminalNotifier) Progress(_, message string) {
	n.print(n.progress, "… "+message)
}

func (n *terminalNotifier) Success(string) {
	n.print(n.success, "✓ done")
}

func (n *terminalNotifier) Failure(_, message string) {
	n.print(n.failure, "✗ "+message)
}

func (n *terminalNotifier) Dismiss(string) {}

func (n *terminalNotifier) print(c *color.Color, line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = c.Fprintln(n.out, line)
}
