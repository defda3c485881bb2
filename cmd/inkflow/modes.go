package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"

	"github.com/kbukum/inkflow/completion"
	"github.com/kbukum/inkflow/editor"
	"github.com/kbukum/inkflow/errors"
	"github.com/kbukum/inkflow/llm"
	"github.com/kbukum/inkflow/observability"
	"github.com/kbukum/inkflow/util"
)

const scratchSurface editor.SurfaceID = "scratch"

// runOnce generates into path at the start of line (1-based), which must
// be blank, and writes whatever was inserted back to the file.
func (w *wiring) runOnce(ctx context.Context, path string, line int, prompt string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text := string(data)
	offset, err := lineOffset(text, line)
	if err != nil {
		return err
	}

	id := editor.SurfaceID(path)
	w.doc.Open(id, text)
	if err := w.doc.SetCursor(id, offset); err != nil {
		return err
	}
	blank, err := w.doc.CursorOnBlankLine(id)
	if err != nil {
		return err
	}
	if !blank {
		return fmt.Errorf("line %d of %s is not blank", line, path)
	}

	s, err := w.ctrl.StartTemplate(ctx, id, w.template, prompt)
	if err != nil {
		return err
	}
	res, waitErr := s.Wait(context.WithoutCancel(ctx))

	if res.Inserted > 0 {
		out, err := w.doc.Text(id)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return err
		}
	}
	if waitErr != nil {
		return fmt.Errorf("generation failed: %w", waitErr)
	}
	return nil
}

// lineOffset returns the rune offset where the 1-based line starts. A
// negative line addresses the last line.
func lineOffset(text string, line int) (int, error) {
	lines := strings.Split(text, "\n")
	if line < 0 {
		line = len(lines)
	}
	if line < 1 || line > len(lines) {
		return 0, fmt.Errorf("line %d out of range [1,%d]", line, len(lines))
	}
	offset := 0
	for _, l := range lines[:line-1] {
		offset += utf8.RuneCountInString(l) + 1
	}
	return offset, nil
}

// runInteractive treats every non-blank input line as a prompt. A new
// prompt supersedes a running generation; generated text is echoed to out.
func (w *wiring) runInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	w.doc.Open(scratchSurface, "")
	w.doc.OnInsert(func(ev editor.InsertEvent) {
		_, _ = io.WriteString(out, ev.Text)
	})

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if s := w.ctrl.Active(); s != nil {
					_, _ = s.Wait(ctx)
				}
				return <-scanErr
			}
			prompt := strings.TrimSpace(line)
			if prompt == "" {
				continue
			}
			if err := w.newParagraph(scratchSurface); err != nil {
				return err
			}
			if _, err := w.ctrl.StartTemplate(ctx, scratchSurface, w.template, prompt); err != nil {
				fmt.Fprintln(w.notices, completion.FailureMessage(err, false))
			}
		}
	}
}

// newParagraph moves the cursor of a non-empty surface onto a fresh blank
// line so the next generation starts there.
func (w *wiring) newParagraph(id editor.SurfaceID) error {
	blank, err := w.doc.CursorOnBlankLine(id)
	if err != nil || blank {
		return err
	}
	cursor, err := w.doc.Cursor(id)
	if err != nil {
		return err
	}
	return w.doc.Insert(id, cursor, "\n\n")
}

// listProviders prints the provider catalog, marking the selected one.
func listProviders(out io.Writer, settings llm.Settings) {
	selected := color.New(color.FgGreen, color.Bold)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tNAME\tDEFAULT MODEL\tSTREAM\tENDPOINT")
	for _, p := range llm.Providers() {
		marker := " "
		id := p.ID
		if p.ID == settings.Provider {
			marker = "*"
			id = selected.Sprint(p.ID)
		}
		endpoint := settings.EndpointFor(p)
		if endpoint == "" {
			endpoint = "-"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%v\t%s\n", marker, id, p.DisplayName, orDash(p.DefaultModel()), settings.Streaming(p), endpoint)
	}
	_ = tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// checkProviders builds a request for every provider without sending it
// and reports which ones are usable with the current settings. Only the
// selected provider can take the aggregate down.
func checkProviders(settings llm.Settings, service, version string) *observability.ServiceHealth {
	health := observability.NewServiceHealth(service, version)
	for _, p := range llm.Providers() {
		_, err := llm.BuildRequest(settings, p, "ping")
		h := observability.HealthFromError(p.ID, err, p.ID != settings.Provider)
		h.Details = map[string]string{
			"model":  settings.ModelFor(p),
			"family": string(p.Family),
		}
		if key := settings.For(p.ID).APIKey; key != "" {
			h.Details["api_key"] = util.MaskSecret(key, 3)
		}
		if errors.HasCode(err, errors.ErrCodeMissingCredential) {
			h.Details["hint"] = "set AI_PROVIDERS_" + strings.ToUpper(p.ID) + "_API_KEY"
		}
		health.AddComponent(h)
	}
	return health
}

func writeHealth(out io.Writer, health *observability.ServiceHealth) error {
	data, err := json.MarshalIndent(health, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
