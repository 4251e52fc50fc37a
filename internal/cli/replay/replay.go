// Package replay feeds recorded inbound messages through a headless window
// and reports the reply statements the host injected for each.
package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/WilliamVenner/wry/internal/app"
	"github.com/WilliamVenner/wry/internal/cli/output"
	"github.com/WilliamVenner/wry/internal/engine/headless"
)

// Report is the outcome of a session.
type Report struct {
	Replies []output.Reply
	State   headless.WindowState
}

type line struct {
	n    int
	text string
}

// readLines returns the non-blank lines of r with their line numbers. Lines
// starting with # are comments.
func readLines(r io.Reader) ([]line, error) {
	var lines []line
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, line{n: n, text: text})
	}
	return lines, sc.Err()
}

// Run opens cfg in a headless application, posts every message as page
// script would and closes the window again.
func Run(ctx context.Context, cfg app.WindowConfig, opts app.Options, r io.Reader) (*Report, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eng := headless.New()
	a := app.New(eng, opts)
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	proxy := a.Proxy()
	id, err := proxy.AddWindow(ctx, cfg)
	if err != nil {
		return nil, err
	}
	hv, ok := eng.View(id)
	if !ok {
		return nil, fmt.Errorf("window %d vanished", id)
	}

	report := &Report{}
	for _, l := range lines {
		before := len(hv.Evaluated())
		if err := hv.Post(ctx, l.text); err != nil {
			return nil, fmt.Errorf("line %d: %w", l.n, err)
		}
		// Replies are queued behind Post; one more turn runs them.
		if _, err := hv.EvalSync(ctx, "undefined"); err != nil {
			return nil, fmt.Errorf("line %d: %w", l.n, err)
		}
		report.Replies = append(report.Replies, output.NewReply(l.n, l.text, hv.Evaluated()[before:]))
	}

	// Handlers may have queued window messages; wait for them to land.
	w := proxy.Window(id)
	if _, err := w.IsMaximized(ctx); err != nil {
		return nil, err
	}
	report.State = hv.Controls().State()

	if err := w.Close(); err != nil {
		return nil, err
	}
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return report, nil
}
