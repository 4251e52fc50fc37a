package headless

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/WilliamVenner/wry/internal/domain/filedrop"
	"github.com/WilliamVenner/wry/internal/domain/script"
	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/engine"
)

// WebView is a headless page. The goja runtime is only touched on the UI thread.
type WebView struct {
	engine *Engine
	opts   engine.Options
	win    *Window
	vm     *goja.Runtime

	mu        sync.Mutex
	closed    bool
	url       string
	content   string
	evaluated []string
}

var _ engine.WebView = (*WebView)(nil)

func (w *WebView) ID() window.ID { return w.opts.ID }

func (w *WebView) Window() window.Controller { return w.win }

// Controls returns the concrete headless window.
func (w *WebView) Controls() *Window { return w.win }

// load replaces the page with a fresh runtime and runs the init scripts.
func (w *WebView) load(url, content string) error {
	vm := goja.New()
	if _, err := vm.RunString("var window = this;"); err != nil {
		return err
	}
	onMessage := w.opts.OnMessage
	if err := vm.Set(script.MessageHandlerName, func(msg string) {
		if onMessage != nil {
			onMessage(msg)
		}
	}); err != nil {
		return err
	}
	for i, s := range w.opts.InitScripts {
		if _, err := vm.RunString(s); err != nil {
			return fmt.Errorf("headless: init script %d: %w", i, err)
		}
	}

	w.vm = vm
	w.mu.Lock()
	w.url = url
	w.content = content
	w.mu.Unlock()
	return nil
}

func (w *WebView) Navigate(url string) error {
	if w.isClosed() {
		return engine.ErrClosed
	}
	var content string
	for _, p := range w.opts.Protocols {
		if p.Matches(url) {
			body, _, err := p.Serve(url)
			if err != nil {
				return err
			}
			content = string(body)
			break
		}
	}
	return w.load(url, content)
}

func (w *WebView) SetHTML(html string) error {
	if w.isClosed() {
		return engine.ErrClosed
	}
	return w.load("about:blank", html)
}

func (w *WebView) Eval(js string) error {
	if w.isClosed() {
		return engine.ErrClosed
	}
	w.mu.Lock()
	w.evaluated = append(w.evaluated, js)
	w.mu.Unlock()

	_, err := w.vm.RunString(js)
	return err
}

func (w *WebView) Dispatch(f func()) error {
	if w.isClosed() {
		return engine.ErrClosed
	}
	return w.engine.Dispatch(func() {
		if w.isClosed() {
			return
		}
		f()
	})
}

// Close tears the page down and reports it through OnClose.
func (w *WebView) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	if w.vm != nil {
		w.vm.Interrupt("webview closed")
	}
	w.engine.forget(w.opts.ID)
	if w.opts.OnClose != nil {
		w.opts.OnClose()
	}
	return nil
}

func (w *WebView) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// URL returns the address of the current page.
func (w *WebView) URL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.url
}

// Content returns the markup of the current page.
func (w *WebView) Content() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.content
}

// Evaluated returns every script run through Eval so far.
func (w *WebView) Evaluated() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.evaluated...)
}

// EvalSync evaluates js on the UI thread and returns its exported value. It
// must not be called from the UI thread.
func (w *WebView) EvalSync(ctx context.Context, js string) (any, error) {
	var (
		value any
		err   error
	)
	syncErr := w.engine.Sync(ctx, func() {
		if w.isClosed() {
			err = engine.ErrClosed
			return
		}
		var v goja.Value
		v, err = w.vm.RunString(js)
		if err == nil && v != nil {
			value = v.Export()
		}
	})
	if syncErr != nil {
		return nil, syncErr
	}
	return value, err
}

// Post delivers raw through the page's window.external.invoke, exactly as
// page script would, and waits until the host has handled it. Replies the
// host schedules are queued before Post returns.
func (w *WebView) Post(ctx context.Context, raw string) error {
	quoted, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	_, err = w.EvalSync(ctx, fmt.Sprintf("window.external.invoke(%s)", quoted))
	return err
}

// DropFiles simulates a drag-and-drop gesture and returns whether the
// handler blocked the default handling.
func (w *WebView) DropFiles(ctx context.Context, ev filedrop.Event) (bool, error) {
	var blocked bool
	err := w.engine.Sync(ctx, func() {
		blocked = filedrop.Deliver(w.opts.OnFileDrop, ev)
	})
	return blocked, err
}

// Fetch resolves uri through the webview's custom protocols.
func (w *WebView) Fetch(uri string) ([]byte, string, error) {
	for _, p := range w.opts.Protocols {
		if p.Matches(uri) {
			return p.Serve(uri)
		}
	}
	return nil, "", fmt.Errorf("headless: no protocol serves %q", uri)
}
