//go:build native && cgo

// Package native runs webviews on the platform engine (WebKitGTK, WKWebView
// or WebView2) through the webview C library. The library drives a single
// window, so an Engine hosts at most one webview.
package native

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	webview "github.com/webview/webview_go"

	"github.com/WilliamVenner/wry/internal/domain/script"
	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/engine"
	"github.com/WilliamVenner/wry/internal/logger"
)

func init() {
	// The platform UI toolkits must be driven from the main thread.
	runtime.LockOSThread()
}

// Engine implements engine.Engine on top of one native webview window.
type Engine struct {
	w     webview.WebView
	debug bool

	mu         sync.Mutex
	view       *WebView
	terminated bool
}

var _ engine.Engine = (*Engine)(nil)

// New creates the native window. Call it from the main goroutine.
func New(debug bool) *Engine {
	return &Engine{w: webview.New(debug), debug: debug}
}

func (e *Engine) NewWebView(opts engine.Options) (engine.WebView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view != nil {
		return nil, fmt.Errorf("native: only one webview per engine is supported")
	}
	if len(opts.Protocols) > 0 {
		logger.Warnf("native: custom protocols are not supported by this backend; %d ignored", len(opts.Protocols))
	}

	wv := &WebView{engine: e, opts: opts}
	wv.win = &Window{view: wv}

	onMessage := opts.OnMessage
	if err := e.w.Bind(script.MessageHandlerName, func(msg string) {
		if onMessage != nil {
			onMessage(msg)
		}
	}); err != nil {
		return nil, fmt.Errorf("native: bind message handler: %w", err)
	}
	for _, s := range opts.InitScripts {
		e.w.Init(s)
	}

	if err := window.Configure(wv.win, opts.Attributes); err != nil {
		logger.Warnf("native: configure window %d: %v", opts.ID, err)
	}

	switch {
	case opts.Attributes.URL != "":
		e.w.Navigate(opts.Attributes.URL)
	case opts.Attributes.HTML != "":
		e.w.SetHtml(opts.Attributes.HTML)
	}

	e.view = wv
	return wv, nil
}

func (e *Engine) Dispatch(f func()) error {
	e.mu.Lock()
	terminated := e.terminated
	e.mu.Unlock()
	if terminated {
		return engine.ErrClosed
	}
	e.w.Dispatch(f)
	return nil
}

// Run blocks in the native event loop until the window closes, Terminate is
// called or ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, e.Terminate)
	defer stop()

	e.w.Run()

	e.mu.Lock()
	e.terminated = true
	view := e.view
	e.mu.Unlock()

	// The user closed the window or the loop was told to stop.
	if view != nil {
		view.markClosed()
	}
	e.w.Destroy()
	return ctx.Err()
}

func (e *Engine) Terminate() {
	e.mu.Lock()
	if e.terminated {
		e.mu.Unlock()
		return
	}
	e.terminated = true
	e.mu.Unlock()
	e.w.Terminate()
}

// WebView is the engine's single native page.
type WebView struct {
	engine *Engine
	opts   engine.Options
	win    *Window

	mu     sync.Mutex
	closed bool
}

var _ engine.WebView = (*WebView)(nil)

func (v *WebView) ID() window.ID { return v.opts.ID }

func (v *WebView) Window() window.Controller { return v.win }

func (v *WebView) Eval(js string) error {
	if v.isClosed() {
		return engine.ErrClosed
	}
	v.engine.w.Eval(js)
	return nil
}

func (v *WebView) Dispatch(f func()) error {
	if v.isClosed() {
		return engine.ErrClosed
	}
	return v.engine.Dispatch(func() {
		if v.isClosed() {
			return
		}
		f()
	})
}

func (v *WebView) Navigate(url string) error {
	if v.isClosed() {
		return engine.ErrClosed
	}
	v.engine.w.Navigate(url)
	return nil
}

func (v *WebView) SetHTML(html string) error {
	if v.isClosed() {
		return engine.ErrClosed
	}
	v.engine.w.SetHtml(html)
	return nil
}

// Close ends the native loop, which owns the only window.
func (v *WebView) Close() error {
	if !v.markClosed() {
		return nil
	}
	v.engine.Terminate()
	return nil
}

// markClosed flips the webview to closed and runs OnClose once.
func (v *WebView) markClosed() bool {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return false
	}
	v.closed = true
	v.mu.Unlock()

	if v.opts.OnClose != nil {
		v.opts.OnClose()
	}
	return true
}

func (v *WebView) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
