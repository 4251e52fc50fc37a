// Package engine abstracts the embedded web engine the bridge talks to.
//
// An Engine owns one UI thread. NewWebView, WebView.Eval, WebView.Navigate,
// WebView.SetHTML and every window.Controller method must only be called on
// that thread; Dispatch is the way onto it from anywhere else.
package engine

import (
	"context"
	"errors"

	"github.com/WilliamVenner/wry/internal/domain/filedrop"
	"github.com/WilliamVenner/wry/internal/domain/scheme"
	"github.com/WilliamVenner/wry/internal/domain/window"
)

// ErrClosed is returned when scheduling work on a closed engine or webview.
var ErrClosed = errors.New("engine: closed")

// Options describes a webview to create.
type Options struct {
	ID         window.ID
	Attributes window.Attributes
	// InitScripts run, in order, before any page content on every navigation.
	InitScripts []string
	// OnMessage receives each message the page posts through
	// window.external.invoke. It is called on the UI thread.
	OnMessage func(raw string)
	// OnClose is called on the UI thread once the window has been closed,
	// whether by the user or through its Controller.
	OnClose    func()
	OnFileDrop filedrop.Handler
	Protocols  []scheme.Protocol
	Debug      bool
}

// Engine is an embedded web engine with its own UI loop.
type Engine interface {
	NewWebView(opts Options) (WebView, error)
	// Dispatch schedules f on the UI thread. Safe from any goroutine.
	Dispatch(f func()) error
	// Run drives the UI loop until Terminate is called or ctx is done.
	Run(ctx context.Context) error
	Terminate()
}

// WebView is one page surface embedded in a native window.
type WebView interface {
	ID() window.ID
	// Eval runs script in the page without waiting for a result.
	Eval(js string) error
	// Dispatch schedules f on the UI thread, failing once the webview is closed.
	Dispatch(f func()) error
	Navigate(url string) error
	SetHTML(html string) error
	Window() window.Controller
	Close() error
}
