// Package wry embeds a webview in a native window and bridges page script
// and host over a JSON RPC channel.
//
// Page script calls window.rpc.call(method, ...args) and gets a promise; the
// host answers through the window's RPCHandler, and the reply is injected
// back into the page to settle that promise. Named callbacks registered in
// WindowConfig.Callbacks are exposed to the page as window[name](...args).
package wry

import (
	"github.com/WilliamVenner/wry/internal/app"
	"github.com/WilliamVenner/wry/internal/domain/callback"
	"github.com/WilliamVenner/wry/internal/domain/dispatch"
	"github.com/WilliamVenner/wry/internal/domain/filedrop"
	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/domain/scheme"
	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/engine/headless"
)

type (
	Application     = app.Application
	Options         = app.Options
	Proxy           = app.Proxy
	WindowProxy     = app.WindowProxy
	WebView         = app.WebView
	WindowConfig    = app.WindowConfig
	RPCHandler      = app.RPCHandler
	FileDropHandler = app.FileDropHandler
	Event           = app.Event

	WindowID   = window.ID
	Attributes = window.Attributes

	Envelope = rpc.Envelope
	Response = rpc.Response
	ID       = rpc.ID
	Error    = rpc.Error

	Callback     = callback.Handler
	CallbackFunc = callback.HandlerFunc
	Middleware   = dispatch.Middleware

	FileDropEvent = filedrop.Event
	Protocol      = scheme.Protocol
)

const CloseRequested = app.CloseRequested

var (
	ErrLoopClosed = rpc.ErrLoopClosed
	ErrScript     = app.ErrScript
)

// DefaultAttributes returns a visible, decorated, resizable 800x600 window.
func DefaultAttributes() Attributes { return window.DefaultAttributes() }

// NewResult answers a call with a value.
func NewResult(id *ID, result any) *Response { return rpc.NewResult(id, result) }

// NewError rejects a call.
func NewError(id *ID, err any) *Response { return rpc.NewError(id, err) }

// NewHeadless returns an application whose pages run in an embedded
// JavaScript runtime without a display.
func NewHeadless(opts Options) *Application {
	return app.New(headless.New(), opts)
}
