// Package app runs webview windows on an engine's UI loop and wires each of
// them to the RPC bridge.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/WilliamVenner/wry/internal/domain/callback"
	"github.com/WilliamVenner/wry/internal/domain/dispatch"
	"github.com/WilliamVenner/wry/internal/domain/filedrop"
	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/domain/scheme"
	"github.com/WilliamVenner/wry/internal/domain/script"
	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/engine"
	"github.com/WilliamVenner/wry/internal/logger"
)

// RPCHandler answers calls on a window's RPC channel. See dispatch.RPCHandler.
type RPCHandler func(proxy *WindowProxy, call *rpc.Envelope) *rpc.Response

// FileDropHandler is told about drag-and-drop over a window. Returning true
// blocks the platform's default handling.
type FileDropHandler func(proxy *WindowProxy, ev filedrop.Event) bool

// WindowConfig describes a window to open.
type WindowConfig struct {
	Attributes window.Attributes
	RPC        RPCHandler
	// Callbacks are exposed to the page as window[name](...args).
	Callbacks map[string]callback.Handler
	FileDrop  FileDropHandler
	Protocols []scheme.Protocol
}

// EventKind enumerates application events.
type EventKind int

const (
	// CloseRequested: the window was closed and its webview torn down.
	CloseRequested EventKind = iota
)

func (k EventKind) String() string {
	if k == CloseRequested {
		return "close-requested"
	}
	return "unknown"
}

// Event is reported to ListenEvent callers.
type Event struct {
	Window window.ID
	Kind   EventKind
}

// Options tunes an Application.
type Options struct {
	Debug bool
	// Middleware wraps every window's RPC handler, outermost first.
	Middleware []dispatch.Middleware
}

type control struct {
	id  window.ID
	cfg *WindowConfig
	msg window.Message
	// created receives the outcome of a window creation.
	created chan error
}

// Application owns the live webview table, the process-wide callback
// registry and the control and event queues.
type Application struct {
	engine   engine.Engine
	registry *callback.Registry
	opts     Options

	control *queue[control]
	events  *queue[Event]
	nextID  atomic.Uint32
	running atomic.Bool

	// views is only touched on the UI thread.
	views map[window.ID]*WebView
}

func New(eng engine.Engine, opts Options) *Application {
	return &Application{
		engine:   eng,
		registry: callback.NewRegistry(),
		opts:     opts,
		control:  newQueue[control](),
		events:   newQueue[Event](),
		views:    make(map[window.ID]*WebView),
	}
}

// Registry returns the process-wide callback registry.
func (a *Application) Registry() *callback.Registry { return a.registry }

// Proxy returns a handle for talking to the loop from any goroutine.
func (a *Application) Proxy() *Proxy { return &Proxy{app: a} }

// AddWindow queues a window for creation and returns its id. Creation
// failures are logged; use Proxy.AddWindow to observe them.
func (a *Application) AddWindow(cfg WindowConfig) (window.ID, error) {
	id := window.ID(a.nextID.Add(1))
	if !a.control.push(control{id: id, cfg: &cfg}) {
		return 0, rpc.LoopClosed("add window")
	}
	return id, nil
}

// Run pumps the control queue onto the engine's UI thread and drives the
// engine until the last window closes or ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return errors.New("app: already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		a.pump(ctx)
	}()

	err := a.engine.Run(ctx)
	cancel()
	<-pumpDone
	a.control.close()
	a.events.close()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *Application) pump(ctx context.Context) {
	for {
		c, ok, err := a.control.pop(ctx)
		if err != nil || !ok {
			return
		}
		if err := a.engine.Dispatch(func() { a.apply(c) }); err != nil {
			logger.Warnf("app: control message dropped: %v", err)
			if c.created != nil {
				c.created <- rpc.LoopClosed("dispatch")
			}
			return
		}
	}
}

// apply runs on the UI thread.
func (a *Application) apply(c control) {
	if c.cfg != nil {
		err := a.createWindow(c.id, *c.cfg)
		if err != nil {
			logger.Errorf("app: create window %d: %v", c.id, err)
		}
		if c.created != nil {
			c.created <- err
		}
		return
	}

	wv, ok := a.views[c.id]
	if !ok {
		logger.Warnf("app: %s for unknown window %d", c.msg.Kind, c.id)
		if c.msg.Reply != nil {
			close(c.msg.Reply)
		}
		return
	}

	var err error
	if c.msg.Kind == window.EvaluateScript {
		err = wv.Eval(c.msg.Text)
	} else {
		err = window.Apply(wv.Window(), c.msg)
	}
	switch {
	case errors.Is(err, errors.ErrUnsupported):
		logger.Debugf("app: window %d: %s not supported by this engine", c.id, c.msg.Kind)
	case err != nil:
		logger.Warnf("app: window %d: %s: %v", c.id, c.msg.Kind, err)
	}
}

// createWindow runs on the UI thread.
func (a *Application) createWindow(id window.ID, cfg WindowConfig) error {
	proxy := a.Proxy().Window(id)

	for name, h := range cfg.Callbacks {
		if err := a.registry.Register(id, name, h); err != nil {
			a.registry.RemoveWindow(id)
			return err
		}
	}
	names := a.registry.Names(id)

	wv := newWebView(id)
	dopts := dispatch.Options{
		Window:     id,
		Registry:   a.registry,
		Injector:   wv.injector,
		Middleware: a.opts.Middleware,
		BeginDrag: func(x, y float64) error {
			ctl := wv.Window()
			if ctl == nil {
				return engine.ErrClosed
			}
			return ctl.BeginMoveDrag(x, y)
		},
		EvalResult: wv.evaluator.resolve,
	}
	if cfg.RPC != nil {
		handler := cfg.RPC
		dopts.RPC = func(_ context.Context, call *rpc.Envelope) *rpc.Response {
			return handler(proxy, call)
		}
	}
	wv.dispatcher = dispatch.New(dopts)

	eopts := engine.Options{
		ID:          id,
		Attributes:  cfg.Attributes,
		InitScripts: script.InitScripts(names, cfg.Attributes.InitializationScripts),
		OnMessage:   wv.OnMessage,
		OnClose:     func() { a.onClose(id) },
		Protocols:   cfg.Protocols,
		Debug:       a.opts.Debug,
	}
	if cfg.FileDrop != nil {
		drop := cfg.FileDrop
		eopts.OnFileDrop = func(ev filedrop.Event) bool { return drop(proxy, ev) }
	}

	inner, err := a.engine.NewWebView(eopts)
	if err != nil {
		a.registry.RemoveWindow(id)
		return fmt.Errorf("new webview: %w", err)
	}
	wv.attach(inner)
	a.views[id] = wv
	logger.Infof("app: window %d opened (%d callbacks)", id, len(names))
	return nil
}

// onClose runs on the UI thread once a window is gone.
func (a *Application) onClose(id window.ID) {
	if _, ok := a.views[id]; !ok {
		return
	}
	delete(a.views, id)
	removed := a.registry.RemoveWindow(id)
	logger.Infof("app: window %d closed (%d callbacks released)", id, removed)
	a.events.push(Event{Window: id, Kind: CloseRequested})

	if len(a.views) == 0 {
		a.engine.Terminate()
	}
}

// WebView returns the live webview for id. UI thread only.
func (a *Application) WebView(id window.ID) (*WebView, bool) {
	wv, ok := a.views[id]
	return wv, ok
}
