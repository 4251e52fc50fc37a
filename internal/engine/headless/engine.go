// Package headless is a display-less engine backed by the goja JavaScript
// runtime. One goroutine plays the UI thread; every page gets its own
// runtime with the same init scripts a native webview would run. Page markup
// is stored but not rendered or executed.
package headless

import (
	"context"
	"fmt"
	"sync"

	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/engine"
	"github.com/WilliamVenner/wry/internal/logger"
)

// Engine implements engine.Engine without a display.
type Engine struct {
	queue    *taskQueue
	done     chan struct{}
	doneOnce sync.Once

	mu    sync.Mutex
	views map[window.ID]*WebView
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine {
	return &Engine{
		queue: newTaskQueue(),
		done:  make(chan struct{}),
		views: make(map[window.ID]*WebView),
	}
}

// NewWebView creates a page. Call it on the UI thread.
func (e *Engine) NewWebView(opts engine.Options) (engine.WebView, error) {
	e.mu.Lock()
	if _, exists := e.views[opts.ID]; exists {
		e.mu.Unlock()
		return nil, fmt.Errorf("headless: webview %d already exists", opts.ID)
	}
	e.mu.Unlock()

	wv := &WebView{engine: e, opts: opts}
	wv.win = newWindow(wv)
	if err := window.Configure(wv.win, opts.Attributes); err != nil {
		return nil, fmt.Errorf("headless: configure window %d: %w", opts.ID, err)
	}

	var err error
	switch {
	case opts.Attributes.URL != "":
		err = wv.Navigate(opts.Attributes.URL)
	case opts.Attributes.HTML != "":
		err = wv.SetHTML(opts.Attributes.HTML)
	default:
		err = wv.load("about:blank", "")
	}
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.views[opts.ID] = wv
	e.mu.Unlock()
	logger.Debugf("headless: webview %d created", opts.ID)
	return wv, nil
}

// View returns the live webview with the given id.
func (e *Engine) View(id window.ID) (*WebView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	wv, ok := e.views[id]
	return wv, ok
}

func (e *Engine) forget(id window.ID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.views, id)
}

func (e *Engine) Dispatch(f func()) error {
	return e.queue.push(f)
}

// Sync runs f on the UI thread and waits for it. It must not be called from
// the UI thread.
func (e *Engine) Sync(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if err := e.Dispatch(func() {
		defer close(finished)
		f()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-e.done:
		return engine.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued tasks in order until Terminate or ctx cancellation.
func (e *Engine) Run(ctx context.Context) error {
	defer e.queue.close()
	for {
		select {
		case <-ctx.Done():
			e.Terminate()
			return ctx.Err()
		case <-e.done:
			return nil
		case <-e.queue.wake:
		}

		for {
			f, ok := e.queue.pop()
			if !ok {
				break
			}
			f()
			select {
			case <-e.done:
				return nil
			default:
			}
		}
	}
}

func (e *Engine) Terminate() {
	e.doneOnce.Do(func() { close(e.done) })
}
