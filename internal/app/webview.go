package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/WilliamVenner/wry/internal/domain/dispatch"
	"github.com/WilliamVenner/wry/internal/domain/inject"
	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/engine"
)

// WebView ties one engine webview to its dispatcher, reply injector and
// evaluator.
type WebView struct {
	id         window.ID
	dispatcher *dispatch.Dispatcher
	injector   *inject.Injector
	evaluator  *evaluator

	mu    sync.RWMutex
	inner engine.WebView
}

func newWebView(id window.ID) *WebView {
	wv := &WebView{id: id}
	wv.injector = inject.New(wv)
	wv.evaluator = newEvaluator(wv.injector.Inject)
	return wv
}

func (w *WebView) attach(inner engine.WebView) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inner = inner
}

func (w *WebView) engineView() (engine.WebView, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.inner == nil {
		return nil, fmt.Errorf("webview %d: %w", w.id, engine.ErrClosed)
	}
	return w.inner, nil
}

func (w *WebView) ID() window.ID { return w.id }

// Window returns the native window controller. UI thread only.
func (w *WebView) Window() window.Controller {
	inner, err := w.engineView()
	if err != nil {
		return nil
	}
	return inner.Window()
}

// Dispatch schedules f on the webview's UI thread.
func (w *WebView) Dispatch(f func()) error {
	inner, err := w.engineView()
	if err != nil {
		return err
	}
	return inner.Dispatch(f)
}

// Eval runs js immediately. UI thread only.
func (w *WebView) Eval(js string) error {
	inner, err := w.engineView()
	if err != nil {
		return err
	}
	return inner.Eval(js)
}

// EvaluateScript runs js in the page, fire-and-forget. Safe from any goroutine.
func (w *WebView) EvaluateScript(js string) error {
	return w.injector.Inject(js)
}

// Call evaluates a JavaScript expression, waits for its value (awaiting it
// when it is a promise) and decodes it into out, which may be nil. Call
// blocks until the page answers, so it must not be made on the UI thread.
func (w *WebView) Call(ctx context.Context, expr string, out any) error {
	return w.evaluator.call(ctx, expr, out)
}

// OnMessage feeds a raw page message to the dispatcher.
func (w *WebView) OnMessage(raw string) {
	w.dispatcher.OnMessage(raw)
}
