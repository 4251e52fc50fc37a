package app

import (
	"context"
	"fmt"

	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/domain/window"
)

// Proxy sends requests to a running Application from any goroutine. Every
// request is applied on the UI thread at the loop's next turn. Once the loop
// has stopped, requests fail with an error wrapping rpc.ErrLoopClosed.
type Proxy struct {
	app *Application
}

// SendMessage queues msg for window id.
func (p *Proxy) SendMessage(id window.ID, msg window.Message) error {
	if !p.app.control.push(control{id: id, msg: msg}) {
		return rpc.LoopClosed("send " + msg.Kind.String())
	}
	return nil
}

// AddWindow creates a window and waits until it exists.
func (p *Proxy) AddWindow(ctx context.Context, cfg WindowConfig) (window.ID, error) {
	id := window.ID(p.app.nextID.Add(1))
	created := make(chan error, 1)
	if !p.app.control.push(control{id: id, cfg: &cfg, created: created}) {
		return 0, rpc.LoopClosed("add window")
	}

	select {
	case err := <-created:
		if err != nil {
			return 0, err
		}
		return id, nil
	case <-p.app.control.done:
		return 0, rpc.LoopClosed("add window")
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ListenEvent waits for the next application event.
func (p *Proxy) ListenEvent(ctx context.Context) (Event, error) {
	ev, ok, err := p.app.events.pop(ctx)
	if err != nil {
		return Event{}, err
	}
	if !ok {
		return Event{}, rpc.LoopClosed("listen event")
	}
	return ev, nil
}

// WebView looks up the live webview for id on the UI thread. EvaluateScript
// and Call on the result are safe from any goroutine.
func (p *Proxy) WebView(ctx context.Context, id window.ID) (*WebView, error) {
	type lookup struct {
		wv *WebView
		ok bool
	}
	found := make(chan lookup, 1)
	err := p.app.engine.Dispatch(func() {
		wv, ok := p.app.views[id]
		found <- lookup{wv, ok}
	})
	if err != nil {
		return nil, rpc.LoopClosed("webview")
	}

	select {
	case l := <-found:
		if !l.ok {
			return nil, fmt.Errorf("window %d: not found", id)
		}
		return l.wv, nil
	case <-p.app.control.done:
		return nil, rpc.LoopClosed("webview")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Window returns a proxy for the window with the given id.
func (p *Proxy) Window(id window.ID) *WindowProxy {
	return &WindowProxy{proxy: p, id: id}
}

// WindowProxy sends window messages to one window.
type WindowProxy struct {
	proxy *Proxy
	id    window.ID
}

func (w *WindowProxy) ID() window.ID { return w.id }

func (w *WindowProxy) send(msg window.Message) error {
	return w.proxy.SendMessage(w.id, msg)
}

func (w *WindowProxy) SetResizable(resizable bool) error {
	return w.send(window.Message{Kind: window.SetResizable, Flag: resizable})
}

func (w *WindowProxy) SetTitle(title string) error {
	return w.send(window.Message{Kind: window.SetTitle, Text: title})
}

func (w *WindowProxy) Maximize() error   { return w.send(window.Message{Kind: window.Maximize}) }
func (w *WindowProxy) Unmaximize() error { return w.send(window.Message{Kind: window.Unmaximize}) }
func (w *WindowProxy) Minimize() error   { return w.send(window.Message{Kind: window.Minimize}) }
func (w *WindowProxy) Unminimize() error { return w.send(window.Message{Kind: window.Unminimize}) }
func (w *WindowProxy) Show() error       { return w.send(window.Message{Kind: window.Show}) }
func (w *WindowProxy) Hide() error       { return w.send(window.Message{Kind: window.Hide}) }
func (w *WindowProxy) Close() error      { return w.send(window.Message{Kind: window.Close}) }

func (w *WindowProxy) SetDecorations(decorations bool) error {
	return w.send(window.Message{Kind: window.SetDecorations, Flag: decorations})
}

func (w *WindowProxy) SetAlwaysOnTop(alwaysOnTop bool) error {
	return w.send(window.Message{Kind: window.SetAlwaysOnTop, Flag: alwaysOnTop})
}

func (w *WindowProxy) SetWidth(width float64) error {
	return w.send(window.Message{Kind: window.SetWidth, Width: width})
}

func (w *WindowProxy) SetHeight(height float64) error {
	return w.send(window.Message{Kind: window.SetHeight, Height: height})
}

func (w *WindowProxy) Resize(width, height float64) error {
	return w.send(window.Message{Kind: window.Resize, Width: width, Height: height})
}

func (w *WindowProxy) SetMinSize(width, height float64) error {
	return w.send(window.Message{Kind: window.SetMinSize, Width: width, Height: height})
}

func (w *WindowProxy) SetMaxSize(width, height float64) error {
	return w.send(window.Message{Kind: window.SetMaxSize, Width: width, Height: height})
}

func (w *WindowProxy) SetX(x float64) error {
	return w.send(window.Message{Kind: window.SetX, X: x})
}

func (w *WindowProxy) SetY(y float64) error {
	return w.send(window.Message{Kind: window.SetY, Y: y})
}

func (w *WindowProxy) SetPosition(x, y float64) error {
	return w.send(window.Message{Kind: window.SetPosition, X: x, Y: y})
}

func (w *WindowProxy) SetFullscreen(fullscreen bool) error {
	return w.send(window.Message{Kind: window.SetFullscreen, Flag: fullscreen})
}

func (w *WindowProxy) SetIcon(icon []byte) error {
	return w.send(window.Message{Kind: window.SetIcon, Icon: icon})
}

// EvaluateScript runs js in the window's page at the loop's next turn.
func (w *WindowProxy) EvaluateScript(js string) error {
	return w.send(window.Message{Kind: window.EvaluateScript, Text: js})
}

func (w *WindowProxy) BeginDrag(x, y float64) error {
	return w.send(window.Message{Kind: window.BeginDrag, X: x, Y: y})
}

// IsMaximized asks the UI thread for the window's maximized state.
func (w *WindowProxy) IsMaximized(ctx context.Context) (bool, error) {
	reply := make(chan bool, 1)
	if err := w.send(window.Message{Kind: window.IsMaximized, Reply: reply}); err != nil {
		return false, err
	}
	select {
	case maximized, ok := <-reply:
		if !ok {
			return false, fmt.Errorf("window %d: not found", w.id)
		}
		return maximized, nil
	case <-w.proxy.app.control.done:
		return false, rpc.LoopClosed("is maximized")
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
