//go:build native && cgo

package native

import (
	"errors"
	"sync"

	webview "github.com/webview/webview_go"

	"github.com/WilliamVenner/wry/internal/domain/window"
)

// Window maps window.Controller onto what the webview library exposes:
// title and size hints. Everything else is unsupported.
type Window struct {
	view *WebView

	mu            sync.Mutex
	width, height float64
	resizable     bool
}

var _ window.Controller = (*Window)(nil)

func (w *Window) lib() webview.WebView { return w.view.engine.w }

func (w *Window) SetTitle(title string) error {
	w.lib().SetTitle(title)
	return nil
}

func (w *Window) SetResizable(resizable bool) error {
	w.mu.Lock()
	w.resizable = resizable
	width, height := w.width, w.height
	w.mu.Unlock()

	hint := webview.HintNone
	if !resizable {
		hint = webview.HintFixed
	}
	w.lib().SetSize(int(width), int(height), hint)
	return nil
}

func (w *Window) Size() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *Window) Resize(width, height float64) error {
	w.mu.Lock()
	w.width, w.height = width, height
	resizable := w.resizable
	w.mu.Unlock()

	hint := webview.HintNone
	if !resizable {
		hint = webview.HintFixed
	}
	w.lib().SetSize(int(width), int(height), hint)
	return nil
}

func (w *Window) SetMinSize(width, height float64) error {
	w.lib().SetSize(int(width), int(height), webview.HintMin)
	return nil
}

func (w *Window) SetMaxSize(width, height float64) error {
	w.lib().SetSize(int(width), int(height), webview.HintMax)
	return nil
}

func (w *Window) Close() error { return w.view.Close() }

func (w *Window) IsMaximized() bool { return false }

func (w *Window) Position() (float64, float64) { return 0, 0 }

func (w *Window) SetDecorations(bool) error { return errors.ErrUnsupported }
func (w *Window) SetAlwaysOnTop(bool) error { return errors.ErrUnsupported }
func (w *Window) SetFullscreen(bool) error { return errors.ErrUnsupported }
func (w *Window) Maximize() error { return errors.ErrUnsupported }
func (w *Window) Unmaximize() error { return errors.ErrUnsupported }
func (w *Window) Minimize() error { return errors.ErrUnsupported }
func (w *Window) Unminimize() error { return errors.ErrUnsupported }
func (w *Window) Show() error { return nil }
func (w *Window) Hide() error { return errors.ErrUnsupported }
func (w *Window) Move(float64, float64) error { return errors.ErrUnsupported }
func (w *Window) SetIcon([]byte) error { return errors.ErrUnsupported }
func (w *Window) BeginMoveDrag(_, _ float64) error { return errors.ErrUnsupported }
