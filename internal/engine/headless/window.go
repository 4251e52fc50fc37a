package headless

import (
	"sync"

	"github.com/WilliamVenner/wry/internal/domain/window"
)

// Point is a screen position.
type Point struct {
	X, Y float64
}

// WindowState is a snapshot of a headless window.
type WindowState struct {
	Title       string
	Width       float64
	Height      float64
	MinWidth    float64
	MinHeight   float64
	MaxWidth    float64
	MaxHeight   float64
	X, Y        float64
	Resizable   bool
	Decorations bool
	AlwaysOnTop bool
	Fullscreen  bool
	Maximized   bool
	Minimized   bool
	Visible     bool
	Icon        []byte
	Drags       []Point
	Closed      bool
}

// Window records every operation applied to it instead of drawing anything.
type Window struct {
	view *WebView

	mu    sync.Mutex
	state WindowState
}

var _ window.Controller = (*Window)(nil)

func newWindow(view *WebView) *Window {
	return &Window{view: view}
}

// State returns a copy of the window's current state.
func (w *Window) State() WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.state
	s.Icon = append([]byte(nil), w.state.Icon...)
	s.Drags = append([]Point(nil), w.state.Drags...)
	return s
}

func (w *Window) update(f func(s *WindowState)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	f(&w.state)
	return nil
}

func (w *Window) SetTitle(title string) error {
	return w.update(func(s *WindowState) { s.Title = title })
}

func (w *Window) SetResizable(resizable bool) error {
	return w.update(func(s *WindowState) { s.Resizable = resizable })
}

func (w *Window) SetDecorations(decorations bool) error {
	return w.update(func(s *WindowState) { s.Decorations = decorations })
}

func (w *Window) SetAlwaysOnTop(alwaysOnTop bool) error {
	return w.update(func(s *WindowState) { s.AlwaysOnTop = alwaysOnTop })
}

func (w *Window) SetFullscreen(fullscreen bool) error {
	return w.update(func(s *WindowState) { s.Fullscreen = fullscreen })
}

func (w *Window) Maximize() error {
	return w.update(func(s *WindowState) { s.Maximized = true })
}

func (w *Window) Unmaximize() error {
	return w.update(func(s *WindowState) { s.Maximized = false })
}

func (w *Window) Minimize() error {
	return w.update(func(s *WindowState) { s.Minimized = true })
}

func (w *Window) Unminimize() error {
	return w.update(func(s *WindowState) { s.Minimized = false })
}

func (w *Window) Show() error {
	return w.update(func(s *WindowState) { s.Visible = true })
}

func (w *Window) Hide() error {
	return w.update(func(s *WindowState) { s.Visible = false })
}

func (w *Window) IsMaximized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Maximized
}

func (w *Window) Size() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Width, w.state.Height
}

// Resize clamps to the min and max size hints, where set.
func (w *Window) Resize(width, height float64) error {
	return w.update(func(s *WindowState) {
		s.Width = clamp(width, s.MinWidth, s.MaxWidth)
		s.Height = clamp(height, s.MinHeight, s.MaxHeight)
	})
}

func (w *Window) SetMinSize(width, height float64) error {
	return w.update(func(s *WindowState) { s.MinWidth, s.MinHeight = width, height })
}

func (w *Window) SetMaxSize(width, height float64) error {
	return w.update(func(s *WindowState) { s.MaxWidth, s.MaxHeight = width, height })
}

func (w *Window) Position() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.X, w.state.Y
}

func (w *Window) Move(x, y float64) error {
	return w.update(func(s *WindowState) { s.X, s.Y = x, y })
}

func (w *Window) SetIcon(icon []byte) error {
	return w.update(func(s *WindowState) { s.Icon = append([]byte(nil), icon...) })
}

func (w *Window) BeginMoveDrag(x, y float64) error {
	return w.update(func(s *WindowState) { s.Drags = append(s.Drags, Point{x, y}) })
}

// Close marks the window closed and tears its webview down.
func (w *Window) Close() error {
	w.update(func(s *WindowState) {
		s.Closed = true
		s.Visible = false
	})
	return w.view.Close()
}

func clamp(v, lo, hi float64) float64 {
	if lo > 0 && v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}
