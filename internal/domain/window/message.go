package window

import (
	"errors"
	"fmt"
)

// MessageKind enumerates the window mutations that can be requested through
// the application's control queue.
type MessageKind int

const (
	SetResizable MessageKind = iota
	SetTitle
	Maximize
	Unmaximize
	Minimize
	Unminimize
	Show
	Hide
	Close
	SetDecorations
	SetAlwaysOnTop
	SetWidth
	SetHeight
	Resize
	SetMinSize
	SetMaxSize
	SetX
	SetY
	SetPosition
	SetFullscreen
	SetIcon
	EvaluateScript
	BeginDrag
	IsMaximized
)

var kindNames = map[MessageKind]string{
	SetResizable:   "set-resizable",
	SetTitle:       "set-title",
	Maximize:       "maximize",
	Unmaximize:     "unmaximize",
	Minimize:       "minimize",
	Unminimize:     "unminimize",
	Show:           "show",
	Hide:           "hide",
	Close:          "close",
	SetDecorations: "set-decorations",
	SetAlwaysOnTop: "set-always-on-top",
	SetWidth:       "set-width",
	SetHeight:      "set-height",
	Resize:         "resize",
	SetMinSize:     "set-min-size",
	SetMaxSize:     "set-max-size",
	SetX:           "set-x",
	SetY:           "set-y",
	SetPosition:    "set-position",
	SetFullscreen:  "set-fullscreen",
	SetIcon:        "set-icon",
	EvaluateScript: "evaluate-script",
	BeginDrag:      "begin-drag",
	IsMaximized:    "is-maximized",
}

func (k MessageKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("window-message(%d)", int(k))
}

// Message is a single window mutation. Only the fields relevant to Kind are read:
//   - Flag:   SetResizable, SetDecorations, SetAlwaysOnTop, SetFullscreen
//   - Text:   SetTitle, EvaluateScript
//   - X, Y:   SetX, SetY, SetPosition, BeginDrag
//   - Width, Height: SetWidth, SetHeight, Resize, SetMinSize, SetMaxSize
//   - Icon:   SetIcon
//   - Reply:  IsMaximized
type Message struct {
	Kind   MessageKind
	Flag   bool
	Text   string
	X, Y   float64
	Width  float64
	Height float64
	Icon   []byte
	Reply  chan<- bool
}

// Apply performs msg against c. EvaluateScript is not a window operation and
// must be handled by the caller; Apply rejects it.
func Apply(c Controller, msg Message) error {
	switch msg.Kind {
	case SetResizable:
		return c.SetResizable(msg.Flag)
	case SetTitle:
		return c.SetTitle(msg.Text)
	case Maximize:
		return c.Maximize()
	case Unmaximize:
		return c.Unmaximize()
	case Minimize:
		return c.Minimize()
	case Unminimize:
		return c.Unminimize()
	case Show:
		return c.Show()
	case Hide:
		return c.Hide()
	case Close:
		return c.Close()
	case SetDecorations:
		return c.SetDecorations(msg.Flag)
	case SetAlwaysOnTop:
		return c.SetAlwaysOnTop(msg.Flag)
	case SetWidth:
		_, h := c.Size()
		return c.Resize(msg.Width, h)
	case SetHeight:
		w, _ := c.Size()
		return c.Resize(w, msg.Height)
	case Resize:
		return c.Resize(msg.Width, msg.Height)
	case SetMinSize:
		return c.SetMinSize(msg.Width, msg.Height)
	case SetMaxSize:
		return c.SetMaxSize(msg.Width, msg.Height)
	case SetX:
		_, y := c.Position()
		return c.Move(msg.X, y)
	case SetY:
		x, _ := c.Position()
		return c.Move(x, msg.Y)
	case SetPosition:
		return c.Move(msg.X, msg.Y)
	case SetFullscreen:
		return c.SetFullscreen(msg.Flag)
	case SetIcon:
		return c.SetIcon(msg.Icon)
	case BeginDrag:
		return c.BeginMoveDrag(msg.X, msg.Y)
	case IsMaximized:
		if msg.Reply != nil {
			// The requester may have given up waiting.
			select {
			case msg.Reply <- c.IsMaximized():
			default:
			}
		}
		return nil
	default:
		return fmt.Errorf("window: cannot apply %s", msg.Kind)
	}
}

// Configure applies the creation-time attributes that are expressible through
// a Controller. Backends call it right after creating the native window.
func Configure(c Controller, a Attributes) error {
	steps := []func() error{
		func() error { return c.SetTitle(a.Title) },
		func() error { return c.Resize(a.Width, a.Height) },
		func() error { return c.SetResizable(a.Resizable) },
		func() error { return c.SetDecorations(a.Decorations) },
		func() error { return c.SetAlwaysOnTop(a.AlwaysOnTop) },
	}
	if a.MinWidth != nil || a.MinHeight != nil {
		steps = append(steps, func() error { return c.SetMinSize(deref(a.MinWidth), deref(a.MinHeight)) })
	}
	if a.MaxWidth != nil || a.MaxHeight != nil {
		steps = append(steps, func() error { return c.SetMaxSize(deref(a.MaxWidth), deref(a.MaxHeight)) })
	}
	if a.X != nil && a.Y != nil {
		steps = append(steps, func() error { return c.Move(*a.X, *a.Y) })
	}
	if a.Maximized {
		steps = append(steps, c.Maximize)
	}
	if a.Fullscreen {
		steps = append(steps, func() error { return c.SetFullscreen(true) })
	}
	if len(a.Icon) > 0 {
		steps = append(steps, func() error { return c.SetIcon(a.Icon) })
	}
	if a.Visible {
		steps = append(steps, c.Show)
	} else {
		steps = append(steps, c.Hide)
	}

	// Attributes a backend cannot honour are not fatal at creation time.
	var errs []error
	for _, step := range steps {
		if err := step(); err != nil && !errors.Is(err, errors.ErrUnsupported) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
