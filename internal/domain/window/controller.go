package window

// Controller is the set of native window operations the bridge and the
// application loop drive. Implementations must only be called from the
// thread owning the window's event loop. Operations a backend cannot perform
// return errors.ErrUnsupported.
type Controller interface {
	SetTitle(title string) error
	SetResizable(resizable bool) error
	SetDecorations(decorations bool) error
	SetAlwaysOnTop(alwaysOnTop bool) error
	SetFullscreen(fullscreen bool) error
	Maximize() error
	Unmaximize() error
	Minimize() error
	Unminimize() error
	Show() error
	Hide() error
	IsMaximized() bool
	Size() (width, height float64)
	Resize(width, height float64) error
	SetMinSize(width, height float64) error
	SetMaxSize(width, height float64) error
	Position() (x, y float64)
	Move(x, y float64) error
	SetIcon(icon []byte) error
	// BeginMoveDrag starts an interactive move of the window from the given
	// screen coordinates.
	BeginMoveDrag(x, y float64) error
	Close() error
}
