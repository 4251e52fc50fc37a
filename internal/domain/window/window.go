package window

// ID identifies a native window, and the webview embedded in it, for the
// lifetime of the process.
type ID uint32

// Attributes describes a window and the webview embedded in it at creation time.
type Attributes struct {
	Title       string   `yaml:"title" toml:"title" json:"title"`
	Width       float64  `yaml:"width" toml:"width" json:"width"`
	Height      float64  `yaml:"height" toml:"height" json:"height"`
	MinWidth    *float64 `yaml:"min_width,omitempty" toml:"min_width,omitempty" json:"min_width,omitempty"`
	MinHeight   *float64 `yaml:"min_height,omitempty" toml:"min_height,omitempty" json:"min_height,omitempty"`
	MaxWidth    *float64 `yaml:"max_width,omitempty" toml:"max_width,omitempty" json:"max_width,omitempty"`
	MaxHeight   *float64 `yaml:"max_height,omitempty" toml:"max_height,omitempty" json:"max_height,omitempty"`
	X           *float64 `yaml:"x,omitempty" toml:"x,omitempty" json:"x,omitempty"`
	Y           *float64 `yaml:"y,omitempty" toml:"y,omitempty" json:"y,omitempty"`
	Resizable   bool     `yaml:"resizable" toml:"resizable" json:"resizable"`
	Visible     bool     `yaml:"visible" toml:"visible" json:"visible"`
	Maximized   bool     `yaml:"maximized" toml:"maximized" json:"maximized"`
	Fullscreen  bool     `yaml:"fullscreen" toml:"fullscreen" json:"fullscreen"`
	Decorations bool     `yaml:"decorations" toml:"decorations" json:"decorations"`
	AlwaysOnTop bool     `yaml:"always_on_top" toml:"always_on_top" json:"always_on_top"`
	Transparent bool     `yaml:"transparent" toml:"transparent" json:"transparent"`
	SkipTaskbar bool     `yaml:"skip_taskbar" toml:"skip_taskbar" json:"skip_taskbar"`
	Icon        []byte   `yaml:"-" toml:"-" json:"-"`

	// Webview content. URL wins over HTML when both are set.
	URL                   string   `yaml:"url,omitempty" toml:"url,omitempty" json:"url,omitempty"`
	HTML                  string   `yaml:"html,omitempty" toml:"html,omitempty" json:"html,omitempty"`
	InitializationScripts []string `yaml:"initialization_scripts,omitempty" toml:"initialization_scripts,omitempty" json:"initialization_scripts,omitempty"`
}

// DefaultAttributes returns a visible, decorated, resizable 800x600 window.
func DefaultAttributes() Attributes {
	return Attributes{
		Title:       "wry",
		Width:       800,
		Height:      600,
		Resizable:   true,
		Visible:     true,
		Decorations: true,
	}
}

// WebViewAttributes is the webview half of Attributes.
type WebViewAttributes struct {
	Transparent           bool
	URL                   string
	HTML                  string
	InitializationScripts []string
}

// Split separates the webview attributes from the window attributes. The
// returned window Attributes have their webview fields cleared.
func (a Attributes) Split() (Attributes, WebViewAttributes) {
	wv := WebViewAttributes{
		Transparent:           a.Transparent,
		URL:                   a.URL,
		HTML:                  a.HTML,
		InitializationScripts: append([]string(nil), a.InitializationScripts...),
	}
	a.URL = ""
	a.HTML = ""
	a.InitializationScripts = nil
	return a, wv
}
