package filedrop

// Kind is the phase of a drag-and-drop gesture over a webview.
type Kind int

const (
	// Hovered: content is being dragged over the window.
	Hovered Kind = iota
	// Dropped: content was released on the window.
	Dropped
	// Cancelled: the drag left the window or was aborted.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Hovered:
		return "hovered"
	case Dropped:
		return "dropped"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Data is what is being dragged. At most one field is set; all are empty for
// Cancelled.
type Data struct {
	Paths  []string `json:"paths,omitempty"`
	Text   string   `json:"text,omitempty"`
	Binary []byte   `json:"binary,omitempty"`
}

// Event is a single drag-and-drop notification.
type Event struct {
	Kind Kind `json:"kind"`
	Data Data `json:"data"`
}

// Handler is told about each event. Returning true blocks the platform's
// default drop handling, which would otherwise navigate to the dropped file.
type Handler func(ev Event) bool

// Deliver runs h for ev. Without a handler the default handling proceeds.
func Deliver(h Handler, ev Event) bool {
	if h == nil {
		return false
	}
	return h(ev)
}
