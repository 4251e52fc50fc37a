package callback

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/domain/window"
)

// Handler is a host function bound to a name in one window. id is the
// script-side slot id of the call and params the normalized parameter list.
type Handler interface {
	Invoke(id int32, params []json.RawMessage) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(id int32, params []json.RawMessage) error

func (f HandlerFunc) Invoke(id int32, params []json.RawMessage) error {
	return f(id, params)
}

type key struct {
	window window.ID
	name   string
}

// Registry is the process-wide table of named callbacks.
type Registry struct {
	mu       sync.Mutex
	handlers map[key]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[key]Handler)}
}

var reserved = map[string]bool{
	rpc.ChannelName:           true,
	rpc.BeginWindowDragMethod: true,
	rpc.EvalResultMethod:      true,
}

// Register binds h to name in window w, replacing any previous binding.
func (r *Registry) Register(w window.ID, name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("callback name is required")
	}
	if reserved[name] {
		return fmt.Errorf("callback name %q is reserved", name)
	}
	if h == nil {
		return fmt.Errorf("callback %q: nil handler", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[key{w, name}] = h
	return nil
}

// Lookup returns the handler bound to name in window w.
func (r *Registry) Lookup(w window.ID, name string) (Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handlers[key{w, name}]
	return h, ok
}

// Invoke calls the handler bound to name in window w. The lock is only held
// for the lookup, so handlers may use the registry themselves. A missing
// binding yields a not-found error; a handler failure is returned wrapped as
// a handler error.
//
// A panicking handler is recovered and reported as a handler error.
func (r *Registry) Invoke(w window.ID, name string, id int32, params []json.RawMessage) (err error) {
	h, ok := r.Lookup(w, name)
	if !ok {
		return rpc.NotFound(name)
	}
	defer func() {
		if p := recover(); p != nil {
			err = rpc.HandlerError(name, fmt.Errorf("panic: %v", p))
		}
	}()
	if err := h.Invoke(id, params); err != nil {
		return rpc.HandlerError(name, err)
	}
	return nil
}

// Names returns the sorted callback names registered for window w.
func (r *Registry) Names(w window.ID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for k := range r.handlers {
		if k.window == w {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

// RemoveWindow drops every binding of window w and reports how many there were.
func (r *Registry) RemoveWindow(w window.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for k := range r.handlers {
		if k.window == w {
			delete(r.handlers, k)
			n++
		}
	}
	return n
}
