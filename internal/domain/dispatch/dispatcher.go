package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/WilliamVenner/wry/internal/domain/callback"
	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/logger"
)

// RPCHandler answers calls made on the RPC channel. Returning nil sends no
// reply; the handler must answer every envelope that carries an id or the
// caller's promise never settles.
type RPCHandler func(ctx context.Context, call *rpc.Envelope) *rpc.Response

// Injector runs a reply statement in the originating page.
type Injector interface {
	Inject(js string) error
}

// control is a framework-reserved method, handled before any user routing.
type control int

const (
	controlNone control = iota
	controlBeginDrag
	controlEvalResult
)

var controls = map[string]control{
	rpc.BeginWindowDragMethod: controlBeginDrag,
	rpc.EvalResultMethod:      controlEvalResult,
}

func controlOf(env *rpc.Envelope) control {
	if c, ok := controls[env.Method]; ok {
		return c
	}
	return controls[env.Callback]
}

// Options configures a Dispatcher for one window.
type Options struct {
	Window   window.ID
	Registry *callback.Registry
	Injector Injector

	// RPC is the window's catch-all handler for the RPC channel, if any.
	RPC        RPCHandler
	Middleware []Middleware

	// BeginDrag receives the reserved window-drag control message.
	BeginDrag func(x, y float64) error
	// EvalResult receives settled host-initiated evaluations.
	EvalResult func(env *rpc.Envelope)
}

// Dispatcher routes the raw messages a page posts to the host.
type Dispatcher struct {
	window     window.ID
	registry   *callback.Registry
	injector   Injector
	rpc        RPCHandler
	beginDrag  func(x, y float64) error
	evalResult func(env *rpc.Envelope)
}

func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		window:     opts.Window,
		registry:   opts.Registry,
		injector:   opts.Injector,
		beginDrag:  opts.BeginDrag,
		evalResult: opts.EvalResult,
	}
	if d.registry == nil {
		d.registry = callback.NewRegistry()
	}
	if opts.RPC != nil {
		d.rpc = Chain(opts.Middleware...)(opts.RPC)
	}
	return d
}

// OnMessage handles one message from the page's message channel. Failures
// are contained and logged.
func (d *Dispatcher) OnMessage(raw string) {
	err := d.Handle(context.Background(), raw)
	if err == nil {
		return
	}
	switch rpc.KindOf(err) {
	case rpc.KindHandler:
		logger.Debugf("window %d: %v", d.window, err)
	case rpc.KindInjection:
		logger.Errorf("window %d: %v", d.window, err)
	case rpc.KindDecode:
		logger.Warnf("window %d: bad script call %q: %v", d.window, raw, err)
	default:
		logger.Warnf("window %d: %v", d.window, err)
	}
}

// Handle processes one raw message and reports what went wrong, if anything.
// Any reply has already been injected when it returns. Decode and not-found
// failures produce no reply; handler failures are answered with a rejection.
func (d *Dispatcher) Handle(ctx context.Context, raw string) error {
	env, err := rpc.Decode(raw)
	if err != nil {
		return err
	}

	switch controlOf(env) {
	case controlBeginDrag:
		return d.handleBeginDrag(env)
	case controlEvalResult:
		if d.evalResult == nil {
			return rpc.NotFound(rpc.EvalResultMethod)
		}
		d.evalResult(env)
		return nil
	}

	if d.rpc != nil && env.Route() == rpc.ChannelName {
		return d.handleRPC(ctx, env)
	}
	return d.handleCallback(env)
}

func (d *Dispatcher) handleBeginDrag(env *rpc.Envelope) error {
	if d.beginDrag == nil {
		return nil
	}
	params, err := rpc.NormalizeParams(env.Params)
	if err != nil {
		return err
	}
	var x, y float64
	if len(params) < 2 {
		return &rpc.Error{Kind: rpc.KindDecode, Method: rpc.BeginWindowDragMethod, Err: fmt.Errorf("want [x, y], got %d params", len(params))}
	}
	if err := json.Unmarshal(params[0], &x); err != nil {
		return &rpc.Error{Kind: rpc.KindDecode, Method: rpc.BeginWindowDragMethod, Err: err}
	}
	if err := json.Unmarshal(params[1], &y); err != nil {
		return &rpc.Error{Kind: rpc.KindDecode, Method: rpc.BeginWindowDragMethod, Err: err}
	}
	if err := d.beginDrag(x, y); err != nil {
		return fmt.Errorf("begin drag: %w", err)
	}
	return nil
}

func (d *Dispatcher) handleRPC(ctx context.Context, env *rpc.Envelope) error {
	resp := d.rpc(ctx, env)
	if resp == nil || resp.ID == nil {
		return nil
	}

	js, encErr := rpc.EncodeResponse(resp)
	if encErr != nil {
		// The reply still goes out with a null payload.
		logger.Warnf("window %d: %q reply: %v", d.window, env.Method, encErr)
	}
	if err := d.injector.Inject(js); err != nil {
		return err
	}
	if resp.Error != nil {
		return rpc.HandlerError(env.Method, fmt.Errorf("%v", resp.Error))
	}
	return nil
}

func (d *Dispatcher) handleCallback(env *rpc.Envelope) error {
	name := env.Route()
	params, err := rpc.NormalizeParams(env.Params)
	if err != nil {
		return err
	}

	id := env.ID.Int32()
	invokeErr := d.registry.Invoke(d.window, name, id, params)
	if rpc.KindOf(invokeErr) == rpc.KindNotFound {
		return invokeErr
	}

	if err := d.injector.Inject(rpc.EncodeCallbackOutcome(id, cause(invokeErr))); err != nil {
		return err
	}
	return invokeErr
}

// cause strips the handler classification so the page sees the handler's
// own failure text.
func cause(err error) error {
	var e *rpc.Error
	if errors.As(err, &e) && e.Kind == rpc.KindHandler && e.Err != nil {
		return e.Err
	}
	return err
}
