package rpc

import (
	"errors"
	"fmt"
)

// Kind classifies a bridge failure.
type Kind string

const (
	KindDecode     Kind = "decode"
	KindNotFound   Kind = "not-found"
	KindHandler    Kind = "handler"
	KindEncode     Kind = "encode"
	KindInjection  Kind = "injection"
	KindLoopClosed Kind = "loop-closed"
)

// ErrLoopClosed is returned to senders once the application loop has stopped.
var ErrLoopClosed = errors.New("event loop closed")

// Error is a classified bridge failure.
type Error struct {
	Kind   Kind
	Method string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Method != "" && e.Err != nil:
		return fmt.Sprintf("rpc %s %q: %v", e.Kind, e.Method, e.Err)
	case e.Method != "":
		return fmt.Sprintf("rpc %s %q", e.Kind, e.Method)
	case e.Err != nil:
		return fmt.Sprintf("rpc %s: %v", e.Kind, e.Err)
	default:
		return "rpc " + string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func decodeError(err error) error {
	return &Error{Kind: KindDecode, Err: err}
}

// NotFound reports a call to a name nothing is registered under.
func NotFound(method string) error {
	return &Error{Kind: KindNotFound, Method: method}
}

// HandlerError wraps an application-level failure returned by a handler.
func HandlerError(method string, err error) error {
	return &Error{Kind: KindHandler, Method: method, Err: err}
}

// InjectionError wraps a failure to run a reply statement in the page.
func InjectionError(err error) error {
	return &Error{Kind: KindInjection, Err: err}
}

// LoopClosed wraps ErrLoopClosed for the named operation.
func LoopClosed(op string) error {
	return &Error{Kind: KindLoopClosed, Method: op, Err: ErrLoopClosed}
}
