package errors

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/WilliamVenner/wry/internal/domain/rpc"
)

type ErrorKind string

const (
	ErrorKindDecode     ErrorKind = "decode"
	ErrorKindNotFound   ErrorKind = "not-found"
	ErrorKindHandler    ErrorKind = "handler"
	ErrorKindEncode     ErrorKind = "encode"
	ErrorKindInjection  ErrorKind = "injection"
	ErrorKindLoopClosed ErrorKind = "loop-closed"
	ErrorKindConfig     ErrorKind = "config"
	ErrorKindPlugin     ErrorKind = "plugin"
	ErrorKindFile       ErrorKind = "file"
	ErrorKindOther      ErrorKind = "other"
)

type ClassifiedError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"` // User-friendly suggestion
	Raw     error     `json:"-"`
}

func (e ClassifiedError) Error() string {
	return e.Message
}

var hints = map[ErrorKind]string{
	ErrorKindDecode:     "Inbound messages must be JSON objects with a string \"method\", optionally framed as {\"callback\": ..., \"payload\": ...}.",
	ErrorKindNotFound:   "No callback is registered under that name for the window. Check the plugins list in your config.",
	ErrorKindHandler:    "The handler rejected the call. Its message is passed to the page as the rejection reason.",
	ErrorKindEncode:     "The handler returned a value that cannot be encoded as JSON.",
	ErrorKindInjection:  "The reply could not be scheduled on the window. Was it closed?",
	ErrorKindLoopClosed: "The event loop has stopped; no further messages can be delivered.",
	ErrorKindConfig:     "Check the config file, or write a fresh one with 'wry-rpc config init'.",
	ErrorKindPlugin:     "A WASM plugin failed to load. Check its path and that it is a WASI command module.",
	ErrorKindFile:       "Check that the file exists and is readable.",
	ErrorKindOther:      "An unexpected error occurred.",
}

func classified(kind ErrorKind, err error) ClassifiedError {
	return ClassifiedError{Kind: kind, Message: err.Error(), Hint: hints[kind], Raw: err}
}

func Classify(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{}
	}

	if kind := rpc.KindOf(err); kind != "" {
		return classified(ErrorKind(kind), err)
	}
	if errors.Is(err, rpc.ErrLoopClosed) {
		return classified(ErrorKindLoopClosed, err)
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.HasPrefix(msg, "config"):
		return classified(ErrorKindConfig, err)
	case strings.HasPrefix(msg, "plugin"):
		return classified(ErrorKindPlugin, err)
	case errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission):
		return classified(ErrorKindFile, err)
	default:
		return classified(ErrorKindOther, err)
	}
}
