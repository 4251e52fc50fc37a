package rpc

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Reserved names on the script-to-host channel.
const (
	// ChannelName is the callback name routing an envelope to the window's
	// RPC handler instead of the callback registry.
	ChannelName = "__rpc__"

	// BeginWindowDragMethod asks the host to start an interactive window move
	// with params [x, y]. It never reaches user handlers and is never answered.
	BeginWindowDragMethod = "__WRY_BEGIN_WINDOW_DRAG__"

	// EvalResultMethod carries the settled value of a host-initiated script
	// evaluation back to the host, correlated by a string id.
	EvalResultMethod = "__WRY_EVAL_RESULT__"
)

// ID is a call correlation identifier. The protocol allows any JSON value, so
// the raw encoding is kept and only narrowed where an integer is required.
type ID struct {
	raw json.RawMessage
}

// NumberID returns a numeric identifier.
func NumberID(n int64) *ID {
	return &ID{raw: json.RawMessage(strconv.FormatInt(n, 10))}
}

// StringID returns a string identifier.
func StringID(s string) *ID {
	raw, _ := json.Marshal(s)
	return &ID{raw: raw}
}

// IsNumber reports whether the identifier is a JSON number.
func (id *ID) IsNumber() bool {
	if id == nil || len(id.raw) == 0 {
		return false
	}
	c := id.raw[0]
	return c == '-' || (c >= '0' && c <= '9')
}

// Int32 narrows the identifier to the integer key used by the named-callback
// slot table. Absent ids, non-integers and non-numbers all map to 0; integers
// outside the int32 range wrap.
func (id *ID) Int32() int32 {
	if !id.IsNumber() {
		return 0
	}
	n, err := strconv.ParseInt(string(id.raw), 10, 64)
	if err != nil {
		return 0
	}
	return int32(n)
}

// Str returns the identifier's value when it is a JSON string.
func (id *ID) Str() (string, bool) {
	if id == nil || len(id.raw) == 0 || id.raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(id.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// String returns the JSON encoding of the identifier, suitable for splicing
// into a script statement.
func (id *ID) String() string {
	if id == nil || len(id.raw) == 0 {
		return "null"
	}
	return string(id.raw)
}

// Equal compares two identifiers by their JSON encoding.
func (id *ID) Equal(other *ID) bool {
	if id == nil || other == nil {
		return id == other
	}
	return bytes.Equal(id.raw, other.raw)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if len(id.raw) == 0 {
		return []byte("null"), nil
	}
	return id.raw, nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	compact := new(bytes.Buffer)
	if err := json.Compact(compact, data); err != nil {
		return err
	}
	id.raw = compact.Bytes()
	return nil
}

// Envelope is a decoded inbound call or notification.
type Envelope struct {
	// Callback is the registered name the script addressed. Empty when the
	// message arrived in the bare {id, method, params} form.
	Callback string          `json:"callback,omitempty"`
	ID       *ID             `json:"id,omitempty"`
	Method   string          `json:"method"`
	Params   json.RawMessage `json:"params,omitempty"`
}

// Route returns the name the envelope is dispatched on.
func (e *Envelope) Route() string {
	if e.Callback != "" {
		return e.Callback
	}
	return e.Method
}

// IsNotification reports whether the envelope carries no id.
func (e *Envelope) IsNotification() bool {
	return e.ID == nil
}

// DecodeParams unmarshals the envelope's params into out. Absent params
// decode as an empty array.
func (e *Envelope) DecodeParams(out any) error {
	if len(e.Params) == 0 {
		return json.Unmarshal([]byte("[]"), out)
	}
	return json.Unmarshal(e.Params, out)
}

// Response is an outbound reply for the RPC channel. A nil Result together
// with a nil Error is an acknowledgement and encodes as a null result.
type Response struct {
	ID     *ID `json:"id"`
	Result any `json:"result,omitempty"`
	Error  any `json:"error,omitempty"`
}

// NewResult builds a successful response for id.
func NewResult(id *ID, result any) *Response {
	return &Response{ID: id, Result: result}
}

// NewError builds a failed response for id.
func NewError(id *ID, err any) *Response {
	return &Response{ID: id, Error: err}
}
