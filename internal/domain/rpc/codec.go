package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

type wireCall struct {
	ID     *ID             `json:"id"`
	Method *string         `json:"method"`
	Params json.RawMessage `json:"params"`
}

type wireMessage struct {
	Callback string          `json:"callback"`
	Payload  json.RawMessage `json:"payload"`
	wireCall
}

var errMissingMethod = errors.New("missing method")

// Decode parses a raw message posted by the page. Two shapes are accepted:
// the client library's framed {callback, payload: {id, method, params}} and a
// bare {id, method, params} whose route is the method itself. The returned
// error is always of KindDecode.
func Decode(raw string) (*Envelope, error) {
	var msg wireMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return nil, decodeError(err)
	}

	call := msg.wireCall
	if len(msg.Payload) > 0 && string(msg.Payload) != "null" {
		call = wireCall{}
		if err := json.Unmarshal(msg.Payload, &call); err != nil {
			return nil, decodeError(fmt.Errorf("payload: %w", err))
		}
	}
	if call.Method == nil {
		return nil, decodeError(errMissingMethod)
	}

	return &Envelope{
		Callback: msg.Callback,
		ID:       call.ID,
		Method:   *call.Method,
		Params:   call.Params,
	}, nil
}

// NormalizeParams turns a params value into an ordered parameter list: an
// array is used as-is, any other value becomes a one-element list and an
// absent value an empty one.
func NormalizeParams(raw json.RawMessage) ([]json.RawMessage, error) {
	if len(raw) == 0 {
		return []json.RawMessage{}, nil
	}
	if raw[0] != '[' {
		return []json.RawMessage{raw}, nil
	}
	var params []json.RawMessage
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, decodeError(fmt.Errorf("params: %w", err))
	}
	if params == nil {
		params = []json.RawMessage{}
	}
	return params, nil
}

// EncodeResponse renders the statement settling the page promise for resp.
// An error takes precedence over a result; neither is an acknowledgement with
// a null result. When the payload cannot be marshalled the statement carries
// null instead and a KindEncode error is returned alongside it, so the
// statement is always usable.
func EncodeResponse(resp *Response) (string, error) {
	fn, payload := "_result", resp.Result
	if resp.Error != nil {
		fn, payload = "_error", resp.Error
	}

	encoded := []byte("null")
	var encErr error
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			encErr = &Error{Kind: KindEncode, Err: err}
		} else {
			encoded = data
		}
	}

	return fmt.Sprintf("window.external.rpc.%s(%s, %s)", fn, resp.ID.String(), encoded), encErr
}

// AckMessage is the value a successful named callback resolves with.
const AckMessage = "RPC call success"

// EncodeCallbackOutcome renders the statement settling and clearing the
// window._rpc slot for a named callback call.
func EncodeCallbackOutcome(id int32, err error) string {
	slot := "window._rpc[" + strconv.FormatInt(int64(id), 10) + "]"
	if err != nil {
		// The failure text is arbitrary; quote it so it cannot break out of
		// the string literal.
		msg, _ := json.Marshal("RPC call fail with error " + err.Error())
		return fmt.Sprintf("%s.reject(%s); %s = undefined", slot, msg, slot)
	}
	return fmt.Sprintf("%s.resolve(%q); %s = undefined", slot, AckMessage, slot)
}
