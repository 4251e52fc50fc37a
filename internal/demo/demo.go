// Package demo is the RPC example window: a page with two buttons, one
// toggling fullscreen and one sending parameters for a greeting.
package demo

import (
	"encoding/json"
	"fmt"

	"github.com/WilliamVenner/wry/internal/app"
	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/logger"
)

// Page is the demo markup.
const Page = `<!DOCTYPE html>
<html>
<body>
<script>
let fullscreen = false;
async function toggleFullScreen() {
    await rpc.call('fullscreen', !fullscreen);
    fullscreen = !fullscreen;
}

async function getAsyncRpcResult() {
    const reply = await rpc.call('send-parameters', {'message': 'WRY'});
    document.getElementById('rpc-result').innerText = reply;
}
</script>
<div data-wry-drag-region style="height: 24px; background: #ddd"></div>
<div><button onclick="toggleFullScreen();">Toggle fullscreen</button></div>
<div><button onclick="getAsyncRpcResult();">Send parameters</button></div>
<div id="rpc-result"></div>
</body>
</html>
`

// MessageParameters is the argument of send-parameters.
type MessageParameters struct {
	Message string `json:"message"`
}

// Fullscreener is the part of a window the demo drives.
type Fullscreener interface {
	SetFullscreen(fullscreen bool) error
}

// Handle answers the demo's RPC calls. Calls whose params are missing or do
// not parse get no reply at all.
func Handle(w Fullscreener, call *rpc.Envelope) *rpc.Response {
	if len(call.Params) == 0 || string(call.Params) == "null" {
		return nil
	}
	switch call.Method {
	case "fullscreen":
		var args []bool
		if err := call.DecodeParams(&args); err != nil {
			return nil
		}
		if len(args) > 0 && w != nil {
			// The call is acknowledged whether or not the window complied.
			if err := w.SetFullscreen(args[0]); err != nil {
				logger.Warnf("demo: set fullscreen: %v", err)
			}
		}
		return rpc.NewResult(call.ID, nil)

	case "send-parameters":
		var args []MessageParameters
		if err := call.DecodeParams(&args); err != nil {
			return nil
		}
		if len(args) == 0 {
			return rpc.NewResult(call.ID, nil)
		}
		return rpc.NewResult(call.ID, fmt.Sprintf("Hello, %s!", args[0].Message))
	}
	return nil
}

// RPC adapts Handle to a window RPC handler.
func RPC(proxy *app.WindowProxy, call *rpc.Envelope) *rpc.Response {
	var w Fullscreener
	if proxy != nil {
		w = proxy
	}
	return Handle(w, call)
}

// WindowConfig returns the demo window.
func WindowConfig(attrs window.Attributes) app.WindowConfig {
	if attrs.URL == "" && attrs.HTML == "" {
		attrs.HTML = Page
	}
	if attrs.Title == "" || attrs.Title == window.DefaultAttributes().Title {
		attrs.Title = "wry rpc demo"
	}
	return app.WindowConfig{Attributes: attrs, RPC: RPC}
}

// Script is what the demo page's buttons send, in order, as raw messages.
func Script() []string {
	calls := []struct {
		id     int
		method string
		params any
	}{
		{1, "fullscreen", []any{true}},
		{2, "send-parameters", []any{MessageParameters{Message: "WRY"}}},
		{3, "fullscreen", []any{false}},
	}
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		raw, _ := json.Marshal(map[string]any{
			"callback": rpc.ChannelName,
			"payload":  map[string]any{"id": c.id, "method": c.method, "params": c.params},
		})
		out = append(out, string(raw))
	}
	return out
}
