// Package script holds the JavaScript every page is initialised with: the
// message channel binding, the promise-based rpc client and per-callback
// shims.
package script

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/WilliamVenner/wry/internal/domain/rpc"
)

// MessageHandlerName is the global function an engine must expose to page
// script; it receives every message posted through window.external.invoke.
const MessageHandlerName = "__wryPostMessage"

//go:embed rpc.js
var clientLibrary string

// ClientLibrary returns the rpc client script. It expects Prelude to have run.
func ClientLibrary() string {
	return clientLibrary
}

// Prelude defines window.external.invoke over the engine's message handler.
func Prelude() string {
	return fmt.Sprintf(
		"window.external = window.external || {};\n"+
			"window.external.invoke = function (x) { %s(String(x)); };\n",
		MessageHandlerName)
}

// CallbackBinding defines window[name](...args), which calls the named
// callback registered on the host and returns its promise.
func CallbackBinding(name string) string {
	quoted := quote(name)
	return fmt.Sprintf(
		"window[%s] = function () { return window.rpc.invoke.apply(null, [%s].concat(Array.prototype.slice.call(arguments))); };\n",
		quoted, quoted)
}

// InitScripts returns the ordered scripts a new page runs before its own
// content: prelude, client library, callback bindings, then user scripts.
func InitScripts(callbacks []string, user []string) []string {
	scripts := []string{Prelude(), ClientLibrary()}
	for _, name := range callbacks {
		scripts = append(scripts, CallbackBinding(name))
	}
	return append(scripts, user...)
}

// EvalWrapper wraps a JavaScript expression so its settled value is posted
// back on the eval-result control method under id. The expression may
// evaluate to a promise. The posted params are [value, error].
func EvalWrapper(id, expr string) string {
	return fmt.Sprintf(`(function () {
  var id = %s;
  function send(value, error) {
    var msg;
    try {
      msg = JSON.stringify({ id: id, method: %s, params: [value === undefined ? null : value, error] });
    } catch (e) {
      msg = JSON.stringify({ id: id, method: %s, params: [null, String(e)] });
    }
    window.external.invoke(msg);
  }
  function fail(e) {
    send(null, String(e && e.message !== undefined ? e.message : e));
  }
  try {
    Promise.resolve((function () { return (%s); })()).then(function (v) { send(v, null); }, fail);
  } catch (e) {
    fail(e);
  }
})();`, quote(id), quote(rpc.EvalResultMethod), quote(rpc.EvalResultMethod), expr)
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
