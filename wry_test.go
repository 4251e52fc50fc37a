package wry_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamVenner/wry"
)

func TestHeadlessCall(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := wry.NewHeadless(wry.Options{})
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	var greeted []string
	proxy := a.Proxy()
	id, err := proxy.AddWindow(ctx, wry.WindowConfig{
		Attributes: wry.DefaultAttributes(),
		RPC: func(_ *wry.WindowProxy, call *wry.Envelope) *wry.Response {
			var names []string
			if err := call.DecodeParams(&names); err != nil || len(names) == 0 {
				return wry.NewError(call.ID, "want a name")
			}
			return wry.NewResult(call.ID, "hi "+names[0])
		},
		Callbacks: map[string]wry.Callback{
			"greet": wry.CallbackFunc(func(_ int32, params []json.RawMessage) error {
				var name string
				if err := json.Unmarshal(params[0], &name); err != nil {
					return err
				}
				greeted = append(greeted, name)
				return nil
			}),
		},
	})
	require.NoError(t, err)

	wv, err := proxy.WebView(ctx, id)
	require.NoError(t, err)

	var reply string
	require.NoError(t, wv.Call(ctx, `window.rpc.call("hello", "page")`, &reply))
	assert.Equal(t, "hi page", reply)

	var ack string
	require.NoError(t, wv.Call(ctx, `window.greet("ada")`, &ack))
	assert.Equal(t, "RPC call success", ack)
	assert.Equal(t, []string{"ada"}, greeted)

	require.NoError(t, proxy.Window(id).Close())
	ev, err := proxy.ListenEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, wry.Event{Window: id, Kind: wry.CloseRequested}, ev)
	require.NoError(t, <-done)
}
