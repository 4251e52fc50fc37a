package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamVenner/wry/internal/app"
	"github.com/WilliamVenner/wry/internal/domain/callback"
	"github.com/WilliamVenner/wry/internal/domain/dispatch"
	"github.com/WilliamVenner/wry/internal/domain/filedrop"
	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/engine/headless"
)

type harness struct {
	eng   *headless.Engine
	app   *app.Application
	proxy *app.Proxy
	ctx   context.Context
	done  chan error
}

func start(t *testing.T, opts app.Options) *harness {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	eng := headless.New()
	a := app.New(eng, opts)
	h := &harness{eng: eng, app: a, proxy: a.Proxy(), ctx: ctx, done: make(chan error, 1)}
	go func() { h.done <- a.Run(ctx) }()
	return h
}

func (h *harness) open(t *testing.T, cfg app.WindowConfig) (window.ID, *headless.WebView) {
	t.Helper()
	if cfg.Attributes.Title == "" {
		cfg.Attributes = window.DefaultAttributes()
	}
	id, err := h.proxy.AddWindow(h.ctx, cfg)
	require.NoError(t, err)
	hv, ok := h.eng.View(id)
	require.True(t, ok)
	return id, hv
}

func (h *harness) webView(t *testing.T, id window.ID) *app.WebView {
	t.Helper()
	var (
		wv *app.WebView
		ok bool
	)
	require.NoError(t, h.eng.Sync(h.ctx, func() { wv, ok = h.app.WebView(id) }))
	require.True(t, ok)
	return wv
}

// barrier waits until every message sent to the window so far has been applied.
func (h *harness) barrier(t *testing.T, id window.ID) {
	t.Helper()
	_, err := h.proxy.Window(id).IsMaximized(h.ctx)
	require.NoError(t, err)
}

func TestApp_RPCRoundTrip(t *testing.T) {
	h := start(t, app.Options{Middleware: []dispatch.Middleware{dispatch.RecoverMiddleware()}})

	var gotProxy window.ID
	id, hv := h.open(t, app.WindowConfig{RPC: func(proxy *app.WindowProxy, call *rpc.Envelope) *rpc.Response {
		gotProxy = proxy.ID()
		switch call.Method {
		case "add":
			var nums []int
			if err := call.DecodeParams(&nums); err != nil {
				return rpc.NewError(call.ID, err.Error())
			}
			return rpc.NewResult(call.ID, nums[0]+nums[1])
		case "explode":
			panic("kaboom")
		}
		return rpc.NewError(call.ID, "unknown method "+call.Method)
	}})

	_, err := hv.EvalSync(h.ctx, `var sum, failure, boom;
		window.rpc.call("add", 2, 3).then(function (v) { sum = v; });
		window.rpc.call("nope").catch(function (e) { failure = e; });
		window.rpc.call("explode").catch(function (e) { boom = e; });`)
	require.NoError(t, err)

	sum, err := hv.EvalSync(h.ctx, "sum")
	require.NoError(t, err)
	assert.EqualValues(t, 5, sum)

	failure, err := hv.EvalSync(h.ctx, "failure")
	require.NoError(t, err)
	assert.Equal(t, "unknown method nope", failure)

	boom, err := hv.EvalSync(h.ctx, "boom")
	require.NoError(t, err)
	assert.Equal(t, "internal error: kaboom", boom)

	assert.Equal(t, id, gotProxy)
	pending, err := hv.EvalSync(h.ctx, "window.external.rpc.pending()")
	require.NoError(t, err)
	assert.EqualValues(t, 0, pending)
}

func TestApp_NamedCallbacks(t *testing.T) {
	h := start(t, app.Options{})

	var saved []string
	_, hv := h.open(t, app.WindowConfig{Callbacks: map[string]callback.Handler{
		"save": callback.HandlerFunc(func(_ int32, params []json.RawMessage) error {
			var doc string
			if err := json.Unmarshal(params[0], &doc); err != nil {
				return err
			}
			if doc == "" {
				return errors.New("empty document")
			}
			saved = append(saved, doc)
			return nil
		}),
	}})

	_, err := hv.EvalSync(h.ctx, `var ok, bad;
		window.save("report").then(function (v) { ok = v; });
		window.save("").catch(function (e) { bad = e; });`)
	require.NoError(t, err)

	ok, err := hv.EvalSync(h.ctx, "ok")
	require.NoError(t, err)
	assert.Equal(t, rpc.AckMessage, ok)

	bad, err := hv.EvalSync(h.ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, "RPC call fail with error empty document", bad)

	slots, err := hv.EvalSync(h.ctx, `Object.keys(window._rpc).filter(function (k) { return window._rpc[k] !== undefined; }).length`)
	require.NoError(t, err)
	assert.EqualValues(t, 0, slots)
	assert.Equal(t, []string{"report"}, saved)
}

func TestApp_WindowMessages(t *testing.T) {
	h := start(t, app.Options{})
	id, hv := h.open(t, app.WindowConfig{})
	w := h.proxy.Window(id)

	require.NoError(t, w.SetTitle("Renamed"))
	require.NoError(t, w.Resize(1024, 768))
	require.NoError(t, w.SetWidth(1000))
	require.NoError(t, w.SetPosition(5, 6))
	require.NoError(t, w.SetY(7))
	require.NoError(t, w.SetAlwaysOnTop(true))
	require.NoError(t, w.Maximize())
	require.NoError(t, w.EvaluateScript("var touched = true;"))

	maximized, err := w.IsMaximized(h.ctx)
	require.NoError(t, err)
	assert.True(t, maximized)

	state := hv.Controls().State()
	assert.Equal(t, "Renamed", state.Title)
	assert.Equal(t, 1000.0, state.Width)
	assert.Equal(t, 768.0, state.Height)
	assert.Equal(t, 5.0, state.X)
	assert.Equal(t, 7.0, state.Y)
	assert.True(t, state.AlwaysOnTop)

	touched, err := hv.EvalSync(h.ctx, "touched")
	require.NoError(t, err)
	assert.Equal(t, true, touched)
}

func TestApp_DragControlMessage(t *testing.T) {
	h := start(t, app.Options{})

	calls := 0
	id, hv := h.open(t, app.WindowConfig{RPC: func(_ *app.WindowProxy, call *rpc.Envelope) *rpc.Response {
		calls++
		return rpc.NewResult(call.ID, nil)
	}})

	_, err := hv.EvalSync(h.ctx, `window.rpc.beginDrag(40, 50)`)
	require.NoError(t, err)
	require.NoError(t, hv.Post(h.ctx, `{"callback":"__rpc__","payload":{"id":1,"method":"__WRY_BEGIN_WINDOW_DRAG__","params":[1,2]}}`))

	require.NoError(t, h.proxy.Window(id).BeginDrag(8, 9))
	h.barrier(t, id)

	assert.Equal(t, []headless.Point{{X: 40, Y: 50}, {X: 1, Y: 2}, {X: 8, Y: 9}}, hv.Controls().State().Drags)
	assert.Zero(t, calls)
	assert.Empty(t, hv.Evaluated())
}

func TestApp_CallEvaluatesExpression(t *testing.T) {
	h := start(t, app.Options{})
	id, _ := h.open(t, app.WindowConfig{})
	wv := h.webView(t, id)

	var n int
	require.NoError(t, wv.Call(h.ctx, "6 * 7", &n))
	assert.Equal(t, 42, n)

	var obj struct {
		Name string `json:"name"`
	}
	require.NoError(t, wv.Call(h.ctx, `Promise.resolve({name: "wry"})`, &obj))
	assert.Equal(t, "wry", obj.Name)

	err := wv.Call(h.ctx, `Promise.reject(new Error("denied"))`, nil)
	assert.ErrorIs(t, err, app.ErrScript)
	assert.Contains(t, err.Error(), "denied")
}

func TestApp_FileDrop(t *testing.T) {
	h := start(t, app.Options{})

	var got filedrop.Event
	_, hv := h.open(t, app.WindowConfig{FileDrop: func(_ *app.WindowProxy, ev filedrop.Event) bool {
		got = ev
		return true
	}})

	blocked, err := hv.DropFiles(h.ctx, filedrop.Event{Kind: filedrop.Dropped, Data: filedrop.Data{Paths: []string{"/tmp/x"}}})
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, []string{"/tmp/x"}, got.Data.Paths)
}

func TestApp_CloseLastWindowStopsLoop(t *testing.T) {
	h := start(t, app.Options{})
	noop := callback.HandlerFunc(func(int32, []json.RawMessage) error { return nil })
	first, _ := h.open(t, app.WindowConfig{Callbacks: map[string]callback.Handler{"a": noop}})
	second, _ := h.open(t, app.WindowConfig{})

	require.NoError(t, h.proxy.Window(first).Close())
	ev, err := h.proxy.ListenEvent(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, app.Event{Window: first, Kind: app.CloseRequested}, ev)
	assert.Empty(t, h.app.Registry().Names(first))

	// Messages for a closed window are dropped, replies fail.
	_, err = h.proxy.Window(first).IsMaximized(h.ctx)
	assert.Error(t, err)

	require.NoError(t, h.proxy.Window(second).Close())
	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after the last window closed")
	}

	ev, err = h.proxy.ListenEvent(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, second, ev.Window)

	err = h.proxy.Window(second).SetTitle("late")
	assert.ErrorIs(t, err, rpc.ErrLoopClosed)
	_, err = h.proxy.AddWindow(h.ctx, app.WindowConfig{})
	assert.ErrorIs(t, err, rpc.ErrLoopClosed)
	_, err = h.proxy.ListenEvent(h.ctx)
	assert.ErrorIs(t, err, rpc.ErrLoopClosed)
}

func TestApp_AddWindowRejectsReservedCallback(t *testing.T) {
	h := start(t, app.Options{})
	noop := callback.HandlerFunc(func(int32, []json.RawMessage) error { return nil })

	_, err := h.proxy.AddWindow(h.ctx, app.WindowConfig{
		Attributes: window.DefaultAttributes(),
		Callbacks:  map[string]callback.Handler{rpc.ChannelName: noop},
	})
	assert.Error(t, err)
}

func TestProxy_WebView(t *testing.T) {
	h := start(t, app.Options{})
	id, _ := h.open(t, app.WindowConfig{})

	wv, err := h.proxy.WebView(h.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, wv.ID())

	var got string
	require.NoError(t, wv.Call(h.ctx, `"ok"`, &got))
	assert.Equal(t, "ok", got)

	_, err = h.proxy.WebView(h.ctx, id+100)
	assert.ErrorContains(t, err, "not found")
}

func TestApp_RateLimitIsPerWindow(t *testing.T) {
	h := start(t, app.Options{Middleware: []dispatch.Middleware{dispatch.RateLimitMiddleware(0.0001, 1)}})
	ok := func(_ *app.WindowProxy, call *rpc.Envelope) *rpc.Response { return rpc.NewResult(call.ID, "ok") }

	_, first := h.open(t, app.WindowConfig{RPC: ok})
	_, second := h.open(t, app.WindowConfig{RPC: ok})

	call := `var got = undefined; window.rpc.call("ping").then(
		function (v) { got = v; },
		function (e) { got = "rejected: " + e; });`
	for _, hv := range []*headless.WebView{first, second} {
		_, err := hv.EvalSync(h.ctx, call)
		require.NoError(t, err)
		got, err := hv.EvalSync(h.ctx, "got")
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
	}

	// The first window's own bucket is spent.
	_, err := first.EvalSync(h.ctx, call)
	require.NoError(t, err)
	got, err := first.EvalSync(h.ctx, "got")
	require.NoError(t, err)
	assert.Equal(t, "rejected: rate limit exceeded", got)
}
