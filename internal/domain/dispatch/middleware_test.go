package dispatch_test

import (
	"context"
	"testing"

	"github.com/WilliamVenner/wry/internal/domain/dispatch"
	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(_ context.Context, call *rpc.Envelope) *rpc.Response {
	return rpc.NewResult(call.ID, call.Method)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) dispatch.Middleware {
		return func(next dispatch.RPCHandler) dispatch.RPCHandler {
			return func(ctx context.Context, call *rpc.Envelope) *rpc.Response {
				order = append(order, name)
				return next(ctx, call)
			}
		}
	}

	h := dispatch.Chain(mark("outer"), mark("inner"))(echoHandler)
	resp := h(context.Background(), &rpc.Envelope{ID: rpc.NumberID(1), Method: "m"})

	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, "m", resp.Result)
}

func TestLoggingMiddleware(t *testing.T) {
	h := dispatch.LoggingMiddleware()(echoHandler)
	resp := h(context.Background(), &rpc.Envelope{ID: rpc.NumberID(1), Method: "Arith.Add"})
	require.NotNil(t, resp)
	assert.Equal(t, "Arith.Add", resp.Result)

	h = dispatch.LoggingMiddleware()(func(context.Context, *rpc.Envelope) *rpc.Response { return nil })
	assert.Nil(t, h(context.Background(), &rpc.Envelope{Method: "notify"}))
}

func TestRecoverMiddleware(t *testing.T) {
	h := dispatch.RecoverMiddleware()(func(context.Context, *rpc.Envelope) *rpc.Response {
		panic("boom")
	})

	resp := h(context.Background(), &rpc.Envelope{ID: rpc.NumberID(7), Method: "m"})
	require.NotNil(t, resp)
	assert.Equal(t, "7", resp.ID.String())
	assert.Equal(t, "internal error: boom", resp.Error)
}

func TestRateLimitMiddleware(t *testing.T) {
	h := dispatch.RateLimitMiddleware(0.001, 2)(echoHandler)

	for i := 0; i < 2; i++ {
		resp := h(context.Background(), &rpc.Envelope{ID: rpc.NumberID(int64(i)), Method: "m"})
		assert.Nil(t, resp.Error)
	}

	resp := h(context.Background(), &rpc.Envelope{ID: rpc.NumberID(3), Method: "m"})
	assert.Equal(t, "rate limit exceeded", resp.Error)
	assert.Equal(t, "3", resp.ID.String())
}

func TestDispatcher_AppliesMiddleware(t *testing.T) {
	rec := &recorder{}
	d := dispatch.New(dispatch.Options{
		Window:     1,
		Injector:   rec,
		RPC:        func(context.Context, *rpc.Envelope) *rpc.Response { panic("bad handler") },
		Middleware: []dispatch.Middleware{dispatch.RecoverMiddleware()},
	})

	err := d.Handle(context.Background(), `{"callback":"__rpc__","payload":{"id":1,"method":"m"}}`)
	assert.Equal(t, rpc.KindHandler, rpc.KindOf(err))
	assert.Equal(t, []string{`window.external.rpc._error(1, "internal error: bad handler")`}, rec.statements())
}

func TestRateLimitMiddleware_BucketPerHandler(t *testing.T) {
	mw := dispatch.RateLimitMiddleware(0.001, 1)
	a, b := mw(echoHandler), mw(echoHandler)

	assert.Nil(t, a(context.Background(), &rpc.Envelope{ID: rpc.NumberID(1), Method: "m"}).Error)
	assert.Nil(t, b(context.Background(), &rpc.Envelope{ID: rpc.NumberID(1), Method: "m"}).Error)
	assert.Equal(t, "rate limit exceeded", a(context.Background(), &rpc.Envelope{ID: rpc.NumberID(2), Method: "m"}).Error)
}
