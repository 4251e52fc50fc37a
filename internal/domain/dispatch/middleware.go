package dispatch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/logger"
)

// Middleware wraps an RPCHandler.
type Middleware func(next RPCHandler) RPCHandler

// Chain composes middlewares so the first one is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next RPCHandler) RPCHandler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// LoggingMiddleware logs every RPC call with its duration and outcome.
func LoggingMiddleware() Middleware {
	return func(next RPCHandler) RPCHandler {
		return func(ctx context.Context, call *rpc.Envelope) *rpc.Response {
			start := time.Now()
			resp := next(ctx, call)
			duration := time.Since(start)

			switch {
			case resp == nil:
				logger.Debugf("rpc %s id=%s: no reply (%s)", call.Method, call.ID, duration)
			case resp.Error != nil:
				logger.Infof("rpc %s id=%s: error %v (%s)", call.Method, call.ID, resp.Error, duration)
			default:
				logger.Debugf("rpc %s id=%s: ok (%s)", call.Method, call.ID, duration)
			}
			return resp
		}
	}
}

// RecoverMiddleware turns a handler panic into an error reply.
func RecoverMiddleware() Middleware {
	return func(next RPCHandler) RPCHandler {
		return func(ctx context.Context, call *rpc.Envelope) (resp *rpc.Response) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("rpc %s panicked: %v", call.Method, r)
					resp = rpc.NewError(call.ID, fmt.Sprintf("internal error: %v", r))
				}
			}()
			return next(ctx, call)
		}
	}
}

// RateLimitMiddleware rejects calls beyond a token bucket of r calls per
// second with the given burst. Every handler it wraps gets its own bucket,
// so each window is limited separately.
func RateLimitMiddleware(r float64, burst int) Middleware {
	return func(next RPCHandler) RPCHandler {
		limiter := rate.NewLimiter(rate.Limit(r), burst)
		return func(ctx context.Context, call *rpc.Envelope) *rpc.Response {
			if !limiter.Allow() {
				return rpc.NewError(call.ID, "rate limit exceeded")
			}
			return next(ctx, call)
		}
	}
}
