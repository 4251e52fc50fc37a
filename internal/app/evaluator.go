package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/domain/script"
	"github.com/WilliamVenner/wry/internal/logger"
)

// ErrScript marks a host-initiated evaluation that threw or rejected in the page.
var ErrScript = errors.New("script error")

type evalResult struct {
	value json.RawMessage
	err   error
}

// evaluator correlates host-to-script evaluations with the results the page
// posts back on the eval-result control method.
type evaluator struct {
	inject func(js string) error

	mu      sync.Mutex
	pending map[string]chan evalResult
}

func newEvaluator(inject func(js string) error) *evaluator {
	return &evaluator{inject: inject, pending: make(map[string]chan evalResult)}
}

func (e *evaluator) call(ctx context.Context, expr string, out any) error {
	id := uuid.NewString()
	ch := make(chan evalResult, 1)

	e.mu.Lock()
	e.pending[id] = ch
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.pending, id)
		e.mu.Unlock()
	}()

	if err := e.inject(script.EvalWrapper(id, expr)); err != nil {
		return err
	}

	select {
	case res := <-ch:
		if res.err != nil {
			return res.err
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(res.value, out); err != nil {
			return fmt.Errorf("decode script result: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// resolve handles an eval-result message: params are [value, error].
func (e *evaluator) resolve(env *rpc.Envelope) {
	id, ok := env.ID.Str()
	if !ok {
		logger.Warnf("eval result without a string id: %s", env.ID)
		return
	}

	e.mu.Lock()
	ch, ok := e.pending[id]
	e.mu.Unlock()
	if !ok {
		logger.Debugf("eval result %s has no waiter", id)
		return
	}

	select {
	case ch <- decodeEvalResult(env):
	default:
	}
}

func decodeEvalResult(env *rpc.Envelope) evalResult {
	var parts []json.RawMessage
	if err := env.DecodeParams(&parts); err != nil || len(parts) != 2 {
		return evalResult{err: fmt.Errorf("malformed eval result %s", env.ID)}
	}
	if string(parts[1]) != "null" {
		var msg string
		if err := json.Unmarshal(parts[1], &msg); err != nil {
			msg = string(parts[1])
		}
		return evalResult{err: fmt.Errorf("%w: %s", ErrScript, msg)}
	}
	return evalResult{value: parts[0]}
}
