package inject_test

import (
	"errors"
	"testing"

	"github.com/WilliamVenner/wry/internal/domain/inject"
	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	queued      []func()
	evaluated   []string
	dispatchErr error
	evalErr     error
}

func (f *fakeTarget) Dispatch(fn func()) error {
	if f.dispatchErr != nil {
		return f.dispatchErr
	}
	f.queued = append(f.queued, fn)
	return nil
}

func (f *fakeTarget) Eval(js string) error {
	f.evaluated = append(f.evaluated, js)
	return f.evalErr
}

func (f *fakeTarget) drain() {
	for len(f.queued) > 0 {
		fn := f.queued[0]
		f.queued = f.queued[1:]
		fn()
	}
}

func TestInject_RunsOnDispatchedThread(t *testing.T) {
	target := &fakeTarget{}
	inj := inject.New(target)

	require.NoError(t, inj.Inject("a()"))
	require.NoError(t, inj.Inject("b()"))

	// Nothing runs until the owning thread drains its queue.
	assert.Empty(t, target.evaluated)
	target.drain()
	assert.Equal(t, []string{"a()", "b()"}, target.evaluated)
}

func TestInject_DispatchFailure(t *testing.T) {
	target := &fakeTarget{dispatchErr: errors.New("webview destroyed")}
	err := inject.New(target).Inject("a()")

	require.Error(t, err)
	assert.Equal(t, rpc.KindInjection, rpc.KindOf(err))
	assert.Empty(t, target.evaluated)
}

func TestInject_EvalFailureIsContained(t *testing.T) {
	target := &fakeTarget{evalErr: errors.New("syntax error")}
	require.NoError(t, inject.New(target).Inject("a("))
	assert.NotPanics(t, target.drain)
	assert.Equal(t, []string{"a("}, target.evaluated)
}

func TestInject_DispatchFailureIsNotLogged(t *testing.T) {
	before := len(logger.GetLogs())
	err := inject.New(&fakeTarget{dispatchErr: errors.New("webview destroyed")}).Inject("a()")
	require.Error(t, err)
	assert.Len(t, logger.GetLogs(), before)
}
