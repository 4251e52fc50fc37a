package inject

import (
	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/logger"
)

// Target is the webview a reply statement runs in. Dispatch schedules f on
// the thread owning the webview; Eval runs script and may only be called
// from that thread.
type Target interface {
	Dispatch(f func()) error
	Eval(js string) error
}

// Injector runs reply statements in a webview, fire-and-forget.
type Injector struct {
	target Target
}

func New(target Target) *Injector {
	return &Injector{target: target}
}

// Inject schedules js on the webview's UI thread and returns without waiting
// for it to run. Evaluation failures are only logged. A non-nil error means
// the statement could not even be scheduled, for example because the webview
// is gone; the caller's promise will then never settle. Reporting that
// error is left to the caller.
func (i *Injector) Inject(js string) error {
	err := i.target.Dispatch(func() {
		if err := i.target.Eval(js); err != nil {
			logger.Errorf("%v", rpc.InjectionError(err))
		}
	})
	if err != nil {
		return rpc.InjectionError(err)
	}
	return nil
}
