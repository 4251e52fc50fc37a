//go:build native && cgo

package wry

import (
	"github.com/WilliamVenner/wry/internal/app"
	"github.com/WilliamVenner/wry/internal/engine/native"
)

// New returns an application on the platform webview. The platform engine
// hosts a single window. Call it from the main goroutine.
func New(opts Options) *Application {
	return app.New(native.New(opts.Debug), opts)
}
