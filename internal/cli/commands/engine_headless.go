//go:build !(native && cgo)

package commands

import "github.com/WilliamVenner/wry/internal/engine"

const nativeBuilt = false

func nativeEngine(bool) (engine.Engine, bool) {
	return nil, false
}
