//go:build native && cgo

package commands

import (
	"github.com/WilliamVenner/wry/internal/engine"
	"github.com/WilliamVenner/wry/internal/engine/native"
)

const nativeBuilt = true

func nativeEngine(debug bool) (engine.Engine, bool) {
	return native.New(debug), true
}
