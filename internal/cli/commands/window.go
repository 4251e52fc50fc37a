package commands

import (
	"context"
	"fmt"

	"github.com/WilliamVenner/wry/internal/app"
	"github.com/WilliamVenner/wry/internal/config"
	"github.com/WilliamVenner/wry/internal/demo"
	"github.com/WilliamVenner/wry/internal/domain/callback"
	"github.com/WilliamVenner/wry/internal/plugin/wasm"
)

// loadPlugins compiles every configured plugin. release closes them all.
func loadPlugins(ctx context.Context, plugins []config.Plugin) (map[string]callback.Handler, func(), error) {
	handlers := make(map[string]callback.Handler, len(plugins))
	var loaded []*wasm.Callback
	release := func() {
		for _, cb := range loaded {
			cb.Close()
		}
	}

	for _, p := range plugins {
		cb, err := wasm.Load(ctx, p.Name, p.Path)
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("plugin %q: %w", p.Name, err)
		}
		loaded = append(loaded, cb)
		handlers[p.Name] = cb
	}
	return handlers, release, nil
}

// demoWindow is the demo window with the configured plugins bound as
// named callbacks.
func demoWindow(ctx context.Context) (app.WindowConfig, func(), error) {
	cfg := demo.WindowConfig(settings.Window)
	handlers, release, err := loadPlugins(ctx, settings.Plugins)
	if err != nil {
		return app.WindowConfig{}, nil, err
	}
	if len(handlers) > 0 {
		cfg.Callbacks = handlers
	}
	return cfg, release, nil
}

func appOptions() app.Options {
	return app.Options{
		Debug:      settings.Debug,
		Middleware: settings.Middleware(),
	}
}
