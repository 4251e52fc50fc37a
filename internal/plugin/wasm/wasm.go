// Package wasm backs named callbacks with WASI command modules. Each call
// instantiates the module afresh: stdin carries {"id": n, "params": [...]}
// and the module may print {"error": "..."} to stdout to fail the call. A
// non-zero exit code fails it as well.
package wasm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/WilliamVenner/wry/internal/domain/callback"
)

type request struct {
	ID     int32             `json:"id"`
	Params []json.RawMessage `json:"params"`
}

type response struct {
	Error string `json:"error"`
}

// Callback is a callback.Handler running a compiled WASI module.
type Callback struct {
	name    string
	runtime wazero.Runtime
	module  wazero.CompiledModule

	// Calls are serialised; a module instance is not reentrant.
	mu sync.Mutex
}

var _ callback.Handler = (*Callback)(nil)

// Load compiles the module at path.
func Load(ctx context.Context, name, path string) (*Callback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, name, data)
}

// Compile compiles a module from its binary. ctx only bounds compilation;
// the runtime lives until Close.
func Compile(ctx context.Context, name string, binary []byte) (*Callback, error) {
	r := wazero.NewRuntime(context.Background())
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		r.Close(context.Background())
		return nil, fmt.Errorf("wasi: %w", err)
	}
	mod, err := r.CompileModule(ctx, binary)
	if err != nil {
		r.Close(context.Background())
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &Callback{name: name, runtime: r, module: mod}, nil
}

func (c *Callback) Name() string { return c.name }

// Invoke runs the module once for the call.
func (c *Callback) Invoke(id int32, params []json.RawMessage) error {
	if params == nil {
		params = []json.RawMessage{}
	}
	in, err := json.Marshal(request{ID: id, Params: params})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var stdout, stderr bytes.Buffer
	config := wazero.NewModuleConfig().
		WithName("").
		WithStdin(bytes.NewReader(in)).
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithArgs(c.name)

	// For WASI commands instantiation *is* the execution.
	ctx := context.Background()
	mod, err := c.runtime.InstantiateModule(ctx, c.module, config)
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		var exitErr *sys.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				return fmt.Errorf("%s exited with code %d", c.name, exitErr.ExitCode())
			}
			return fmt.Errorf("%s exited with code %d: %s", c.name, exitErr.ExitCode(), msg)
		}
		return fmt.Errorf("%s: %w", c.name, err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil
	}
	var resp response
	if err := json.Unmarshal(out, &resp); err != nil {
		return fmt.Errorf("%s: bad output: %w", c.name, err)
	}
	if resp.Error != "" {
		return errors.New(resp.Error)
	}
	return nil
}

func (c *Callback) Close() error {
	return c.runtime.Close(context.Background())
}
