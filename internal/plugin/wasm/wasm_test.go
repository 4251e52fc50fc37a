package wasm_test

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamVenner/wry/internal/domain/callback"
	"github.com/WilliamVenner/wry/internal/domain/rpc"
	"github.com/WilliamVenner/wry/internal/plugin/wasm"
)

// Minimal WASI command modules, assembled by hand.

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func vec(items ...[]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func section(id byte, body []byte) []byte {
	return append(append([]byte{id}, uleb(uint32(len(body)))...), body...)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// i32Const only handles 0..63, which is all these modules need.
func i32Const(v byte) []byte { return []byte{0x41, v} }

const (
	procExit = 0
	fdWrite  = 1
)

// module imports proc_exit and fd_write and exports memory plus a _start
// with the given body. data is placed at offset 0.
func module(body []byte, data []byte) []byte {
	types := section(1, vec(
		[]byte{0x60, 0x01, 0x7f, 0x00},                         // (i32) -> ()
		[]byte{0x60, 0x00, 0x00},                               // () -> ()
		[]byte{0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f}, // (i32 x4) -> i32
	))
	imports := section(2, vec(
		cat(name("wasi_snapshot_preview1"), name("proc_exit"), []byte{0x00, 0x00}),
		cat(name("wasi_snapshot_preview1"), name("fd_write"), []byte{0x00, 0x02}),
	))
	funcs := section(3, vec([]byte{0x01}))
	memory := section(5, vec([]byte{0x00, 0x01}))
	exports := section(7, vec(
		cat(name("_start"), []byte{0x00, 0x02}),
		cat(name("memory"), []byte{0x02, 0x00}),
	))
	fn := cat([]byte{0x00}, body, []byte{0x0b})
	code := section(10, vec(cat(uleb(uint32(len(fn))), fn)))

	out := cat([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, types, imports, funcs, memory, exports, code)
	if len(data) > 0 {
		seg := cat([]byte{0x00}, i32Const(0), []byte{0x0b}, uleb(uint32(len(data))), data)
		out = append(out, section(11, vec(seg))...)
	}
	return out
}

func exitModule(code byte) []byte {
	return module(cat(i32Const(code), []byte{0x10, procExit}), nil)
}

// printModule writes msg to stdout. Layout: iovec at 0, nwritten at 8, text at 16.
func printModule(msg string) []byte {
	data := make([]byte, 16+len(msg))
	binary.LittleEndian.PutUint32(data[0:], 16)
	binary.LittleEndian.PutUint32(data[4:], uint32(len(msg)))
	copy(data[16:], msg)

	body := cat(i32Const(1), i32Const(0), i32Const(1), i32Const(8), []byte{0x10, fdWrite, 0x1a})
	return module(body, data)
}

func compile(t *testing.T, binary []byte) *wasm.Callback {
	t.Helper()
	cb, err := wasm.Compile(context.Background(), "plugin", binary)
	require.NoError(t, err)
	t.Cleanup(func() { cb.Close() })
	return cb
}

func TestCallback_Success(t *testing.T) {
	cb := compile(t, module(nil, nil))
	assert.NoError(t, cb.Invoke(1, []json.RawMessage{json.RawMessage(`"x"`)}))
	// Fresh instance per call.
	assert.NoError(t, cb.Invoke(2, nil))
}

func TestCallback_ExitCodeFails(t *testing.T) {
	cb := compile(t, exitModule(3))
	err := cb.Invoke(1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 3")

	assert.NoError(t, compile(t, exitModule(0)).Invoke(1, nil))
}

func TestCallback_ErrorOutputFails(t *testing.T) {
	cb := compile(t, printModule(`{"error":"bad input"}`))
	assert.EqualError(t, cb.Invoke(1, nil), "bad input")

	assert.NoError(t, compile(t, printModule(`{"ok":true}`)).Invoke(1, nil))

	err := compile(t, printModule(`not json`)).Invoke(1, nil)
	assert.ErrorContains(t, err, "bad output")
}

func TestCallback_OutlivesCompileContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cb, err := wasm.Compile(ctx, "plugin", module(nil, nil))
	require.NoError(t, err)
	defer cb.Close()

	cancel()
	assert.NoError(t, cb.Invoke(1, nil))
}

func TestCallback_ThroughRegistry(t *testing.T) {
	reg := callback.NewRegistry()
	require.NoError(t, reg.Register(1, "fail", compile(t, exitModule(1))))

	err := reg.Invoke(1, "fail", 5, nil)
	assert.Equal(t, rpc.KindHandler, rpc.KindOf(err))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.wasm")
	require.NoError(t, os.WriteFile(path, module(nil, nil), 0644))

	cb, err := wasm.Load(context.Background(), "ok", path)
	require.NoError(t, err)
	defer cb.Close()
	assert.Equal(t, "ok", cb.Name())
	assert.NoError(t, cb.Invoke(0, nil))

	_, err = wasm.Load(context.Background(), "missing", filepath.Join(t.TempDir(), "nope.wasm"))
	assert.Error(t, err)

	_, err = wasm.Compile(context.Background(), "junk", []byte("not wasm"))
	assert.Error(t, err)
}
