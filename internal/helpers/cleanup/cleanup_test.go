package cleanup

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/mocondi/logger/internal/crashlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	mu.Lock()
	cleanupFns = nil
	mu.Unlock()
	errMu.Lock()
	errorFns = nil
	errMu.Unlock()
}

func TestRunCleanup_ReverseOrder(t *testing.T) {
	reset(t)
	var order []int
	Register(func() error { order = append(order, 1); return nil })
	Register(func() error { order = append(order, 2); return nil })
	Register(func() error { order = append(order, 3); return nil })

	assert.Zero(t, RunCleanup())
	assert.Equal(t, []int{3, 2, 1}, order)

	order = nil
	RunCleanup()
	assert.Empty(t, order, "hooks run once")
}

func TestUnregister(t *testing.T) {
	reset(t)
	called := false
	id := Register(func() error { called = true; return nil })
	Unregister(id)

	RunCleanup()
	assert.False(t, called)
}

func TestRunCleanup_ContainsFailures(t *testing.T) {
	reset(t)
	ran := false
	Register(func() error { ran = true; return nil })
	Register(func() error { panic("bad hook") })
	Register(func() error { return errors.New("flush failed") })

	assert.Equal(t, 2, RunCleanup())
	assert.True(t, ran, "a failing hook must not stop the rest")
}

func TestRunErrorCleanup(t *testing.T) {
	reset(t)
	calls := 0
	RegisterError(func() error { calls++; return nil })
	id := RegisterError(func() error { calls += 10; return nil })
	UnregisterError(id)

	assert.Zero(t, RunErrorCleanup())
	assert.Equal(t, 1, calls)
}

func TestHandle_RunsHooksAndExits(t *testing.T) {
	reset(t)

	path := filepath.Join(t.TempDir(), "crash.log")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	prevExit, prevCrash := exit, crash
	t.Cleanup(func() { exit, crash = prevExit, prevCrash })

	code := -1
	exit = func(c int) { code = c }
	crash = crashlog.New(f)

	var order []string
	Register(func() error { order = append(order, "stop logger"); return nil })
	RegisterError(func() error { order = append(order, "error hook"); return nil })

	handle(syscall.SIGTERM)

	assert.Equal(t, 1, code)
	assert.Equal(t, []string{"error hook", "stop logger"}, order)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "received terminated, draining")
}
