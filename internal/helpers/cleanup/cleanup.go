// Package cleanup runs teardown hooks when the process is interrupted, most
// importantly stopping the logger so that pending records reach the file.
package cleanup

import (
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/lattesec/log"
	"github.com/mocondi/logger/internal/crashlog"
	"github.com/mocondi/logger/internal/helpers/nopanic"
)

type CleanupFunc func() error

type hook struct {
	id uint64
	fn CleanupFunc
}

var (
	once sync.Once

	idGen atomic.Uint64

	errMu    sync.Mutex
	errorFns []hook

	mu         sync.Mutex
	cleanupFns []hook

	// replaced in tests
	exit  = os.Exit
	crash = crashlog.New(os.Stderr)
)

// Register registers a cleanup function that is called on exit. Functions
// run in reverse registration order.
func Register(fn CleanupFunc) uint64 {
	id := idGen.Add(1)
	mu.Lock()
	cleanupFns = append(cleanupFns, hook{id, fn})
	mu.Unlock()
	return id
}

func Unregister(id uint64) {
	mu.Lock()
	cleanupFns = remove(cleanupFns, id)
	mu.Unlock()
}

// RegisterError registers a cleanup function that is only called on an
// error exit, before the regular ones.
func RegisterError(fn CleanupFunc) uint64 {
	id := idGen.Add(1)
	errMu.Lock()
	errorFns = append(errorFns, hook{id, fn})
	errMu.Unlock()
	return id
}

func UnregisterError(id uint64) {
	errMu.Lock()
	errorFns = remove(errorFns, id)
	errMu.Unlock()
}

func remove(hooks []hook, id uint64) []hook {
	return slices.DeleteFunc(hooks, func(h hook) bool { return h.id == id })
}

// RunErrorCleanup runs and forgets every error hook. It returns how many
// hooks failed.
func RunErrorCleanup() int {
	errMu.Lock()
	fns := errorFns
	errorFns = nil
	errMu.Unlock()
	return run("error cleanup", fns)
}

// RunCleanup runs and forgets every cleanup hook. It returns how many hooks
// failed.
func RunCleanup() int {
	mu.Lock()
	fns := cleanupFns
	cleanupFns = nil
	mu.Unlock()
	return run("cleanup", fns)
}

func run(kind string, fns []hook) int {
	failed := 0
	for i := len(fns) - 1; i >= 0; i-- {
		name := fmt.Sprintf("%s %d", kind, fns[i].id)
		if err := nopanic.RunErr(name, fns[i].fn); err != nil {
			failed++
			log.Error().
				WithMeta("scope", "cleanup").
				Msgf("%s failed: %v", name, err).Send()
		}
	}
	return failed
}

// Listen blocks until SIGINT or SIGTERM, runs every hook and exits with
// status 1. Only the first call listens; later calls return immediately.
func Listen() {
	once.Do(func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)
		handle(<-sigs)
	})
}

func handle(sig os.Signal) {
	_ = crash.Write("received " + sig.String() + ", draining")
	RunErrorCleanup()
	RunCleanup()
	exit(1)
}
