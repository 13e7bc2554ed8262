// Package cleanup guarantees finalization on every exit path: normal
// completion, fatal abort and interruption. It removes only transient
// scratch files the installer itself created; the install tree and the
// isolated environment directory are never touched here.
package cleanup

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/techsky-srt/est-install/pkg/logging"
)

// Handler collects finalizers and scratch paths and runs them exactly
// once. Safe to run with nothing registered.
type Handler struct {
	mu       sync.Mutex
	once     sync.Once
	funcs    []func()
	scratch  []string
	logger   zerolog.Logger
	exitFunc func(int)
}

// New creates a Handler.
func New() *Handler {
	return &Handler{
		logger:   logging.GetLogger("cleanup"),
		exitFunc: os.Exit,
	}
}

// Register adds a finalizer. Finalizers run in reverse registration
// order, mirroring defer semantics.
func (h *Handler) Register(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.funcs = append(h.funcs, fn)
}

// AddScratch records a transient file for removal at exit.
func (h *Handler) AddScratch(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scratch = append(h.scratch, path)
}

// Run executes all finalizers and removes scratch files. Subsequent
// calls are no-ops.
func (h *Handler) Run() {
	h.once.Do(func() {
		h.mu.Lock()
		funcs := h.funcs
		scratch := h.scratch
		h.mu.Unlock()

		for i := len(funcs) - 1; i >= 0; i-- {
			funcs[i]()
		}

		for _, path := range scratch {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				h.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove scratch file")
				continue
			}
			h.logger.Debug().Str("path", path).Msg("Removed scratch file")
		}
	})
}

// TrapSignals runs cleanup and exits non-zero when the process receives
// SIGINT or SIGTERM.
func (h *Handler) TrapSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-ch
		h.logger.Warn().Str("signal", sig.String()).Msg("Interrupted, cleaning up")
		h.Run()
		h.exitFunc(1)
	}()
}
