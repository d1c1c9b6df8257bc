package rasterkit

import (
	"log/slog"
	"runtime"
)

// Engine applies transforms to rasters. An Engine holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	workers int
	logger  *slog.Logger
}

// EngineOption is a functional option for configuring an Engine.
type EngineOption func(*Engine)

// NewEngine creates a new Engine with the given options.
// Default values: Workers=runtime.GOMAXPROCS(0), logger=package logger.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithWorkers sets the number of goroutines a write phase is split
// across. Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		e.workers = n
	}
}

// WithLogger sets the logger used by the engine instead of the package
// logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// Workers returns the configured worker count.
func (e *Engine) Workers() int {
	return e.workers
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return Logger()
}
