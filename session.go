package rasterkit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Session holds a source raster and the processed raster derived from
// it. Each applied step reads the processed raster and, on success,
// replaces it. A Session is not safe for concurrent use.
type Session struct {
	engine    *Engine
	logger    *slog.Logger
	source    *Raster
	processed *Raster
	lastEq    *EqualizeResult
}

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*Session)

// WithEngine sets the engine steps run on.
func WithEngine(e *Engine) SessionOption {
	return func(s *Session) {
		s.engine = e
	}
}

// WithSessionLogger sets the logger for step records.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession starts a session on source. The processed raster begins as
// a copy of source.
func NewSession(source *Raster, opts ...SessionOption) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = NewEngine()
	}
	s.Load(source)
	return s
}

// Load replaces both the source and the processed raster.
func (s *Session) Load(source *Raster) {
	s.source = source.Clone()
	s.processed = source.Clone()
	s.lastEq = nil
}

// Source returns the raster the session was loaded with.
func (s *Session) Source() *Raster { return s.source }

// Processed returns the current processed raster.
func (s *Session) Processed() *Raster { return s.processed }

// Engine returns the session's engine.
func (s *Session) Engine() *Engine { return s.engine }

// Reset copies the source raster over the processed raster.
func (s *Session) Reset() {
	s.processed = s.source.Clone()
	s.lastEq = nil
}

// Histogram returns the luminance histogram of the processed raster.
func (s *Session) Histogram() Histogram {
	return s.engine.Histogram(s.processed)
}

// LastEqualize returns the before and after histograms of the most
// recent equalize step, or nil if the last step was not an equalize.
func (s *Session) LastEqualize() *EqualizeResult {
	return s.lastEq
}

// Apply runs step on the processed raster. On error the processed
// raster is left untouched.
func (s *Session) Apply(step Step) error {
	log := s.log().With(slog.String("step", step.Name()), slog.String("op_id", uuid.NewString()))
	in := s.processed
	start := time.Now()

	var (
		out *Raster
		eq  *EqualizeResult
		err error
	)
	if _, ok := step.(equalizeStep); ok {
		res := s.engine.Equalize(in)
		out, eq = res.Raster, &res
	} else {
		out, err = step.Apply(s.engine, in)
	}
	if err != nil {
		log.Warn("step rejected", slog.Any("error", err))
		return fmt.Errorf("step %s: %w", step.Name(), err)
	}

	s.processed = out
	s.lastEq = eq
	log.Debug("step applied",
		slog.String("in", in.String()),
		slog.String("out", out.String()),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// ApplyAll applies steps in order and stops at the first failure. Steps
// applied before the failure are kept.
func (s *Session) ApplyAll(steps []Step) error {
	for _, step := range steps {
		if err := s.Apply(step); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return s.engine.log()
}
