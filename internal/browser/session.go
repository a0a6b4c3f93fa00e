package browser

import (
	"errors"
	"fmt"
)

// Session is the engine handle and navigable surface owned by one scenario.
type Session struct {
	Kind    Kind
	Handle  Handle
	Context BrowserContext
	Surface Surface

	tracing bool
	closed  bool
}

func (s *Session) Closed() bool {
	return s == nil || s.closed
}

func (s *Session) Tracing() bool {
	return s != nil && s.tracing
}

// Screenshot captures the surface to path.
func (s *Session) Screenshot(path string) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	if s.Surface == nil {
		return errors.New("session has no surface")
	}
	return s.Surface.Screenshot(path)
}

// StopTracing flushes the trace archive to path, or discards it when path
// is empty. Must run before close.
func (s *Session) StopTracing(path string) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	if !s.tracing || s.Context == nil {
		return nil
	}
	s.tracing = false
	if err := s.Context.StopTracing(path); err != nil {
		return fmt.Errorf("stop tracing: %w", err)
	}
	return nil
}

func (s *Session) VideoPath() string {
	if s == nil || s.Surface == nil {
		return ""
	}
	return s.Surface.VideoPath()
}

// release closes the context and then the engine handle. Only the first call
// does anything.
func (s *Session) release() error {
	if s.Closed() {
		return nil
	}
	s.closed = true

	var errs []error
	if s.Context != nil {
		if err := s.Context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
	}
	if s.Handle != nil {
		if err := s.Handle.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	return errors.Join(errs...)
}
