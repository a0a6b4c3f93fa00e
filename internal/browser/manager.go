package browser

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"uiHarness/internal/config"
)

// Manager launches and releases sessions. It keeps no reference to the
// sessions it creates, so one Manager may serve several scenarios.
type Manager struct {
	engine Engine
	log    *zap.Logger
}

func NewManager(engine Engine, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		engine: engine,
		log:    log.Named("browser"),
	}
}

type launchSettings struct {
	timeouts config.Timeouts
}

type LaunchOption func(*launchSettings)

// WithTimeouts applies an environment's page-load and element timeouts to
// the surface.
func WithTimeouts(t config.Timeouts) LaunchOption {
	return func(s *launchSettings) {
		s.timeouts = t
	}
}

// Launch starts the configured engine, opens a context and one surface, and
// navigates it to baseURL. Failures before the surface exists release
// everything already started. A navigation failure returns the live session
// together with the error so the caller can capture it before closing.
func (m *Manager) Launch(ctx context.Context, exec *config.ExecutionConfig, baseURL string, opts ...LaunchOption) (*Session, error) {
	kind, err := ParseKind(exec.Browser)
	if err != nil {
		return nil, err
	}

	settings := launchSettings{
		timeouts: config.Timeouts{
			PageLoad: config.DefaultPageLoadTimeoutMs,
			Element:  config.DefaultElementTimeoutMs,
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}

	handle, err := m.engine.Launch(ctx, kind, LaunchOptions{
		Headless: exec.Headless,
		SlowMo:   exec.SlowMoDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", kind, err)
	}

	ctxOpts := ContextOptions{
		Viewport: Viewport{Width: exec.Viewport.Width, Height: exec.Viewport.Height},
		Tracing:  exec.Trace != config.ModeOff,
	}
	if exec.Video != config.ModeOff {
		ctxOpts.RecordVideoDir = filepath.Join(exec.ArtifactsDir, "videos")
	}

	bctx, err := handle.NewContext(ctxOpts)
	if err != nil {
		m.closeQuietly(handle)
		return nil, fmt.Errorf("new context: %w", err)
	}

	surface, err := bctx.NewSurface(Timeouts{
		Navigation: settings.timeouts.PageLoadDuration(),
		Action:     settings.timeouts.ElementDuration(),
	})
	if err != nil {
		m.closeQuietly(bctx)
		m.closeQuietly(handle)
		return nil, fmt.Errorf("new surface: %w", err)
	}

	session := &Session{
		Kind:    kind,
		Handle:  handle,
		Context: bctx,
		Surface: surface,
		tracing: ctxOpts.Tracing,
	}

	m.log.Info("browser launched",
		zap.String("browser", string(kind)),
		zap.Bool("headless", exec.Headless),
		zap.Int("slow_mo_ms", exec.SlowMo),
		zap.Int("viewport_width", exec.Viewport.Width),
		zap.Int("viewport_height", exec.Viewport.Height),
	)

	if err := surface.Navigate(ctx, baseURL); err != nil {
		return session, fmt.Errorf("navigate to %s: %w", baseURL, err)
	}
	return session, nil
}

// Close releases the session. Closing a nil, never-opened or already closed
// session is a no-op.
func (m *Manager) Close(s *Session) error {
	if s.Closed() {
		return nil
	}
	if err := s.release(); err != nil {
		return err
	}
	m.log.Debug("browser closed", zap.String("browser", string(s.Kind)))
	return nil
}

type closer interface {
	Close() error
}

func (m *Manager) closeQuietly(c closer) {
	if err := c.Close(); err != nil {
		m.log.Warn("cleanup after failed launch", zap.Error(err))
	}
}
