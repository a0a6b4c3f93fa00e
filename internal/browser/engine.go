package browser

import (
	"context"
	"time"
)

type Kind string

const (
	Chromium Kind = "chromium"
	Firefox  Kind = "firefox"
	WebKit   Kind = "webkit"
)

// ParseKind maps the execution config's browser field to an engine variant.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Chromium, Firefox, WebKit:
		return Kind(s), nil
	}
	return "", &UnsupportedBrowserError{Value: s}
}

type LaunchOptions struct {
	Headless bool
	SlowMo   time.Duration
}

type Viewport struct {
	Width  int
	Height int
}

type ContextOptions struct {
	Viewport Viewport
	// RecordVideoDir enables video capture when non-empty.
	RecordVideoDir string
	Tracing        bool
}

type Timeouts struct {
	Navigation time.Duration
	Action     time.Duration
}

// Engine is the narrow slice of a browser-automation engine the harness
// depends on.
type Engine interface {
	Launch(ctx context.Context, kind Kind, opts LaunchOptions) (Handle, error)
}

type Handle interface {
	NewContext(opts ContextOptions) (BrowserContext, error)
	Close() error
}

type BrowserContext interface {
	NewSurface(timeouts Timeouts) (Surface, error)
	// StopTracing writes the trace archive to path, or drops it when path
	// is empty. It is a no-op when the context was opened without tracing.
	StopTracing(path string) error
	Close() error
}

// Surface is one open page. Page objects act on it through selectors.
type Surface interface {
	Navigate(ctx context.Context, url string) error
	Screenshot(path string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	Press(ctx context.Context, key string) error
	Text(ctx context.Context, selector string) (string, error)
	IsVisible(ctx context.Context, selector string) (bool, error)
	WaitVisible(ctx context.Context, selector string) error
	URL() string
	// VideoPath is empty unless the context records video.
	VideoPath() string
}
