package scenario

import "errors"

var (
	// ErrNotInitialized reports an out-of-order call: Page before Setup, or
	// Setup on a context that already launched.
	ErrNotInitialized = errors.New("scenario context not initialized")

	// ErrScreenshotCaptureFailed wraps capture errors. It is logged and
	// reported in Artifacts, never returned from Teardown.
	ErrScreenshotCaptureFailed = errors.New("screenshot capture failed")
)
