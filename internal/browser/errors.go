package browser

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedBrowser = errors.New("unsupported browser")
	ErrSessionClosed      = errors.New("session closed")
)

type UnsupportedBrowserError struct {
	Value string
}

func (e *UnsupportedBrowserError) Error() string {
	return fmt.Sprintf("unsupported browser: %q (expected chromium, firefox or webkit)", e.Value)
}

func (e *UnsupportedBrowserError) Unwrap() error {
	return ErrUnsupportedBrowser
}
