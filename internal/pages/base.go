package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uiHarness/internal/browser"
)

var (
	ErrNoSurface = errors.New("page requires a surface")
	ErrAssertion = errors.New("assertion failed")
)

type AssertionError struct {
	Selector string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("expected %s to be visible", e.Selector)
	}
	return fmt.Sprintf("expected %s to have text %q, got %q", e.Selector, e.Expected, e.Actual)
}

func (e *AssertionError) Unwrap() error {
	return ErrAssertion
}

// Base carries the actions every page object shares. Actions wait for the
// element to become visible before touching it.
type Base struct {
	surface browser.Surface
}

func newBase(s browser.Surface) (Base, error) {
	if s == nil {
		return Base{}, ErrNoSurface
	}
	return Base{surface: s}, nil
}

func (b Base) Surface() browser.Surface {
	return b.surface
}

func (b Base) Navigate(ctx context.Context, url string) error {
	return b.surface.Navigate(ctx, url)
}

func (b Base) Click(ctx context.Context, selector string) error {
	if err := b.surface.WaitVisible(ctx, selector); err != nil {
		return err
	}
	return b.surface.Click(ctx, selector)
}

func (b Base) Fill(ctx context.Context, selector, value string) error {
	if err := b.surface.WaitVisible(ctx, selector); err != nil {
		return err
	}
	return b.surface.Fill(ctx, selector, value)
}

func (b Base) Text(ctx context.Context, selector string) (string, error) {
	return b.surface.Text(ctx, selector)
}

func (b Base) IsVisible(ctx context.Context, selector string) (bool, error) {
	return b.surface.IsVisible(ctx, selector)
}

func (b Base) WaitForVisible(ctx context.Context, selector string) error {
	return b.surface.WaitVisible(ctx, selector)
}

func (b Base) AssertVisible(ctx context.Context, selector string) error {
	if err := b.surface.WaitVisible(ctx, selector); err != nil {
		return fmt.Errorf("%w: %v", &AssertionError{Selector: selector}, err)
	}
	return nil
}

func (b Base) AssertText(ctx context.Context, selector, expected string) error {
	actual, err := b.surface.Text(ctx, selector)
	if err != nil {
		return err
	}
	if actual != expected {
		return &AssertionError{Selector: selector, Expected: expected, Actual: actual}
	}
	return nil
}

func (b Base) Press(ctx context.Context, key string) error {
	return b.surface.Press(ctx, key)
}

// Pause waits for d or until ctx is done.
func (b Base) Pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
