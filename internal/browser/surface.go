package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

type playwrightSurface struct {
	page     playwright.Page
	timeouts Timeouts
}

func (s *playwrightSurface) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.timeouts.Navigation)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		_, err := s.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   playwright.Float(float64(s.timeouts.Navigation.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-navCtx.Done():
		return fmt.Errorf("navigate timeout after %v: %w", s.timeouts.Navigation, navCtx.Err())
	case err := <-errChan:
		return err
	}
}

func (s *playwrightSurface) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (s *playwrightSurface) locator(ctx context.Context, selector string) (playwright.Locator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel, err := prepareSelector(selector)
	if err != nil {
		return nil, err
	}
	return s.page.Locator(sel), nil
}

func (s *playwrightSurface) waitVisible(loc playwright.Locator) error {
	return loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(s.timeouts.Action.Milliseconds())),
	})
}

func (s *playwrightSurface) WaitVisible(ctx context.Context, selector string) error {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return err
	}
	if err := s.waitVisible(loc); err != nil {
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

// actionable waits for visibility and scrolls the element into view.
func (s *playwrightSurface) actionable(ctx context.Context, selector string) (playwright.Locator, error) {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return nil, err
	}
	if err := s.waitVisible(loc); err != nil {
		return nil, fmt.Errorf("element not visible: %s: %w", selector, err)
	}
	if err := loc.ScrollIntoViewIfNeeded(); err != nil {
		return nil, fmt.Errorf("scroll to %s: %w", selector, err)
	}
	return loc, nil
}

func (s *playwrightSurface) Click(ctx context.Context, selector string) error {
	loc, err := s.actionable(ctx, selector)
	if err != nil {
		return err
	}
	return loc.Click()
}

func (s *playwrightSurface) Fill(ctx context.Context, selector, value string) error {
	loc, err := s.actionable(ctx, selector)
	if err != nil {
		return err
	}
	return loc.Fill(value)
}

func (s *playwrightSurface) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Keyboard().Press(key)
}

func (s *playwrightSurface) Text(ctx context.Context, selector string) (string, error) {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return "", err
	}
	if err := s.waitVisible(loc); err != nil {
		return "", fmt.Errorf("element not visible: %s: %w", selector, err)
	}
	return loc.InnerText()
}

func (s *playwrightSurface) IsVisible(ctx context.Context, selector string) (bool, error) {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return false, err
	}
	return loc.IsVisible()
}

func (s *playwrightSurface) URL() string {
	return s.page.URL()
}

func (s *playwrightSurface) VideoPath() string {
	v := s.page.Video()
	if v == nil {
		return ""
	}
	p, err := v.Path()
	if err != nil {
		return ""
	}
	return p
}
