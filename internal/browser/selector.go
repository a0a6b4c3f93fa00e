package browser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	containsDouble   = regexp.MustCompile(`:contains\("([^"]*)"\)`)
	containsSingle   = regexp.MustCompile(`:contains\('([^']*)'\)`)
	containsNoQuotes = regexp.MustCompile(`:contains\(([^)"']+)\)`)
)

// NormalizeSelector rewrites jQuery-style :contains() into Playwright's
// :has-text(). It reports whether the selector changed.
func NormalizeSelector(selector string) (string, bool) {
	if selector == "" {
		return selector, false
	}

	normalized := selector
	changed := false

	normalized = containsDouble.ReplaceAllStringFunc(normalized, func(match string) string {
		changed = true
		text := containsDouble.FindStringSubmatch(match)[1]
		text = strings.ReplaceAll(text, `\`, `\\`)
		return `:has-text("` + text + `")`
	})

	normalized = containsSingle.ReplaceAllStringFunc(normalized, func(match string) string {
		changed = true
		text := containsSingle.FindStringSubmatch(match)[1]
		text = strings.ReplaceAll(text, `\`, `\\`)
		return `:has-text('` + text + `')`
	})

	normalized = containsNoQuotes.ReplaceAllStringFunc(normalized, func(match string) string {
		changed = true
		text := strings.TrimSpace(containsNoQuotes.FindStringSubmatch(match)[1])
		return `:has-text("` + text + `")`
	})

	return normalized, changed
}

// ValidateSelector rejects empty selectors and URLs passed where a selector
// was expected.
func ValidateSelector(selector string) error {
	trimmed := strings.TrimSpace(selector)
	if trimmed == "" {
		return fmt.Errorf("selector must not be empty")
	}
	if strings.Contains(trimmed, "://") {
		return fmt.Errorf("selector looks like a URL, use Navigate instead: %s", selector)
	}
	return nil
}

func prepareSelector(selector string) (string, error) {
	if err := ValidateSelector(selector); err != nil {
		return "", fmt.Errorf("invalid selector: %w", err)
	}
	normalized, _ := NormalizeSelector(selector)
	return normalized, nil
}
