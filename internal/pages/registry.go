// Package pages holds the per-scenario page-object registry and the page
// objects for the application under test.
package pages

import (
	"fmt"
	"reflect"

	"uiHarness/internal/browser"
)

// Constructor builds a page object bound to a surface.
type Constructor[P any] func(browser.Surface) (P, error)

// Registry caches one page object per page type for the lifetime of a
// scenario. It is not safe for concurrent use; each scenario owns its own.
type Registry struct {
	surface browser.Surface
	pages   map[reflect.Type]any
}

func NewRegistry(surface browser.Surface) *Registry {
	return &Registry{
		surface: surface,
		pages:   make(map[reflect.Type]any),
	}
}

// Get returns the cached page of type P, constructing it on first request.
// A failed construction is not cached.
func Get[P any](r *Registry, newPage Constructor[P]) (P, error) {
	key := reflect.TypeFor[P]()
	if cached, ok := r.pages[key]; ok {
		return cached.(P), nil
	}

	page, err := newPage(r.surface)
	if err != nil {
		var zero P
		return zero, fmt.Errorf("construct %s: %w", key, err)
	}
	r.pages[key] = page
	return page, nil
}
