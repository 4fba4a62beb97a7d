// Package prefs stores the UI theme preference. Domain data is deliberately
// in-memory only; the theme is the one value that may outlive a restart, via
// an optional Redis key.
package prefs

import (
	"context"
	"slices"
	"sync"
)

const DefaultTheme = "emerald"

// Themes lists the selectable palettes, default first.
var Themes = []string{"emerald", "blue", "purple", "orange"}

func ValidTheme(name string) bool {
	return slices.Contains(Themes, name)
}

// ThemeStore reads and writes the saved theme. Get reports found=false when
// nothing has been saved yet; callers fall back to DefaultTheme.
type ThemeStore interface {
	Get(ctx context.Context) (theme string, found bool, err error)
	Set(ctx context.Context, theme string) error
	// Persistent reports whether saved values survive a process restart.
	Persistent() bool
}

// MemoryThemeStore keeps the theme for the life of the process.
type MemoryThemeStore struct {
	mu    sync.RWMutex
	theme string
}

func NewMemoryThemeStore() *MemoryThemeStore {
	return &MemoryThemeStore{}
}

func (m *MemoryThemeStore) Get(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.theme == "" {
		return "", false, nil
	}
	return m.theme, true, nil
}

func (m *MemoryThemeStore) Set(_ context.Context, theme string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	return nil
}

func (m *MemoryThemeStore) Persistent() bool { return false }
