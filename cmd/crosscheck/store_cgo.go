//go:build cgo

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusk-indust/crosscheck/internal/feedback"
)

// openFeedbackStore opens the configured feedback backend: a persistent
// KuzuDB store when a path is configured, an in-memory store otherwise.
func openFeedbackStore(path string) (feedback.Store, func(), error) {
	if path == "" {
		store := feedback.NewMemStore()
		return store, func() { store.Close() }, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	store, err := feedback.NewKuzuFileStore(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}
